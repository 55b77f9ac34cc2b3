package main

import (
	"fmt"
	"log"

	"github.com/dusk-indust/parsedescribe/internal/analysis"
	"github.com/dusk-indust/parsedescribe/internal/batch"
	"github.com/spf13/cobra"
)

func newBatchCmd(flags *globalFlags) *cobra.Command {
	var (
		outputDir string
		workers   int
		quiet     bool
	)

	cmd := &cobra.Command{
		Use:   "batch [flags] path...",
		Short: "Describe many files, writing one document per file",
		Long: `batch walks each path, describes every file with a known extension and
writes <file>.describe under the output directory, mirroring the layout of
each path. Files given directly are always described.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			if workers == 0 {
				workers = cfg.Workers
			}

			jobs, err := batch.Collect(args, outputDir, cfg)
			if err != nil {
				return err
			}
			log.Printf("batch: %d files, %d workers", len(jobs), workers)

			onProgress := func(ev batch.ProgressEvent) {
				if quiet || ev.Status == batch.ProgressPending || ev.Status == batch.ProgressWorking {
					return
				}
				fmt.Fprintln(cmd.ErrOrStderr(), batch.FormatProgress(ev))
			}

			results, err := batch.NewRunner(analysis.New(), workers, onProgress).Run(cmd.Context(), jobs)
			if err != nil {
				return err
			}

			rejected := 0
			for _, r := range results {
				if r.Failed {
					rejected++
				}
			}
			if !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d described, %d with errors\n", len(results), rejected)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "directory for the .describe documents")
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "parallel workers (default: config, then GOMAXPROCS)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress per-file progress")
	return cmd
}

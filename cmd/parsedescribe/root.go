package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dusk-indust/parsedescribe/internal/analysis"
	"github.com/dusk-indust/parsedescribe/internal/config"
	"github.com/dusk-indust/parsedescribe/internal/engine"
	"github.com/dusk-indust/parsedescribe/internal/export"
	"github.com/dusk-indust/parsedescribe/internal/protocol"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	ConfigDir string
	Language  string
	Verbose   bool
	Format    string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "parsedescribe [file]",
		Short: "Describe a source buffer as diagnostics and a structural outline",
		Long: `parsedescribe parses one source buffer and writes a single document with
its diagnostics and its structural outline. The buffer is read from file, or
from stdin when no file is given.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(cmd, &flags, args)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.ConfigDir, "config-dir", ".", "directory holding parsedescribe.yml")
	pf.StringVarP(&flags.Language, "language", "l", "", "language to parse (default: from extension, then config, then rust)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "log engine activity to stderr")
	root.Flags().StringVarP(&flags.Format, "format", "f", "text", "output format (text|json|mermaid)")

	root.AddCommand(newBatchCmd(&flags))
	root.AddCommand(newServeMCPCmd(&flags))
	root.AddCommand(newLanguagesCmd())

	return root
}

// setup loads the project config, applies flag overrides and routes the
// standard logger.
func setup(cmd *cobra.Command, flags *globalFlags) (*config.ProjectConfig, error) {
	cfg, err := config.Load(flags.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.Language != "" {
		if _, err := engine.ParseLanguage(flags.Language); err != nil {
			return nil, err
		}
		cfg.Language = flags.Language
	}
	if flags.Verbose {
		cfg.Verbose = true
	}

	log.SetFlags(0)
	if cfg.Verbose {
		log.SetOutput(cmd.ErrOrStderr())
	} else {
		log.SetOutput(io.Discard)
	}
	return cfg, nil
}

func runDescribe(cmd *cobra.Command, flags *globalFlags, args []string) error {
	switch flags.Format {
	case "text", "json", "mermaid":
	default:
		return fmt.Errorf("unknown format: %s", flags.Format)
	}
	cfg, err := setup(cmd, flags)
	if err != nil {
		return err
	}

	var (
		src  []byte
		lang = cfg.DefaultLanguage()
	)
	if len(args) == 0 {
		if src, err = io.ReadAll(cmd.InOrStdin()); err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	} else {
		if src, err = os.ReadFile(args[0]); err != nil {
			return err
		}
		if flags.Language == "" {
			extra, err := cfg.ExtensionMap()
			if err != nil {
				return err
			}
			if l, ok := engine.LanguageForPath(args[0], extra); ok {
				lang = l
			}
		}
	}

	log.Printf("describe: %d bytes as %s", len(src), lang)
	a := analysis.New()
	if flags.Format == "text" {
		return a.Describe(cmd.Context(), lang, src, cmd.OutOrStdout())
	}

	var buf bytes.Buffer
	if err := a.Describe(cmd.Context(), lang, src, &buf); err != nil {
		return err
	}
	doc, err := protocol.Decode(&buf)
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	if flags.Format == "mermaid" {
		_, err = io.WriteString(cmd.OutOrStdout(), export.GenerateMermaid(doc))
		return err
	}
	return export.WriteJSON(cmd.OutOrStdout(), doc)
}

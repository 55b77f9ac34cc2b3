package main

import (
	"github.com/dusk-indust/parsedescribe/internal/analysis"
	"github.com/dusk-indust/parsedescribe/internal/mcptools"
	"github.com/spf13/cobra"
)

func newServeMCPCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve-mcp",
		Short: "Run as an MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			extra, err := cfg.ExtensionMap()
			if err != nil {
				return err
			}

			svc := mcptools.NewDescribeService(analysis.New())
			svc.SetDefaults(cfg.DefaultLanguage(), extra)
			stderr := cmd.ErrOrStderr()
			svc.OnAbort(func(err error) { reportAbort(stderr, err) })
			return mcptools.RunStdio(cmd.Context(), mcptools.NewDescribeMCPServer(svc))
		},
	}
}

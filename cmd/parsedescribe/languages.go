package main

import (
	"fmt"
	"strings"

	"github.com/dusk-indust/parsedescribe/internal/engine"
	"github.com/spf13/cobra"
)

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages and their file extensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, lang := range engine.Languages() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-11s %-27s %s\n",
					lang, lang.ToolTag(), strings.Join(engine.Extensions(lang), " "))
			}
			return nil
		},
	}
}

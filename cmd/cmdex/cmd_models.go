package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Expert21/cmdex/repl"
)

func newModelsCmd() *cobra.Command {
	models := &cobra.Command{
		Use:   "models",
		Short: "Manage backend models",
	}
	models.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the models available on the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp("")
			if err != nil {
				return err
			}
			if err := checkBackend(cmd, a); err != nil {
				return err
			}

			list, err := a.client.ListModels(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				repl.PrintHint(out, "No models found. Run 'ollama pull <model>' to download one.")
				return nil
			}
			fmt.Fprintln(out, "Available models:")
			for _, m := range list {
				fmt.Fprintf(out, "  • %s%s\n", m.Name, formatSize(m.Size))
			}
			return nil
		},
	})
	return models
}

func formatSize(bytes int64) string {
	if bytes <= 0 {
		return ""
	}
	return fmt.Sprintf(" (%.1f GB)", float64(bytes)/(1<<30))
}

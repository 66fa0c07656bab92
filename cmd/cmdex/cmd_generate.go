package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Expert21/cmdex/prompt"
	"github.com/Expert21/cmdex/repl"
)

func newGenerateCmd(personaFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <description>",
		Short: "Generate a terminal command from a natural-language description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*personaFlag)
			if err != nil {
				return err
			}
			if err := checkBackend(cmd, a); err != nil {
				return err
			}

			env, err := a.builder.Build(prompt.Request{
				Intent: prompt.IntentGenerate,
				Text:   args[0],
			})
			if err != nil {
				return err
			}

			result, err := a.client.Complete(cmd.Context(), env)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), repl.RenderCommandPanel(strings.TrimSpace(result)))
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Expert21/cmdex/prompt"
	"github.com/Expert21/cmdex/repl"
)

func newExplainCmd(personaFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <command>",
		Short: "Explain what a terminal command does",
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
				Intent: prompt.IntentExplain,
				Text:   args[0],
			})
			if err != nil {
				return err
			}

			stream, err := a.client.StreamComplete(cmd.Context(), env)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			turn, err := repl.Consume(cmd.Context(), stream, func(frag string) {
				fmt.Fprint(out, frag)
			})
			fmt.Fprintln(out)
			if err != nil {
				// The fragments printed so far stay on screen; report the
				// break and fail the command.
				return err
			}
			if turn.Cancelled {
				repl.PrintHint(out, "(cancelled)")
			}
			return nil
		},
	}
}

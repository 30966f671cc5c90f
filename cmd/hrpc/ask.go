package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NTPCPHARMACY/HRPC/pkg/assistant"
)

func (a *app) askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the HRPC assistant a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			conv := assistant.NewConversation(newSender(cfg))
			if !conv.Send(cmd.Context(), strings.Join(args, " ")) {
				return fmt.Errorf("empty question")
			}
			msgs := conv.Messages()
			fmt.Fprintln(cmd.OutOrStdout(), msgs[len(msgs)-1].Text)
			return nil
		},
	}
}

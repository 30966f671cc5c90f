package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/NTPCPHARMACY/HRPC/internal/console"
	"github.com/NTPCPHARMACY/HRPC/pkg/assistant"
	"github.com/NTPCPHARMACY/HRPC/pkg/gate"
)

func (a *app) consoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Open the interactive terminal console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			// Log lines would tear the full-screen UI.
			if !a.verbose {
				slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
			}
			site, err := a.open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer site.Close(cmd.Context())

			conv := assistant.NewConversation(newSender(cfg), assistant.WithLogger(slog.Default()))
			return console.Run(cmd.Context(), site.Coordinator, cmd.InOrStdin(), cmd.OutOrStdout(),
				console.WithGate(gate.New(cfg.Secret)),
				console.WithConversation(conv),
				console.WithLogger(slog.Default()),
			)
		},
	}
}

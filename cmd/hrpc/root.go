package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	hrpc "github.com/NTPCPHARMACY/HRPC"
	"github.com/NTPCPHARMACY/HRPC/pkg/core"
	"github.com/NTPCPHARMACY/HRPC/pkg/gate"
)

// app carries the global flags shared by every subcommand.
type app struct {
	verbose    bool
	store      string
	dsn        string
	configPath string
	secret     string
}

// newRootCmd represents the base command when called without any subcommands.
func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "hrpc",
		Short: "Content manager for the HRPC (受試者保護中心) site",
		Long: `hrpc manages the editable collections of the Human Research Protection
Center site: announcements, staff, documents and meeting records.
Collections are seeded on first use and stored through a pluggable adapter.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}

			opts := &slog.HandlerOptions{
				Level: level,
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
			slog.SetDefault(logger)
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	pf.StringVar(&a.store, "store", "", "Storage adapter ("+strings.Join(hrpc.Adapters(), ", ")+")")
	pf.StringVar(&a.dsn, "dsn", "", "Adapter location: directory, file, DSN or URI")
	pf.StringVar(&a.configPath, "config", "", "Configuration file (default hrpc.yaml)")
	pf.StringVar(&a.secret, "secret", "", "Maintainer secret (prompted when omitted)")

	cmd.AddCommand(
		a.listCmd(),
		a.schemaCmd(),
		a.addCmd(),
		a.editCmd(),
		a.inlineCmd(),
		a.deleteCmd(),
		a.resetCmd(),
		a.askCmd(),
		a.serveCmd(),
		a.consoleCmd(),
		versionCmd(),
	)
	return cmd
}

// config layers the global flags over hrpc.yaml, .env and the environment.
func (a *app) config() (hrpc.Config, error) {
	cfg, err := hrpc.LoadConfig(a.configPath)
	if err != nil {
		return cfg, err
	}
	if a.store != "" {
		cfg.Store = a.store
	}
	if a.dsn != "" {
		cfg.DSN = a.dsn
	}
	return cfg, nil
}

func (a *app) open(ctx context.Context, cfg hrpc.Config, opts ...hrpc.Option) (*hrpc.Site, error) {
	all := append(cfg.Options(), hrpc.WithLogger(slog.Default()))
	site, err := hrpc.New(ctx, cfg.DSN, append(all, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	return site, nil
}

// openMaintainer opens the site in maintainer mode once the secret passes
// the gate. The secret comes from --secret or is read from the prompter.
func (a *app) openMaintainer(ctx context.Context, p *prompter, opts ...hrpc.Option) (*hrpc.Site, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	prompt := p.secret
	if a.secret != "" {
		prompt = func() (string, bool) { return a.secret, true }
	}
	mode, err := gate.New(cfg.Secret).Toggle(core.Guest, prompt)
	if err != nil {
		return nil, err
	}
	return a.open(ctx, cfg, append(opts, hrpc.WithMode(mode))...)
}

// prompter reads answers from the command input.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.ErrOrStderr()}
}

func (p *prompter) line(prompt string) (string, bool) {
	fmt.Fprint(p.out, prompt)
	s, err := p.in.ReadString('\n')
	s = strings.TrimSpace(s)
	if err != nil && s == "" {
		return "", false
	}
	return s, true
}

func (p *prompter) secret() (string, bool) {
	s, ok := p.line("Maintainer secret: ")
	return s, ok && s != ""
}

// Confirm implements mutation.Confirmer.
func (p *prompter) Confirm(_ context.Context, prompt string) (bool, error) {
	s, ok := p.line(prompt + " [y/N]: ")
	if !ok {
		return false, nil
	}
	switch strings.ToLower(s) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

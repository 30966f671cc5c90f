package console

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	hrpclifecycle "github.com/NTPCPHARMACY/HRPC/pkg/adapters/lifecycle"
	"github.com/NTPCPHARMACY/HRPC/pkg/mutation"
)

// Run starts the console on the terminal and blocks until the user quits
// or ctx ends. Coordinator events refresh the view.
func Run(ctx context.Context, coord *mutation.Coordinator, in io.Reader, out io.Writer, opts ...Option) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, unsubscribe := coord.Subscribe()
	defer unsubscribe()

	src := hrpclifecycle.NewSource(events)
	if err := src.Start(ctx); err != nil {
		return fmt.Errorf("start event source: %w", err)
	}

	m := New(ctx, coord, append(opts, WithEvents(src.Events()))...)
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("console: %w", err)
	}
	return nil
}

package mutation

import "context"

// DeletePrompt is the question asked before a record is deleted.
const DeletePrompt = "確定要刪除此項目嗎？"

// Confirmer asks the user a blocking yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Answer returns a Confirmer that always gives the same answer. Surfaces
// that collect the confirmation themselves (HTTP query flag, TUI y/n key)
// pass Answer(true) once the user agreed.
func Answer(yes bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) (bool, error) { return yes, nil })
}

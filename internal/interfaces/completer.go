package interfaces

import "context"

// Completer produces a free-form text completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

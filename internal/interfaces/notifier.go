package interfaces

import "context"

// Channel delivers one notification message. Tag is one of
// "signal", "error" or "info".
type Channel interface {
	Name() string
	Send(ctx context.Context, tag, message string) error
}

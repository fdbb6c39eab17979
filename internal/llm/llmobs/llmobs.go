package llmobs

import (
	"context"

	"gold-trading-assistant/internal/interfaces"
	"gold-trading-assistant/internal/logger"
	"gold-trading-assistant/internal/trace"
)

// observableCompleter wraps a Completer with observability (logging & tracing)
type observableCompleter struct {
	completer interfaces.Completer
}

// Compile-time interface check
var _ interfaces.Completer = (*observableCompleter)(nil)

// Wrap wraps a completer with observability middleware
func Wrap(completer interfaces.Completer) interfaces.Completer {
	return &observableCompleter{
		completer: completer,
	}
}

func (oc *observableCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Complete")
	defer span.End()

	// Use DebugSkip(1) to report the actual caller, not this middleware wrapper
	logger.DebugSkip(ctx, 1, "Requesting model completion",
		"prompt_chars", len(prompt),
	)

	text, err := oc.completer.Complete(ctx, prompt)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Model completion failed", err)
		return "", err
	}

	logger.InfoSkip(ctx, 1, "Model completion received",
		"response_chars", len(text),
	)
	return text, nil
}

package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/applyforge/applyforge/internal/prompt"
	"github.com/applyforge/applyforge/internal/utils"
)

const initialBackoff = time.Second

// waitFor is stubbed in tests.
var waitFor = utils.WaitFor

// Generate runs gen with a bounded retry policy. Only ErrUpstreamUnavailable
// is transient enough to retry; truncated or empty responses indicate a
// problem with the request shape and surface immediately. Context
// cancellation during backoff resolves to ErrUpstreamUnavailable.
func Generate(ctx context.Context, logger *zap.Logger, gen Generator, conv prompt.Conversation, maxAttempts int) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	backoff := initialBackoff
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, err := gen.Generate(ctx, conv)
		if err == nil {
			return text, nil
		}

		if !errors.Is(err, ErrUpstreamUnavailable) {
			return "", err
		}

		lastErr = err
		if attempt == maxAttempts {
			break
		}

		logger.Warn("generation attempt failed",
			zap.String("hint", conv.Hint),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)

		if waitErr := waitFor(ctx, backoff); waitErr != nil {
			return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, waitErr)
		}
		backoff *= 2
	}

	return "", lastErr
}

// Package ai defines the seam between the orchestration controllers and the
// text generation backends, plus the shared failure taxonomy.
package ai

import (
	"context"
	"errors"

	"github.com/applyforge/applyforge/internal/prompt"
)

// Generation failure kinds. Controllers match on these with errors.Is; the
// concrete backend error stays wrapped underneath for logging.
var (
	// ErrTruncatedOutput means the backend stopped because of a length limit
	// before completing the artifact. Never retried.
	ErrTruncatedOutput = errors.New("generation stopped due to output length limit")

	// ErrEmptyResponse means the call succeeded but carried no usable text.
	// Never retried.
	ErrEmptyResponse = errors.New("generation backend returned no response")

	// ErrUpstreamUnavailable covers network and service failures, including
	// timeouts. May be retried a bounded number of times.
	ErrUpstreamUnavailable = errors.New("generation backend unavailable")
)

// Generator produces text for an ordered conversation. Implementations make
// at most one outbound call per invocation; retry policy belongs to the
// caller (see Generate).
type Generator interface {
	Generate(ctx context.Context, conv prompt.Conversation) (string, error)
}

// Package letter owns one cover letter session: the append-only version
// history and the controller that orchestrates generation and refinement
// against a generation backend.
package letter

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/applyforge/applyforge/internal/ai"
	"github.com/applyforge/applyforge/internal/application"
	"github.com/applyforge/applyforge/internal/captcha"
	"github.com/applyforge/applyforge/internal/prompt"
)

var (
	// ErrValidation marks a request rejected before any generation call.
	ErrValidation = errors.New("invalid request")

	// ErrNoCoverLetter marks a refinement without a generated letter to
	// refine.
	ErrNoCoverLetter = errors.New("no cover letter has been generated yet")
)

// Deps aggregates the collaborators of a session.
type Deps struct {
	Generator ai.Generator
	// Verifier is optional; when set, Create refuses to call the backend
	// until the supplied token passes verification.
	Verifier captcha.Verifier
	Logger   *zap.Logger
}

// Session is the caller-scoped state container for one cover letter
// conversation. Operations on a session are strictly serialized: a request
// arriving while another is in flight queues behind it. Sessions of
// different callers share no state.
type Session struct {
	mu          sync.Mutex
	store       *Store
	gen         ai.Generator
	verifier    captcha.Verifier
	logger      *zap.Logger
	maxAttempts int
}

// NewSession creates an empty cover letter session. maxAttempts bounds the
// retries for transient backend failures.
func NewSession(deps *Deps, maxAttempts int) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		store:       NewStore(),
		gen:         deps.Generator,
		verifier:    deps.Verifier,
		logger:      logger,
		maxAttempts: maxAttempts,
	}
}

// Create generates the initial cover letter. On success any prior history is
// cleared and the fresh letter becomes version 1 labeled "initial". A
// generation failure leaves existing history untouched.
func (s *Session) Create(ctx context.Context, job application.Job, applicant application.Applicant, captchaToken string) (Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.verifier != nil {
		if err := s.verifier.Verify(ctx, captchaToken); err != nil {
			return Version{}, err
		}
	}

	conv := prompt.CoverLetter(job, applicant)
	text, err := ai.Generate(ctx, s.logger, s.gen, conv, s.maxAttempts)
	if err != nil {
		return Version{}, err
	}

	s.store.Reset()
	v := s.store.Append(text, prompt.InitialLabel)

	s.logger.Info("cover letter generated",
		zap.Int("version", v.ID),
		zap.String("job_title", job.Title),
	)

	return v, nil
}

// Refine produces a new version from the current letter and the given
// refinement. Free-text instructions are validated before any outbound call.
// On failure no version is appended and the current letter stays unchanged.
func (s *Session) Refine(ctx context.Context, job application.Job, applicant application.Applicant, op prompt.RefineOp) (Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if free, ok := op.(prompt.FreeInput); ok {
		if err := free.Validate(); err != nil {
			return Version{}, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	current, ok := s.store.Current()
	if !ok {
		return Version{}, ErrNoCoverLetter
	}

	conv := prompt.RefineCoverLetter(job, applicant, current.Text, op)
	text, err := ai.Generate(ctx, s.logger, s.gen, conv, s.maxAttempts)
	if err != nil {
		return Version{}, err
	}

	v := s.store.Append(text, op.Label())

	s.logger.Info("cover letter refined",
		zap.Int("version", v.ID),
		zap.String("label", v.Label),
		zap.Int("based_on", current.ID),
	)

	return v, nil
}

// Current returns the version the next refinement would be based on.
func (s *Session) Current() (Version, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Current()
}

// Select makes a historical version the current one.
func (s *Session) Select(id int) (Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Select(id)
}

// Versions returns the session history in creation order.
func (s *Session) Versions() []Version {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Versions()
}

// Reset clears the session. It is idempotent.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Reset()
	s.logger.Info("cover letter session reset")
}

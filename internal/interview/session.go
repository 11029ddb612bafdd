// Package interview owns one knowledge test session: sequentially numbered
// multiple-choice questions, the running dialogue replayed to the generation
// backend, and the one-shot answer/explanation flow.
package interview

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/applyforge/applyforge/internal/ai"
	"github.com/applyforge/applyforge/internal/application"
	"github.com/applyforge/applyforge/internal/prompt"
	"github.com/applyforge/applyforge/internal/quota"
)

var (
	// ErrQuestionNotFound marks a reference to a question id absent from the
	// session.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrAlreadyAnswered marks a second answer to a question whose answer is
	// already recorded.
	ErrAlreadyAnswered = errors.New("question has already been answered")

	// ErrInvalidAnswer marks an answer index outside the question's options.
	ErrInvalidAnswer = errors.New("answer index out of range")
)

// Deps aggregates the collaborators of a test session.
type Deps struct {
	Generator ai.Generator
	Logger    *zap.Logger
}

// Session is the caller-scoped state container for one test run. Operations
// are strictly serialized; a request arriving while another is in flight
// queues behind it.
type Session struct {
	mu          sync.Mutex
	gen         ai.Generator
	gate        *quota.Gate
	logger      *zap.Logger
	maxAttempts int

	questions []Question
	messages  []prompt.Message
}

// NewSession creates an empty test session. maxAttempts bounds the retries
// for transient backend failures.
func NewSession(deps *Deps, maxAttempts int) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		gen:         deps.Generator,
		gate:        quota.NewGate(),
		logger:      logger,
		maxAttempts: maxAttempts,
	}
}

// NextQuestion requests one more question from the backend. The question cap
// is enforced before any outbound call; once reached every further request
// fails with quota.ErrQuotaExceeded. A generation or parse failure appends
// nothing.
func (s *Session) NextQuestion(ctx context.Context, job application.Job, applicant application.Applicant) (Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gate.CanAskTestQuestion(len(s.questions)); err != nil {
		return Question{}, err
	}

	conv := prompt.Question(job, applicant, s.history())
	raw, err := ai.Generate(ctx, s.logger, s.gen, conv, s.maxAttempts)
	if err != nil {
		return Question{}, err
	}

	q, err := parseQuestion(raw)
	if err != nil {
		return Question{}, err
	}

	q.ID = len(s.questions) + 1
	s.questions = append(s.questions, q)
	s.messages = append(s.messages, prompt.Message{Role: prompt.RoleAssistant, Content: raw})

	s.logger.Info("test question generated",
		zap.Int("question_id", q.ID),
		zap.Int("asked", len(s.questions)),
		zap.Int("max", quota.MaxTestQuestions),
	)

	return s.snapshot(q), nil
}

// Answer records the one-shot answer for a question and fetches the
// explanation. The answer is write-once: re-answering fails with
// ErrAlreadyAnswered. Answer and explanation are committed together only
// after the explanation call succeeds, so a failed fetch can be retried.
func (s *Session) Answer(ctx context.Context, job application.Job, applicant application.Applicant, questionID, answerIndex int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.questions {
		if s.questions[i].ID == questionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", fmt.Errorf("%w: id %d", ErrQuestionNotFound, questionID)
	}

	q := &s.questions[idx]
	if q.ProvidedAnswer != nil {
		return "", fmt.Errorf("%w: question %d", ErrAlreadyAnswered, questionID)
	}
	if answerIndex < 0 || answerIndex >= len(q.Answers) {
		return "", fmt.Errorf("%w: index %d, question %d has %d options", ErrInvalidAnswer, answerIndex, questionID, len(q.Answers))
	}

	conv := prompt.AnswerExplanation(job, applicant, q.Answers[answerIndex], s.history())
	explanation, err := ai.Generate(ctx, s.logger, s.gen, conv, s.maxAttempts)
	if err != nil {
		return "", err
	}

	answer := answerIndex
	q.ProvidedAnswer = &answer
	q.Explanation = explanation
	s.messages = append(s.messages, prompt.Message{Role: prompt.RoleAssistant, Content: explanation})

	s.logger.Info("test answer explained",
		zap.Int("question_id", questionID),
		zap.Bool("correct", q.Correct()),
	)

	return explanation, nil
}

// Question returns a copy of the question with the given id.
func (s *Session) Question(id int) (Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.questions {
		if s.questions[i].ID == id {
			return s.snapshot(s.questions[i]), true
		}
	}
	return Question{}, false
}

// Questions returns a copy of all questions in ask order.
func (s *Session) Questions() []Question {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Question, len(s.questions))
	for i, q := range s.questions {
		out[i] = s.snapshot(q)
	}
	return out
}

// Asked reports how many questions have been requested.
func (s *Session) Asked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.questions)
}

// Completed reports whether the question cap is reached and the last
// question has been answered.
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.questions) < quota.MaxTestQuestions {
		return false
	}
	return s.questions[len(s.questions)-1].ProvidedAnswer != nil
}

// Reset clears questions and dialogue. It is idempotent.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.questions = nil
	s.messages = nil
	s.logger.Info("test session reset")
}

// history returns a copy of the running dialogue for prompt building.
func (s *Session) history() []prompt.Message {
	out := make([]prompt.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// snapshot copies a question so callers cannot alias session state through
// the answer pointer.
func (*Session) snapshot(q Question) Question {
	if q.ProvidedAnswer != nil {
		answer := *q.ProvidedAnswer
		q.ProvidedAnswer = &answer
	}
	answers := make([]string, len(q.Answers))
	copy(answers, q.Answers)
	q.Answers = answers
	return q
}

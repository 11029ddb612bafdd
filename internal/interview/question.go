package interview

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedQuestion marks a backend response that could not be decoded
// into a multiple-choice question.
var ErrMalformedQuestion = errors.New("malformed question payload")

// Question is one multiple-choice interview question of a test session.
type Question struct {
	ID            int
	Text          string
	Answers       []string
	CorrectAnswer int

	// ProvidedAnswer is nil until the question is answered and write-once
	// afterwards.
	ProvidedAnswer *int
	Explanation    string
}

// Answered reports whether an answer has been recorded.
func (q Question) Answered() bool {
	return q.ProvidedAnswer != nil
}

// Correct reports whether the recorded answer matches the correct option.
func (q Question) Correct() bool {
	return q.ProvidedAnswer != nil && *q.ProvidedAnswer == q.CorrectAnswer
}

type questionPayload struct {
	Question      string   `json:"question"`
	Answers       []string `json:"answers"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// parseQuestion decodes the strict JSON question format requested by the
// prompt, tolerating markdown code fences around the payload.
func parseQuestion(raw string) (Question, error) {
	cleaned := extractJSON(raw)

	var payload questionPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return Question{}, fmt.Errorf("%w: %v", ErrMalformedQuestion, err)
	}

	if strings.TrimSpace(payload.Question) == "" {
		return Question{}, fmt.Errorf("%w: question text is empty", ErrMalformedQuestion)
	}
	if len(payload.Answers) < 2 {
		return Question{}, fmt.Errorf("%w: got %d answer options, need at least 2", ErrMalformedQuestion, len(payload.Answers))
	}
	if payload.CorrectAnswer < 0 || payload.CorrectAnswer >= len(payload.Answers) {
		return Question{}, fmt.Errorf("%w: correct answer index %d out of range", ErrMalformedQuestion, payload.CorrectAnswer)
	}

	return Question{
		Text:          strings.TrimSpace(payload.Question),
		Answers:       payload.Answers,
		CorrectAnswer: payload.CorrectAnswer,
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

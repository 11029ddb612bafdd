package interview

import (
	"errors"
	"testing"
)

func TestParseQuestion(t *testing.T) {
	raw := `{"question": "What does SQL stand for?", "answers": ["Structured Query Language", "Simple Query List"], "correctAnswer": 0}`

	q, err := parseQuestion(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Text != "What does SQL stand for?" {
		t.Fatalf("unexpected text: %q", q.Text)
	}
	if len(q.Answers) != 2 || q.CorrectAnswer != 0 {
		t.Fatalf("unexpected question: %+v", q)
	}
	if q.Answered() {
		t.Fatal("a fresh question must not be answered")
	}
}

func TestParseQuestionToleratesCodeFences(t *testing.T) {
	raw := "```json\n{\"question\": \"Pick one\", \"answers\": [\"a\", \"b\", \"c\"], \"correctAnswer\": 2}\n```"

	q, err := parseQuestion(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.CorrectAnswer != 2 {
		t.Fatalf("unexpected correct answer: %d", q.CorrectAnswer)
	}
}

func TestParseQuestionRejectsMalformedPayloads(t *testing.T) {
	cases := map[string]string{
		"not json":           "I cannot answer that.",
		"empty question":     `{"question": "  ", "answers": ["a", "b"], "correctAnswer": 0}`,
		"single answer":      `{"question": "Pick one", "answers": ["a"], "correctAnswer": 0}`,
		"index out of range": `{"question": "Pick one", "answers": ["a", "b"], "correctAnswer": 2}`,
		"negative index":     `{"question": "Pick one", "answers": ["a", "b"], "correctAnswer": -1}`,
	}

	for name, raw := range cases {
		if _, err := parseQuestion(raw); !errors.Is(err, ErrMalformedQuestion) {
			t.Fatalf("%s: expected ErrMalformedQuestion, got %v", name, err)
		}
	}
}

func TestQuestionCorrect(t *testing.T) {
	q := Question{Text: "Pick one", Answers: []string{"a", "b"}, CorrectAnswer: 1}

	right := 1
	q.ProvidedAnswer = &right
	if !q.Correct() {
		t.Fatal("matching answer must be correct")
	}

	wrong := 0
	q.ProvidedAnswer = &wrong
	if q.Correct() {
		t.Fatal("mismatching answer must not be correct")
	}
}

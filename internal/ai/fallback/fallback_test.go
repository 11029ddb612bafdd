package fallback

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/applyforge/applyforge/internal/prompt"
)

func TestGenerateReturnsCannedResponses(t *testing.T) {
	provider := New()

	cases := map[string]string{
		prompt.HintCoverLetter: "test cover letter",
		prompt.HintShorten:     "Shortened letter",
		prompt.HintExtend:      "Extended letter",
		prompt.HintRefine:      "Refined letter",
	}

	for hint, want := range cases {
		got, err := provider.Generate(context.Background(), prompt.Conversation{Hint: hint})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", hint, err)
		}
		if got != want {
			t.Fatalf("%s: unexpected response %q", hint, got)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	provider := New()
	conv := prompt.Conversation{Hint: prompt.HintCoverLetter}

	first, _ := provider.Generate(context.Background(), conv)
	second, _ := provider.Generate(context.Background(), conv)

	if first != second {
		t.Fatalf("responses differ for identical input: %q vs %q", first, second)
	}
}

func TestGenerateFallsBackToGenericResponse(t *testing.T) {
	provider := New()

	got, err := provider.Generate(context.Background(), prompt.Conversation{Hint: "unknown"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != genericResponse {
		t.Fatalf("unexpected response %q", got)
	}
}

func TestQuestionPayloadIsWellFormed(t *testing.T) {
	provider := New()

	raw, err := provider.Generate(context.Background(), prompt.Conversation{Hint: prompt.HintQuestion})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload struct {
		Question      string   `json:"question"`
		Answers       []string `json:"answers"`
		CorrectAnswer int      `json:"correctAnswer"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("question payload does not decode: %v", err)
	}
	if payload.Question == "" {
		t.Fatal("question text is empty")
	}
	if len(payload.Answers) != 4 {
		t.Fatalf("expected 4 answers, got %d", len(payload.Answers))
	}
	if payload.CorrectAnswer < 0 || payload.CorrectAnswer >= len(payload.Answers) {
		t.Fatalf("correct answer index %d out of range", payload.CorrectAnswer)
	}
}

func TestParsedResumePayloadIsWellFormed(t *testing.T) {
	provider := New()

	raw, err := provider.Generate(context.Background(), prompt.Conversation{Hint: prompt.HintParseResume})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload struct {
		FirstName string   `json:"firstName"`
		LastName  string   `json:"lastName"`
		Skills    []string `json:"skills"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("resume payload does not decode: %v", err)
	}
	if payload.FirstName == "" || payload.LastName == "" {
		t.Fatalf("resume payload is missing names: %+v", payload)
	}
}

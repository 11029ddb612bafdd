package resume

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/applyforge/applyforge/internal/ai"
	"github.com/applyforge/applyforge/internal/ai/fallback"
	"github.com/applyforge/applyforge/internal/prompt"
)

type stubGenerator struct {
	response string
	err      error
	convs    []prompt.Conversation
}

func (s *stubGenerator) Generate(_ context.Context, conv prompt.Conversation) (string, error) {
	s.convs = append(s.convs, conv)
	return s.response, s.err
}

const extractionPayload = `{"firstName": "Dana", "lastName": "Smith", "jobTitle": "Engineer", "summary": "Backend engineer.", "skills": ["Go"], "experience": [{"company": "Acme", "title": "Engineer", "description": "Built services."}]}`

func TestParseDecodesApplicant(t *testing.T) {
	gen := &stubGenerator{response: extractionPayload}
	parser := NewParser(gen, nil, 1)

	applicant, err := parser.Parse(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if applicant.FirstName != "Dana" || applicant.LastName != "Smith" {
		t.Fatalf("unexpected applicant: %+v", applicant)
	}
	if applicant.Resume != "Backend engineer." {
		t.Fatalf("unexpected summary: %q", applicant.Resume)
	}
	if len(applicant.Skills) != 1 || applicant.Skills[0] != "Go" {
		t.Fatalf("unexpected skills: %+v", applicant.Skills)
	}
	if len(applicant.Experience) != 1 || applicant.Experience[0].Company != "Acme" {
		t.Fatalf("unexpected experience: %+v", applicant.Experience)
	}

	if len(gen.convs) != 1 || gen.convs[0].Hint != prompt.HintParseResume {
		t.Fatalf("unexpected conversations: %+v", gen.convs)
	}
}

func TestParseToleratesCodeFences(t *testing.T) {
	gen := &stubGenerator{response: "```json\n" + extractionPayload + "\n```"}
	parser := NewParser(gen, nil, 1)

	applicant, err := parser.Parse(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applicant.FirstName != "Dana" {
		t.Fatalf("unexpected applicant: %+v", applicant)
	}
}

func TestParseRejectsEmptyResume(t *testing.T) {
	gen := &stubGenerator{response: extractionPayload}
	parser := NewParser(gen, nil, 1)

	if _, err := parser.Parse(context.Background(), "   "); err == nil {
		t.Fatal("expected an error")
	}
	if len(gen.convs) != 0 {
		t.Fatal("empty input must not reach the backend")
	}
}

func TestParseWrapsBackendFailures(t *testing.T) {
	gen := &stubGenerator{err: ai.ErrEmptyResponse}
	parser := NewParser(gen, nil, 1)

	_, err := parser.Parse(context.Background(), "resume text")
	if !errors.Is(err, ai.ErrEmptyResponse) {
		t.Fatalf("expected the backend failure to stay matchable, got %v", err)
	}
	if !strings.Contains(err.Error(), "resume extraction request failed") {
		t.Fatalf("expected a wrapped error, got %v", err)
	}
}

func TestParseRejectsMalformedPayloads(t *testing.T) {
	gen := &stubGenerator{response: "I cannot help with that."}
	parser := NewParser(gen, nil, 1)

	_, err := parser.Parse(context.Background(), "resume text")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "failed to parse resume extraction response") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseOffline(t *testing.T) {
	parser := NewParser(fallback.New(), nil, 1)

	applicant, err := parser.Parse(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applicant.FirstName == "" {
		t.Fatalf("offline extraction produced no applicant: %+v", applicant)
	}
}

package prompt

import (
	"strings"
	"testing"

	"github.com/applyforge/applyforge/internal/application"
)

var testJob = application.Job{
	Title:        "Backend Engineer",
	Company:      "Acme Corp",
	Description:  "Build backend services.",
	Requirements: "Go, SQL, 3+ years of experience.",
}

var testApplicant = application.Applicant{
	FirstName: "Dana",
	LastName:  "Smith",
	JobTitle:  "Software Engineer",
	Resume:    "Engineer with a services background.",
	Skills:    []string{"Go", "PostgreSQL"},
	Experience: []application.ExperienceEntry{
		{Company: "Initech", Title: "Engineer", Description: "Owned the billing service."},
	},
}

func TestCoverLetterConversationShape(t *testing.T) {
	conv := CoverLetter(testJob, testApplicant)

	if conv.Hint != HintCoverLetter {
		t.Fatalf("unexpected hint: %q", conv.Hint)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(conv.Messages))
	}
	if conv.Messages[0].Role != RoleSystem {
		t.Fatalf("expected a system message first, got %q", conv.Messages[0].Role)
	}
	if conv.Messages[1].Role != RoleUser {
		t.Fatalf("expected a user message last, got %q", conv.Messages[1].Role)
	}

	system := conv.Messages[0].Content
	for _, want := range []string{
		"Backend Engineer",
		"Acme Corp",
		"Go, SQL, 3+ years of experience.",
		"Dana",
		"Smith",
		"Engineer with a services background.",
		"PostgreSQL",
		"Engineer at Initech",
	} {
		if !strings.Contains(system, want) {
			t.Fatalf("system message is missing %q:\n%s", want, system)
		}
	}

	if strings.Contains(system, detailsToken) {
		t.Fatalf("details token was not replaced:\n%s", system)
	}
}

func TestCoverLetterIsDeterministic(t *testing.T) {
	first := CoverLetter(testJob, testApplicant)
	second := CoverLetter(testJob, testApplicant)

	if len(first.Messages) != len(second.Messages) {
		t.Fatalf("message count differs: %d vs %d", len(first.Messages), len(second.Messages))
	}
	for i := range first.Messages {
		if first.Messages[i] != second.Messages[i] {
			t.Fatalf("message %d differs between identical calls", i)
		}
	}
}

func TestRefineCoverLetterAppendsCurrentAndInstruction(t *testing.T) {
	current := "Dear hiring manager, I am writing to apply."

	cases := []struct {
		op       RefineOp
		hint     string
		fragment string
	}{
		{Shorten{}, HintShorten, "shorten the cover letter"},
		{Extend{}, HintExtend, "extend the cover letter"},
		{FreeInput{Instruction: "Mention my open source work"}, HintRefine, "Mention my open source work"},
	}

	for _, tc := range cases {
		conv := RefineCoverLetter(testJob, testApplicant, current, tc.op)

		if conv.Hint != tc.hint {
			t.Fatalf("%T: unexpected hint %q", tc.op, conv.Hint)
		}
		if len(conv.Messages) != 4 {
			t.Fatalf("%T: expected 4 messages, got %d", tc.op, len(conv.Messages))
		}

		assistant := conv.Messages[2]
		if assistant.Role != RoleAssistant || assistant.Content != current {
			t.Fatalf("%T: current letter was not replayed as an assistant turn: %+v", tc.op, assistant)
		}

		final := conv.Messages[3]
		if final.Role != RoleUser {
			t.Fatalf("%T: expected a user message last, got %q", tc.op, final.Role)
		}
		if !strings.Contains(final.Content, tc.fragment) {
			t.Fatalf("%T: instruction is missing %q:\n%s", tc.op, tc.fragment, final.Content)
		}
	}
}

func TestQuestionReplaysHistory(t *testing.T) {
	history := []Message{
		{Role: RoleAssistant, Content: `{"question": "q1"}`},
		{Role: RoleAssistant, Content: "explanation 1"},
	}

	conv := Question(testJob, testApplicant, history)

	if conv.Hint != HintQuestion {
		t.Fatalf("unexpected hint: %q", conv.Hint)
	}
	if len(conv.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(conv.Messages))
	}
	if conv.Messages[1] != history[0] || conv.Messages[2] != history[1] {
		t.Fatalf("history was not replayed in order: %+v", conv.Messages)
	}
	if conv.Messages[3].Role != RoleUser {
		t.Fatalf("expected a user message last, got %q", conv.Messages[3].Role)
	}
}

func TestAnswerExplanationQuotesTheAnswer(t *testing.T) {
	conv := AnswerExplanation(testJob, testApplicant, "404", nil)

	if conv.Hint != HintExplanation {
		t.Fatalf("unexpected hint: %q", conv.Hint)
	}

	final := conv.Messages[len(conv.Messages)-1]
	if final.Role != RoleUser {
		t.Fatalf("expected a user message last, got %q", final.Role)
	}
	if !strings.Contains(final.Content, `"404"`) {
		t.Fatalf("answer was not quoted:\n%s", final.Content)
	}
}

func TestParseResumeCarriesTheText(t *testing.T) {
	conv := ParseResume("resume body")

	if conv.Hint != HintParseResume {
		t.Fatalf("unexpected hint: %q", conv.Hint)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(conv.Messages))
	}
	if conv.Messages[1].Role != RoleUser || conv.Messages[1].Content != "resume body" {
		t.Fatalf("resume text was not the user turn: %+v", conv.Messages[1])
	}
	if !strings.Contains(conv.Messages[0].Content, "firstName") {
		t.Fatalf("extraction format is missing from the system message:\n%s", conv.Messages[0].Content)
	}
}

func TestApplicationDetailsOmitsEmptyFields(t *testing.T) {
	details := applicationDetails(application.Job{Title: "DBA"}, application.Applicant{FirstName: "Kim"})

	for _, unwanted := range []string{"Company name", "Job description", "Applicant last name", "Applicant skills"} {
		if strings.Contains(details, unwanted) {
			t.Fatalf("empty field %q was rendered:\n%s", unwanted, details)
		}
	}
	if !strings.Contains(details, "Job title: DBA") {
		t.Fatalf("job title is missing:\n%s", details)
	}
	if !strings.Contains(details, "Applicant first name: Kim") {
		t.Fatalf("first name is missing:\n%s", details)
	}
}

// Package prompt assembles the conversations sent to the generation backend.
// Builders are pure functions: identical inputs always produce identical
// conversations, which is what makes offline test runs reproducible.
package prompt

import (
	"fmt"
	"strings"

	_ "embed"

	"github.com/applyforge/applyforge/internal/application"
)

//go:embed cover_letter_prompt.md
var coverLetterTemplate string

//go:embed question_prompt.md
var questionTemplate string

const detailsToken = "{{APPLICATION_DETAILS}}"

// CoverLetter builds the conversation requesting the initial cover letter.
func CoverLetter(job application.Job, applicant application.Applicant) Conversation {
	return Conversation{
		Hint: HintCoverLetter,
		Messages: []Message{
			coverLetterSystemMessage(job, applicant),
			{Role: RoleUser, Content: "Create the initial cover letter based on the job details and applicant details provided."},
		},
	}
}

// RefineCoverLetter builds the conversation for one refinement pass: the
// initial exchange, the current letter replayed as an assistant turn, and a
// single user turn encoding the refinement intent.
func RefineCoverLetter(job application.Job, applicant application.Applicant, current string, op RefineOp) Conversation {
	base := CoverLetter(job, applicant)

	return Conversation{
		Hint: op.hint(),
		Messages: append(base.Messages,
			Message{Role: RoleAssistant, Content: current},
			Message{Role: RoleUser, Content: op.instruction()},
		),
	}
}

// Question builds the conversation requesting the next multiple-choice
// interview question. The running session dialogue is replayed so the backend
// does not repeat itself.
func Question(job application.Job, applicant application.Applicant, history []Message) Conversation {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, questionSystemMessage(job, applicant))
	messages = append(messages, history...)
	messages = append(messages, Message{
		Role:    RoleUser,
		Content: "Ask the next multiple choice question.",
	})

	return Conversation{Hint: HintQuestion, Messages: messages}
}

// AnswerExplanation builds the conversation asking whether the provided
// answer to the last question is correct and why.
func AnswerExplanation(job application.Job, applicant application.Applicant, answer string, history []Message) Conversation {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, questionSystemMessage(job, applicant))
	messages = append(messages, history...)
	messages = append(messages, Message{
		Role: RoleUser,
		Content: fmt.Sprintf("My answer to the last question is: %q.\nTell me if this answer is correct and explain why the correct answer is the right one.\nRespond with plain text only.", answer),
	})

	return Conversation{Hint: HintExplanation, Messages: messages}
}

// ParseResume builds the conversation asking the backend to extract
// structured applicant fields from raw resume text.
func ParseResume(resumeText string) Conversation {
	return Conversation{
		Hint: HintParseResume,
		Messages: []Message{
			{
				Role: RoleSystem,
				Content: `I want you to extract the applicant details from the resume text provided.
Details needed are first name and last name, job title, resume summary, skills and professional experience (company name, job title, job description).
Result should be a single JSON object in the format {"firstName": string, "lastName": string, "jobTitle": string, "summary": string, "skills": [string], "experience": [{"company": string, "title": string, "description": string}]}.
No text outside the JSON object is allowed in the response.`,
			},
			{Role: RoleUser, Content: resumeText},
		},
	}
}

func coverLetterSystemMessage(job application.Job, applicant application.Applicant) Message {
	content := strings.ReplaceAll(coverLetterTemplate, detailsToken, applicationDetails(job, applicant))
	return Message{Role: RoleSystem, Content: strings.TrimSpace(content)}
}

func questionSystemMessage(job application.Job, applicant application.Applicant) Message {
	content := strings.ReplaceAll(questionTemplate, detailsToken, applicationDetails(job, applicant))
	return Message{Role: RoleSystem, Content: strings.TrimSpace(content)}
}

// applicationDetails renders job and applicant facts verbatim, omitting
// absent fields entirely so the backend is never tempted to invent them.
func applicationDetails(job application.Job, applicant application.Applicant) string {
	var lines []string

	add := func(label, value string) {
		if v := strings.TrimSpace(value); v != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", label, v))
		}
	}

	add("Job title", job.Title)
	add("Company name", job.Company)
	add("Job description", job.Description)
	add("Job requirements", job.Requirements)
	add("Applicant first name", applicant.FirstName)
	add("Applicant last name", applicant.LastName)
	add("Applicant job title", applicant.JobTitle)
	add("Applicant resume summary", applicant.Resume)

	if skills := applicant.SkillsText(); skills != "" {
		lines = append(lines, "Applicant skills:\n"+skills)
	}

	for _, exp := range applicant.Experience {
		entry := fmt.Sprintf("Applicant experience: %s at %s. %s",
			strings.TrimSpace(exp.Title), strings.TrimSpace(exp.Company), strings.TrimSpace(exp.Description))
		lines = append(lines, strings.TrimSpace(entry))
	}

	return strings.Join(lines, "\n")
}

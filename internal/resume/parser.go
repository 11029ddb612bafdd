// Package resume turns raw resume text into structured applicant fields by
// way of the generation backend. The engine consumes this as a collaborator
// boundary; a malformed upstream payload is surfaced as a parse error.
package resume

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/applyforge/applyforge/internal/ai"
	"github.com/applyforge/applyforge/internal/application"
	"github.com/applyforge/applyforge/internal/prompt"
)

// Parser extracts applicant details from resume text.
type Parser struct {
	gen         ai.Generator
	logger      *zap.Logger
	maxAttempts int
}

// NewParser creates a Parser on top of the given generation backend.
func NewParser(gen ai.Generator, logger *zap.Logger, maxAttempts int) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{gen: gen, logger: logger, maxAttempts: maxAttempts}
}

type parsedResume struct {
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	JobTitle   string   `json:"jobTitle"`
	Summary    string   `json:"summary"`
	Skills     []string `json:"skills"`
	Experience []struct {
		Company     string `json:"company"`
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"experience"`
}

// Parse sends the resume text to the backend and decodes the structured
// result into an applicant profile.
func (p *Parser) Parse(ctx context.Context, resumeText string) (applicant application.Applicant, err error) {
	if strings.TrimSpace(resumeText) == "" {
		err = errors.New("resume text must not be empty")
		return applicant, err
	}

	conv := prompt.ParseResume(resumeText)

	var responseText string
	responseText, err = ai.Generate(ctx, p.logger, p.gen, conv, p.maxAttempts)
	if err != nil {
		err = errors.Wrap(err, "resume extraction request failed")
		return applicant, err
	}

	cleaned := stripMarkdownCodeFences(responseText)

	var payload parsedResume
	err = json.Unmarshal([]byte(cleaned), &payload)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse resume extraction response: %s", responseText)
		return applicant, err
	}

	applicant = application.Applicant{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		JobTitle:  payload.JobTitle,
		Resume:    payload.Summary,
		Skills:    payload.Skills,
	}
	for _, exp := range payload.Experience {
		applicant.Experience = append(applicant.Experience, application.ExperienceEntry{
			Company:     exp.Company,
			Title:       exp.Title,
			Description: exp.Description,
		})
	}

	return applicant, err
}

// stripMarkdownCodeFences removes a surrounding markdown code block when the
// backend wraps the JSON despite instructions.
func stripMarkdownCodeFences(text string) (cleaned string) {
	cleaned = strings.TrimSpace(text)

	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx != -1 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	return cleaned
}

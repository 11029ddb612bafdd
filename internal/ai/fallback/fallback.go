// Package fallback provides the deterministic offline substitute for the
// generation backend. It satisfies the same Generator seam, performs no I/O
// and never fails, which makes it the implementation of choice for test runs
// and for operating without external dependencies.
package fallback

import (
	"context"

	"github.com/applyforge/applyforge/internal/prompt"
)

const genericResponse = "test response"

// questionPayload is a well-formed interview question so the test session
// flow works end to end in offline mode.
const questionPayload = `{"question": "Which HTTP status code indicates that a resource was not found?", "answers": ["200", "301", "404", "500"], "correctAnswer": 2}`

const explanationPayload = "The correct answer is 404. The 404 status code tells the client that the requested resource does not exist on the server, while 200 signals success, 301 a permanent redirect and 500 an internal server error."

// parsedResumePayload matches the extraction format so resume parsing works
// end to end in offline mode.
const parsedResumePayload = `{"firstName": "Test", "lastName": "Applicant", "jobTitle": "Software Engineer", "summary": "Experienced software engineer.", "skills": ["Go", "SQL"], "experience": [{"company": "Acme", "title": "Engineer", "description": "Built services."}]}`

var responses = map[string]string{
	prompt.HintCoverLetter: "test cover letter",
	prompt.HintShorten:     "Shortened letter",
	prompt.HintExtend:      "Extended letter",
	prompt.HintRefine:      "Refined letter",
	prompt.HintQuestion:    questionPayload,
	prompt.HintExplanation: explanationPayload,
	prompt.HintParseResume: parsedResumePayload,
}

// Provider returns canned text keyed by the conversation hint.
type Provider struct{}

// New creates the offline provider.
func New() *Provider {
	return &Provider{}
}

// Generate returns the fixed response for the conversation hint. The output
// is a pure function of the hint, so repeated calls with identical input
// always yield identical text.
func (*Provider) Generate(_ context.Context, conv prompt.Conversation) (string, error) {
	if text, ok := responses[conv.Hint]; ok {
		return text, nil
	}
	return genericResponse, nil
}

package application

import "strings"

// Job describes the position the applicant is targeting. It is supplied by
// the caller for every request and never mutated by the engine.
type Job struct {
	Title        string `mapstructure:"title" json:"title"`
	Company      string `mapstructure:"company" json:"company,omitempty"`
	Description  string `mapstructure:"description" json:"description"`
	Requirements string `mapstructure:"requirements" json:"requirements"`
}

// ExperienceEntry is one professional experience item of an applicant.
type ExperienceEntry struct {
	Company     string `mapstructure:"company" json:"company"`
	Title       string `mapstructure:"title" json:"title"`
	Description string `mapstructure:"description" json:"description"`
}

// Applicant holds the profile the generated artifacts are based on. An empty
// ID means the applicant has not been persisted yet.
type Applicant struct {
	ID         string            `mapstructure:"id" json:"id,omitempty"`
	FirstName  string            `mapstructure:"first-name" json:"firstName"`
	LastName   string            `mapstructure:"last-name" json:"lastName"`
	JobTitle   string            `mapstructure:"job-title" json:"jobTitle"`
	Resume     string            `mapstructure:"resume" json:"resume"`
	Skills     []string          `mapstructure:"skills" json:"skills"`
	Experience []ExperienceEntry `mapstructure:"experience" json:"experience"`
	IsMain     bool              `mapstructure:"main" json:"isMain"`
}

// FullName returns the applicant name suitable for prompts, empty when the
// profile carries no name at all.
func (a Applicant) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
}

// SkillsText renders the ordered skills list as newline-joined text, the
// serialization the prompt layer embeds verbatim.
func (a Applicant) SkillsText() string {
	trimmed := make([]string, 0, len(a.Skills))
	for _, skill := range a.Skills {
		if s := strings.TrimSpace(skill); s != "" {
			trimmed = append(trimmed, s)
		}
	}
	return strings.Join(trimmed, "\n")
}

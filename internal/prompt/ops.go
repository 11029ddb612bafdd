package prompt

import (
	"fmt"
	"unicode/utf8"
)

// Free-text refinement instructions must stay within these bounds.
const (
	MinInstructionLength = 5
	MaxInstructionLength = 100
)

// InitialLabel marks the first generated cover letter version.
const InitialLabel = "initial"

// RefineOp is a sealed union of the supported cover letter refinements.
// Keeping the set closed lets the builder switch exhaustively instead of
// inspecting strings.
type RefineOp interface {
	// Label is the human-facing version label recorded in history.
	Label() string

	hint() string
	instruction() string
}

// Shorten asks the generator to compress the current letter.
type Shorten struct{}

func (Shorten) Label() string { return "Shorten" }
func (Shorten) hint() string  { return HintShorten }
func (Shorten) instruction() string {
	return "I want you to shorten the cover letter.\nThe cover letter should not be shorter than 200 words."
}

// Extend asks the generator to expand the current letter.
type Extend struct{}

func (Extend) Label() string { return "Extend" }
func (Extend) hint() string  { return HintExtend }
func (Extend) instruction() string {
	return "I want you to extend the cover letter.\nThe cover letter should not be longer than 500 words."
}

// FreeInput carries a caller-provided refinement instruction.
type FreeInput struct {
	Instruction string
}

func (FreeInput) Label() string { return "Refine" }
func (FreeInput) hint() string  { return HintRefine }
func (f FreeInput) instruction() string {
	return fmt.Sprintf("I want you to refine the cover letter based on the following instructions:\n%s", f.Instruction)
}

// Validate checks the instruction length bounds. It counts runes, not bytes,
// so multibyte instructions are not rejected early.
func (f FreeInput) Validate() error {
	length := utf8.RuneCountInString(f.Instruction)
	if length < MinInstructionLength || length > MaxInstructionLength {
		return fmt.Errorf("refinement instruction must be between %d and %d characters, got %d",
			MinInstructionLength, MaxInstructionLength, length)
	}
	return nil
}

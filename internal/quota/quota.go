// Package quota evaluates usage-tier limits before any generation call is
// attempted. Violations surface as ErrQuotaExceeded, never as silent no-ops.
package quota

import (
	"errors"
	"fmt"
	"strings"
)

// Usage caps. The absolute applicant cap applies to every tier; the lower
// cap applies to accounts without pro access.
const (
	MaxApplicants           = 5
	MaxApplicantsWithoutPro = 1
	MaxTestQuestions        = 5
)

// ErrQuotaExceeded marks a request denied by a usage cap.
var ErrQuotaExceeded = errors.New("quota exceeded")

// Tier is the caller's entitlement level.
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// ParseTier converts a configuration string into a Tier. An empty value
// defaults to the free tier.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(TierFree):
		return TierFree, nil
	case string(TierPro):
		return TierPro, nil
	default:
		return "", fmt.Errorf("unknown account tier %q", s)
	}
}

// Gate answers whether quota-bound mutations are permitted.
type Gate struct{}

// NewGate creates a Gate with the built-in caps.
func NewGate() *Gate {
	return &Gate{}
}

// CanCreateApplicant reports whether one more applicant may be created given
// the existing count and tier.
func (*Gate) CanCreateApplicant(existing int, tier Tier) error {
	if existing >= MaxApplicants {
		return fmt.Errorf("%w: at most %d applicants are allowed", ErrQuotaExceeded, MaxApplicants)
	}
	if tier != TierPro && existing >= MaxApplicantsWithoutPro {
		return fmt.Errorf("%w: at most %d applicants are allowed without pro access", ErrQuotaExceeded, MaxApplicantsWithoutPro)
	}
	return nil
}

// CanAskTestQuestion reports whether another test question may be requested.
func (*Gate) CanAskTestQuestion(asked int) error {
	if asked >= MaxTestQuestions {
		return fmt.Errorf("%w: the test is limited to %d questions", ErrQuotaExceeded, MaxTestQuestions)
	}
	return nil
}

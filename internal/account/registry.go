// Package account manages the applicants of one caller account. It enforces
// the tier quota on creation and keeps exactly one applicant flagged as main
// whenever any exist.
package account

import (
	"errors"
	"fmt"
	"sync"

	"github.com/applyforge/applyforge/internal/application"
	"github.com/applyforge/applyforge/internal/quota"
)

// ErrApplicantNotFound marks a reference to an applicant id absent from the
// account.
var ErrApplicantNotFound = errors.New("applicant not found")

// Registry is the per-account applicant collection. Persistence is a
// collaborator concern; the registry holds the session-scoped view.
type Registry struct {
	mu         sync.Mutex
	gate       *quota.Gate
	tier       quota.Tier
	applicants []application.Applicant
	nextID     int
}

// NewRegistry creates an empty registry for an account with the given tier.
func NewRegistry(gate *quota.Gate, tier quota.Tier) *Registry {
	return &Registry{gate: gate, tier: tier}
}

// CreateOrUpdate stores the applicant. An empty id creates a new applicant,
// which is quota-gated by the account tier; a non-empty id updates the
// existing one. The first applicant always becomes main.
func (r *Registry) CreateOrUpdate(app application.Applicant, setAsMain bool) (application.Applicant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if app.ID == "" {
		if err := r.gate.CanCreateApplicant(len(r.applicants), r.tier); err != nil {
			return application.Applicant{}, err
		}

		r.nextID++
		app.ID = fmt.Sprintf("applicant-%d", r.nextID)

		if len(r.applicants) == 0 {
			setAsMain = true
		}
		if setAsMain {
			r.clearMain()
		}
		app.IsMain = setAsMain
		r.applicants = append(r.applicants, app)
		r.ensureMain()
		return app, nil
	}

	idx := r.index(app.ID)
	if idx < 0 {
		return application.Applicant{}, fmt.Errorf("%w: id %s", ErrApplicantNotFound, app.ID)
	}

	if setAsMain {
		r.clearMain()
	}
	app.IsMain = setAsMain
	r.applicants[idx] = app
	r.ensureMain()
	return r.applicants[idx], nil
}

// SetMain makes the applicant with the given id the main one.
func (r *Registry) SetMain(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: id %s", ErrApplicantNotFound, id)
	}

	r.clearMain()
	r.applicants[idx].IsMain = true
	return nil
}

// Remove deletes the applicant. When the main applicant is removed the
// oldest remaining one is promoted.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: id %s", ErrApplicantNotFound, id)
	}

	r.applicants = append(r.applicants[:idx], r.applicants[idx+1:]...)
	r.ensureMain()
	return nil
}

// Main returns the main applicant, if any exist.
func (r *Registry) Main() (application.Applicant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, app := range r.applicants {
		if app.IsMain {
			return app, true
		}
	}
	return application.Applicant{}, false
}

// List returns the applicants in creation order.
func (r *Registry) List() []application.Applicant {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]application.Applicant, len(r.applicants))
	copy(out, r.applicants)
	return out
}

// Len reports the number of stored applicants.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.applicants)
}

func (r *Registry) index(id string) int {
	for i := range r.applicants {
		if r.applicants[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) clearMain() {
	for i := range r.applicants {
		r.applicants[i].IsMain = false
	}
}

// ensureMain restores the exactly-one-main invariant after a mutation.
func (r *Registry) ensureMain() {
	if len(r.applicants) == 0 {
		return
	}
	for i := range r.applicants {
		if r.applicants[i].IsMain {
			return
		}
	}
	r.applicants[0].IsMain = true
}

package letter

import (
	"errors"
	"fmt"
)

// ErrVersionNotFound marks a reference to a version id absent from the
// session history.
var ErrVersionNotFound = errors.New("cover letter version not found")

// Version is one generated cover letter artifact.
type Version struct {
	ID    int
	Label string
	Text  string
}

// Store is the append-only version history of one cover letter session.
// Version ids are strictly increasing integers starting at 1 with no gaps and
// are never reused within a session; Reset begins a fresh session whose
// numbering starts at 1 again. The store is not safe for concurrent use on
// its own, the owning session serializes access.
type Store struct {
	versions []Version
	current  int
}

// NewStore creates an empty version history.
func NewStore() *Store {
	return &Store{current: -1}
}

// Append records a new version and makes it current.
func (s *Store) Append(text, label string) Version {
	v := Version{
		ID:    len(s.versions) + 1,
		Label: label,
		Text:  text,
	}
	s.versions = append(s.versions, v)
	s.current = len(s.versions) - 1
	return v
}

// Current returns the version used as the basis for the next refinement:
// the most recently appended one unless the caller selected another.
func (s *Store) Current() (Version, bool) {
	if s.current < 0 || s.current >= len(s.versions) {
		return Version{}, false
	}
	return s.versions[s.current], true
}

// Select makes a historical version current. History is neither deleted nor
// reordered.
func (s *Store) Select(id int) (Version, error) {
	for i, v := range s.versions {
		if v.ID == id {
			s.current = i
			return v, nil
		}
	}
	return Version{}, fmt.Errorf("%w: id %d", ErrVersionNotFound, id)
}

// Versions returns a copy of the full history in creation order.
func (s *Store) Versions() []Version {
	out := make([]Version, len(s.versions))
	copy(out, s.versions)
	return out
}

// Len reports the number of stored versions.
func (s *Store) Len() int {
	return len(s.versions)
}

// Reset clears all versions and starts a new numbering sequence.
func (s *Store) Reset() {
	s.versions = nil
	s.current = -1
}

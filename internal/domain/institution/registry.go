// Package institution resolves user-declared universities against the
// registry, groups users into institutions and combines member scores
// into institution scores.
package institution

import (
	"strings"

	"github.com/okian/vantage/internal/domain/model"
)

// SelfTaught is the reserved affiliation that never forms an
// institution.
const SelfTaught = "Self Taught"

// Registry resolves free-form university names to registry entries.
// Matching is case-insensitive and whitespace-trimmed; names absent
// from the registry do not resolve.
type Registry struct {
	byName map[string]model.University
}

// NewRegistry indexes the registry entries. Later duplicates of the
// same normalized name are ignored.
func NewRegistry(entries []model.University) *Registry {
	r := &Registry{byName: make(map[string]model.University, len(entries))}
	for _, e := range entries {
		key := normalize(e.Name)
		if key == "" {
			continue
		}
		if _, ok := r.byName[key]; !ok {
			r.byName[key] = e
		}
	}
	return r
}

// Resolve returns the registry entry for a declared name. Empty names,
// the self-taught marker and unknown universities do not resolve.
func (r *Registry) Resolve(declared string) (model.University, bool) {
	key := normalize(declared)
	if key == "" || key == normalize(SelfTaught) {
		return model.University{}, false
	}
	u, ok := r.byName[key]
	return u, ok
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

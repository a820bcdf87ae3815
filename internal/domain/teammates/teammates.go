// Package teammates ranks other participants by how much of their skill set
// overlaps with the user's.
package teammates

import (
	"sort"

	"github.com/okian/skillhive/internal/domain/model"
	"github.com/okian/skillhive/internal/domain/skills"
)

// Option applies a configuration option to the TeammateMatcher.
type Option func(*TeammateMatcher)

// WithLimit caps the shortlist. Zero or negative means unlimited.
func WithLimit(n int) Option {
	return func(m *TeammateMatcher) {
		if n > 0 {
			m.limit = n
		}
	}
}

// Matcher produces a teammate shortlist for a profile.
type Matcher interface {
	Match(profile model.Profile, candidates []model.Profile) []model.MatchResult[model.Profile]
}

// TeammateMatcher scores candidates by |common| / min(|candidate|, |user|).
type TeammateMatcher struct {
	limit int
}

// New creates a TeammateMatcher.
func New(opts ...Option) *TeammateMatcher {
	m := &TeammateMatcher{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match returns candidates sharing at least one skill with profile, sorted by
// match percentage descending. Equal percentages keep input order. The
// profile itself is skipped if it appears among candidates.
func (m *TeammateMatcher) Match(profile model.Profile, candidates []model.Profile) []model.MatchResult[model.Profile] {
	userSkills := skills.NewSet(profile.Skills)
	out := make([]model.MatchResult[model.Profile], 0)
	if userSkills.Len() == 0 {
		return out
	}

	for _, c := range candidates {
		if c.ID == profile.ID {
			continue
		}
		common := skills.Intersect(c.Skills, userSkills)
		if len(common) == 0 {
			continue
		}
		den := min(len(skills.Unique(c.Skills)), userSkills.Len())
		out = append(out, model.MatchResult[model.Profile]{
			Candidate:       c,
			MatchPercentage: skills.Percentage(len(common), den),
			MatchingSkills:  common,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchPercentage > out[j].MatchPercentage
	})
	if m.limit > 0 && len(out) > m.limit {
		out = out[:m.limit]
	}
	return out
}

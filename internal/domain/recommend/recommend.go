// Package recommend scores open hackathons against a user's skills and
// returns a short personalized list.
package recommend

import (
	"sort"

	"github.com/okian/skillhive/internal/domain/model"
	"github.com/okian/skillhive/internal/domain/skills"
)

// Enrolled answers whether the user already joined a hackathon.
type Enrolled interface {
	IsEnrolled(hackathonID string) bool
}

// Recommender produces hackathon recommendations for a profile.
type Recommender interface {
	// Recommend is pure: it reads its inputs and never mutates them.
	Recommend(profile model.Profile, hackathons []model.Hackathon, enrolled Enrolled) []model.MatchResult[model.Hackathon]
}

// HackathonRecommender filters out enrolled, closed and non-overlapping
// hackathons and keeps at most limit of the rest.
type HackathonRecommender struct {
	limit          int
	rankByStrength bool
}

// New creates a HackathonRecommender.
func New(opts ...Option) *HackathonRecommender {
	r := &HackathonRecommender{limit: DefaultLimit}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Limit returns the configured maximum list size.
func (r *HackathonRecommender) Limit() int { return r.limit }

// Recommend returns at most Limit() results. hackathons is expected in the
// upstream fetch order (start date ascending); that order is kept unless rank
// by match strength is enabled. A nil enrolled set counts as empty.
func (r *HackathonRecommender) Recommend(profile model.Profile, hackathons []model.Hackathon, enrolled Enrolled) []model.MatchResult[model.Hackathon] {
	userSkills := skills.NewSet(profile.Skills)
	out := make([]model.MatchResult[model.Hackathon], 0, min(r.limit, len(hackathons)))
	if userSkills.Len() == 0 {
		return out
	}

	for _, h := range hackathons {
		if enrolled != nil && enrolled.IsEnrolled(h.ID) {
			continue
		}
		if !h.Status.Open() {
			continue
		}
		matching := skills.Intersect(h.SkillsRequired, userSkills)
		if len(matching) == 0 {
			continue
		}
		out = append(out, model.MatchResult[model.Hackathon]{
			Candidate:       h,
			MatchPercentage: skills.Percentage(len(matching), len(skills.Unique(h.SkillsRequired))),
			MatchingSkills:  matching,
		})
		if !r.rankByStrength && len(out) == r.limit {
			return out
		}
	}

	if r.rankByStrength {
		sort.SliceStable(out, func(i, j int) bool {
			return len(out[i].MatchingSkills) > len(out[j].MatchingSkills)
		})
		if len(out) > r.limit {
			out = out[:r.limit]
		}
	}
	return out
}

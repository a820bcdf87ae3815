// Package catalog holds the read-side views around matching: listing filters,
// enrollment annotation and progress of enrolled hackathons.
package catalog

import (
	"strings"

	"github.com/okian/skillhive/internal/domain/model"
)

// HackathonFilter narrows a hackathon listing. Zero fields match everything.
type HackathonFilter struct {
	// Query is matched case-insensitively against title and description.
	Query  string
	Status model.Status
	Mode   model.Mode
	// Skill must appear verbatim in the required skills.
	Skill string
}

// Active reports whether any criterion is set.
func (f HackathonFilter) Active() bool {
	return f.Query != "" || f.Status != "" || f.Mode != "" || f.Skill != ""
}

// Matches reports whether h passes every set criterion.
func (f HackathonFilter) Matches(h model.Hackathon) bool {
	if q := strings.ToLower(f.Query); q != "" &&
		!strings.Contains(strings.ToLower(h.Title), q) &&
		!strings.Contains(strings.ToLower(h.Description), q) {
		return false
	}
	if f.Status != "" && h.Status != f.Status {
		return false
	}
	if f.Mode != "" && h.Mode != f.Mode {
		return false
	}
	if f.Skill != "" && !contains(h.SkillsRequired, f.Skill) {
		return false
	}
	return true
}

// FilterHackathons returns the hackathons matching f in their original order.
func FilterHackathons(hackathons []model.Hackathon, f HackathonFilter) []model.Hackathon {
	out := make([]model.Hackathon, 0, len(hackathons))
	for _, h := range hackathons {
		if f.Matches(h) {
			out = append(out, h)
		}
	}
	return out
}

// TeammateFilter narrows a teammate shortlist.
type TeammateFilter struct {
	// Query is matched case-insensitively against the name and each skill.
	Query     string
	Education model.Education
}

// Matches reports whether p passes every set criterion.
func (f TeammateFilter) Matches(p model.Profile) bool {
	if q := strings.ToLower(f.Query); q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
		found := false
		for _, s := range p.Skills {
			if strings.Contains(strings.ToLower(s), q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Education != "" && p.Education != f.Education {
		return false
	}
	return true
}

// FilterTeammates keeps the results whose candidate matches f. Ranking order is preserved.
func FilterTeammates(results []model.MatchResult[model.Profile], f TeammateFilter) []model.MatchResult[model.Profile] {
	out := make([]model.MatchResult[model.Profile], 0, len(results))
	for _, r := range results {
		if f.Matches(r.Candidate) {
			out = append(out, r)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Package seed generates fixture profiles and hackathons, loads them into a
// store, and smoke-tests a running service against them.
package seed

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/skillhive/internal/domain/model"
)

// DefaultSkills is the skill pool used when none is configured.
var DefaultSkills = []string{ //nolint:gochecknoglobals // fixture pool
	"Go", "Python", "React", "TypeScript", "Rust", "SQL", "Docker", "Kubernetes",
	"Machine Learning", "Figma", "Solidity", "Swift", "Kotlin", "GraphQL",
}

// Fixture pools.
//
//nolint:gochecknoglobals // fixture pools
var (
	firstNames = []string{"Ada", "Alan", "Grace", "Linus", "Margaret", "Dennis", "Barbara", "Ken", "Radia", "Edsger"}
	titleHeads = []string{"Open", "Green", "Civic", "Quantum", "Edge", "Health", "Fin", "Climate", "Data", "Game"}
	titleTails = []string{"Hack", "Jam", "Sprint", "Challenge", "Build", "Summit"}
	organizers = []string{"ACM", "IEEE", "MLH", "Devpost", "GDG"}
	locations  = []string{"Berlin", "Lagos", "Bangalore", "Toronto", "Remote"}
	modes      = []model.Mode{model.ModeOnline, model.ModeOffline, model.ModeHybrid}
)

// Generation bounds. Day offsets are relative to now.
const (
	earliestStartDays = -30
	latestStartDays   = 60
	maxDurationDays   = 5
	maxProfileSkills  = 5
	maxRequired       = 4
)

// Generator produces random fixtures.
type Generator struct {
	now    func() time.Time
	skills []string
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock fixes the reference time used to derive hackathon status.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithSkillPool replaces the skill pool.
func WithSkillPool(skills []string) Option {
	return func(g *Generator) {
		if len(skills) > 0 {
			g.skills = skills
		}
	}
}

// NewGenerator creates a generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{now: time.Now, skills: DefaultSkills}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// randomInt returns a uniform integer in [0, n) using crypto/rand.
func randomInt(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

func pick[T any](list []T) T {
	return list[randomInt(len(list))]
}

// sample returns up to k distinct entries of pool in random order.
func sample(pool []string, k int) []string {
	idx := make([]int, len(pool))
	for i := range idx {
		idx[i] = i
	}
	k = min(k, len(pool))
	out := make([]string, 0, k)
	for i := 0; i < k; i++ {
		j := i + randomInt(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out = append(out, pool[idx[i]])
	}
	return out
}

// Profiles generates n profiles with unique IDs.
func (g *Generator) Profiles(n int) []model.Profile {
	educations := model.Educations()
	out := make([]model.Profile, n)
	for i := range out {
		name := fmt.Sprintf("%s %d", pick(firstNames), i+1)
		out[i] = model.Profile{
			ID:        uuid.New().String(),
			Name:      name,
			Email:     strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
			Education: pick(educations),
			Skills:    sample(g.skills, randomInt(maxProfileSkills+1)),
		}
	}
	return out
}

// Hackathons generates n hackathons whose status agrees with their dates.
func (g *Generator) Hackathons(n int) []model.Hackathon {
	now := g.now().UTC().Truncate(time.Hour)
	out := make([]model.Hackathon, n)
	for i := range out {
		start := now.AddDate(0, 0, earliestStartDays+randomInt(latestStartDays-earliestStartDays+1))
		end := start.AddDate(0, 0, 1+randomInt(maxDurationDays))
		team := 2 + randomInt(5)
		title := fmt.Sprintf("%s %s %d", pick(titleHeads), pick(titleTails), i+1)
		out[i] = model.Hackathon{
			ID:             uuid.New().String(),
			Title:          title,
			Description:    "Build something with " + strings.ToLower(title),
			SkillsRequired: sample(g.skills, 1+randomInt(maxRequired)),
			StartDate:      start,
			EndDate:        end,
			Mode:           pick(modes),
			Status:         statusAt(start, end, now),
			PrizePool:      fmt.Sprintf("$%dk", 1+randomInt(50)),
			Organizer:      pick(organizers),
			Location:       pick(locations),
			MaxTeamSize:    &team,
		}
	}
	return out
}

func statusAt(start, end, now time.Time) model.Status {
	switch {
	case now.Before(start):
		return model.StatusUpcoming
	case now.After(end):
		return model.StatusCompleted
	default:
		return model.StatusOngoing
	}
}

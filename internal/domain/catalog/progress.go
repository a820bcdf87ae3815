package catalog

import (
	"time"

	"github.com/okian/skillhive/internal/domain/model"
)

const day = 24 * time.Hour

// Phase is where "now" falls relative to a hackathon's dates.
type Phase string

// Phases.
const (
	PhaseUpcoming  Phase = "upcoming"
	PhaseLive      Phase = "live"
	PhaseCompleted Phase = "completed"
)

// Progress describes an enrolled hackathon on a timeline. It is derived from
// dates only and is independent of the stored status.
type Progress struct {
	// Percent is the share of the hackathon's days already elapsed, 0..100.
	Percent        float64 `json:"percent"`
	Phase          Phase   `json:"phase"`
	DaysUntilStart int     `json:"days_until_start"`
	DaysLeft       int     `json:"days_left"`
}

// ProgressAt computes the progress of h at now.
func ProgressAt(h model.Hackathon, now time.Time) Progress {
	total := daysBetween(h.StartDate, h.EndDate)
	if total == 0 {
		total = 1
	}
	elapsed := daysBetween(h.StartDate, now)
	pct := float64(elapsed) / float64(total) * 100
	pct = max(0, min(100, pct))

	p := Progress{Percent: pct}
	switch {
	case now.Before(h.StartDate):
		p.Phase = PhaseUpcoming
		p.DaysUntilStart = daysBetween(now, h.StartDate)
	case now.After(h.EndDate):
		p.Phase = PhaseCompleted
	default:
		p.Phase = PhaseLive
		p.DaysLeft = daysBetween(now, h.EndDate)
	}
	return p
}

// daysBetween counts whole days from a to b, truncated toward zero.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / day)
}

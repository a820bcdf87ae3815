package model

import "time"

// Mode is how a hackathon is attended.
type Mode string

// Attendance modes.
const (
	ModeOnline  Mode = "Online"
	ModeOffline Mode = "Offline"
	ModeHybrid  Mode = "Hybrid"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeOnline, ModeOffline, ModeHybrid:
		return true
	}
	return false
}

// Status is the lifecycle state recorded on a hackathon. It is stored
// independently of the dates and is trusted as-is by matching.
type Status string

// Lifecycle states.
const (
	StatusUpcoming  Status = "Upcoming"
	StatusOngoing   Status = "Ongoing"
	StatusCompleted Status = "Completed"
)

// OpenStatuses are the states eligible for recommendation.
func OpenStatuses() []Status {
	return []Status{StatusUpcoming, StatusOngoing}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted:
		return true
	}
	return false
}

// Open reports whether a hackathon in this state still accepts participants.
func (s Status) Open() bool {
	return s == StatusUpcoming || s == StatusOngoing
}

// Hackathon is a catalog entry.
type Hackathon struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	SkillsRequired []string  `json:"skills_required"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Mode           Mode      `json:"mode"`
	Status         Status    `json:"status"`
	ImageURL       string    `json:"image_url,omitempty"`
	PrizePool      string    `json:"prize_pool,omitempty"`
	Organizer      string    `json:"organizer,omitempty"`
	Location       string    `json:"location,omitempty"`
	MaxTeamSize    *int      `json:"max_team_size,omitempty"`
}

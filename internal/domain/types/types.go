// Package types contains the response shapes shared by the service and its transports.
package types

import (
	"github.com/okian/skillhive/internal/domain/catalog"
	"github.com/okian/skillhive/internal/domain/enrollment"
	"github.com/okian/skillhive/internal/domain/model"
)

// ProfileSummary is the profile card: the profile plus its counters.
type ProfileSummary struct {
	Profile       model.Profile `json:"profile"`
	EnrolledCount int           `json:"enrolled_count"`
	SkillCount    int           `json:"skill_count"`
}

// NewProfileSummary builds the card for p with enrolledCount enrollments.
func NewProfileSummary(p model.Profile, enrolledCount int) ProfileSummary {
	return ProfileSummary{Profile: p, EnrolledCount: enrolledCount, SkillCount: len(p.Skills)}
}

// EnrolledHackathon is a hackathon the user joined, with its timeline.
type EnrolledHackathon struct {
	Hackathon model.Hackathon  `json:"hackathon"`
	Progress  catalog.Progress `json:"progress"`
}

// Dashboard aggregates everything the landing view shows for one user.
type Dashboard struct {
	Summary         ProfileSummary                       `json:"summary"`
	Enrolled        []EnrolledHackathon                  `json:"enrolled"`
	Recommendations []model.MatchResult[model.Hackathon] `json:"recommendations"`
}

// EnrollmentResult reports the outcome of an enrollment attempt.
type EnrollmentResult struct {
	UserID      string             `json:"user_id"`
	HackathonID string             `json:"hackathon_id"`
	Outcome     enrollment.Outcome `json:"outcome"`
	Title       string             `json:"title"`
	Message     string             `json:"message"`
	Enrolled    bool               `json:"enrolled"`
}

// NewEnrollmentResult classifies err for the (userID, hackathonID) attempt.
// enrolled is the tracker state after the attempt.
func NewEnrollmentResult(userID, hackathonID string, err error, enrolled bool) EnrollmentResult {
	o := enrollment.Classify(err)
	return EnrollmentResult{
		UserID:      userID,
		HackathonID: hackathonID,
		Outcome:     o,
		Title:       o.Title(),
		Message:     o.Message(),
		Enrolled:    enrolled,
	}
}

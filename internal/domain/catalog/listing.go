package catalog

import "github.com/okian/skillhive/internal/domain/model"

// Enrolled answers whether the user already joined a hackathon.
type Enrolled interface {
	IsEnrolled(hackathonID string) bool
}

// Listing is a hackathon row as seen by one user.
type Listing struct {
	Hackathon model.Hackathon `json:"hackathon"`
	Enrolled  bool            `json:"enrolled"`
	// CanEnroll is false once the user is enrolled or the hackathon is closed.
	CanEnroll bool `json:"can_enroll"`
}

// Annotate marks each hackathon with the user's enrollment state.
// A nil enrolled set marks nothing.
func Annotate(hackathons []model.Hackathon, enrolled Enrolled) []Listing {
	out := make([]Listing, len(hackathons))
	for i, h := range hackathons {
		isEnrolled := enrolled != nil && enrolled.IsEnrolled(h.ID)
		out[i] = Listing{
			Hackathon: h,
			Enrolled:  isEnrolled,
			CanEnroll: !isEnrolled && h.Status != model.StatusCompleted,
		}
	}
	return out
}

// Select returns the hackathons whose ID is enrolled, in input order.
func Select(hackathons []model.Hackathon, enrolled Enrolled) []model.Hackathon {
	out := make([]model.Hackathon, 0)
	if enrolled == nil {
		return out
	}
	for _, h := range hackathons {
		if enrolled.IsEnrolled(h.ID) {
			out = append(out, h)
		}
	}
	return out
}

package types_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/okian/skillhive/internal/domain/enrollment"
	"github.com/okian/skillhive/internal/domain/model"
	types "github.com/okian/skillhive/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewProfileSummary(t *testing.T) {
	Convey("Given a profile with three skills", t, func() {
		p := model.Profile{ID: "u1", Name: "Ada", Skills: []string{"ml", "python", "go"}}

		Convey("When building its summary", func() {
			s := types.NewProfileSummary(p, 2)

			Convey("Then it counts skills and enrollments", func() {
				So(s.SkillCount, ShouldEqual, 3)
				So(s.EnrolledCount, ShouldEqual, 2)
				So(s.Profile.ID, ShouldEqual, "u1")
			})
		})

		Convey("When the profile has no skills", func() {
			s := types.NewProfileSummary(model.Profile{ID: "u2"}, 0)

			Convey("Then both counters are zero", func() {
				So(s.SkillCount, ShouldEqual, 0)
				So(s.EnrolledCount, ShouldEqual, 0)
			})
		})
	})
}

func TestNewEnrollmentResult(t *testing.T) {
	Convey("Given enrollment attempts", t, func() {
		Convey("A success reports enrolled", func() {
			r := types.NewEnrollmentResult("u1", "h1", nil, true)
			So(r.Outcome, ShouldEqual, enrollment.OutcomeEnrolled)
			So(r.Enrolled, ShouldBeTrue)
		})

		Convey("A wrapped conflict reports already enrolled", func() {
			err := fmt.Errorf("store: %w", enrollment.ErrAlreadyEnrolled)
			r := types.NewEnrollmentResult("u1", "h1", err, false)
			So(r.Outcome, ShouldEqual, enrollment.OutcomeAlreadyEnrolled)
			So(r.Title, ShouldEqual, "Already enrolled")
			So(r.Message, ShouldEqual, "You are already enrolled in this hackathon")
		})

		Convey("Anything else is a retryable failure", func() {
			r := types.NewEnrollmentResult("u1", "h1", errors.New("timeout"), false)
			So(r.Outcome, ShouldEqual, enrollment.OutcomeFailed)
			So(r.Message, ShouldEqual, "Failed to enroll. Please try again.")
		})
	})
}

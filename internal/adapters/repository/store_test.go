package repository

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/skillhive/internal/domain/enrollment"
	"github.com/okian/skillhive/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var base = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func seedFixtures(ctx context.Context, r Repository) {
	four := 4
	profiles := []model.Profile{
		{ID: "u1", Name: "Ada", Email: "ada@example.com", Education: model.EducationPhD, Skills: []string{"python", "ml"}},
		{ID: "u2", Name: "Linus", Education: model.EducationSelfTaught, Skills: []string{"c", "go"}},
		{ID: "u3", Name: "Grace", Education: model.EducationGraduate, Skills: []string{}},
	}
	hackathons := []model.Hackathon{
		{ID: "h2", Title: "Later", Status: model.StatusUpcoming, Mode: model.ModeOnline,
			StartDate: base.AddDate(0, 0, 10), EndDate: base.AddDate(0, 0, 12), SkillsRequired: []string{"go"}},
		{ID: "h1", Title: "Sooner", Status: model.StatusOngoing, Mode: model.ModeHybrid,
			StartDate: base, EndDate: base.AddDate(0, 0, 2), SkillsRequired: []string{"python", "ml"},
			PrizePool: "$10k", Organizer: "ACM", Location: "Berlin", MaxTeamSize: &four},
		{ID: "h0", Title: "Done", Status: model.StatusCompleted, Mode: model.ModeOffline,
			StartDate: base.AddDate(0, -1, 0), EndDate: base.AddDate(0, -1, 1)},
	}
	for _, p := range profiles {
		So(r.UpsertProfile(ctx, p), ShouldBeNil)
	}
	for _, h := range hackathons {
		So(r.UpsertHackathon(ctx, h), ShouldBeNil)
	}
}

func hackathonIDs(hs []model.Hackathon) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.ID
	}
	return out
}

// storeContract exercises the behavior every Repository must share.
func storeContract(newRepo func() Repository) {
	ctx := context.Background()
	r := newRepo()
	defer func() { _ = r.Close() }()
	seedFixtures(ctx, r)

	Convey("FetchProfile returns the stored profile", func() {
		p, err := r.FetchProfile(ctx, "u1")
		So(err, ShouldBeNil)
		So(p.Name, ShouldEqual, "Ada")
		So(p.Education, ShouldEqual, model.EducationPhD)
		So(p.Skills, ShouldResemble, []string{"python", "ml"})
	})

	Convey("FetchProfile reports unknown users as not found", func() {
		_, err := r.FetchProfile(ctx, "nobody")
		So(errors.Is(err, ErrNotFound), ShouldBeTrue)
	})

	Convey("FetchHackathons orders by start date", func() {
		hs, err := r.FetchHackathons(ctx)
		So(err, ShouldBeNil)
		So(hackathonIDs(hs), ShouldResemble, []string{"h0", "h1", "h2"})

		h1 := hs[1]
		So(h1.StartDate.Equal(base), ShouldBeTrue)
		So(h1.SkillsRequired, ShouldResemble, []string{"python", "ml"})
		So(h1.MaxTeamSize, ShouldNotBeNil)
		So(*h1.MaxTeamSize, ShouldEqual, 4)
		So(h1.Location, ShouldEqual, "Berlin")
		So(hs[2].MaxTeamSize, ShouldBeNil)
	})

	Convey("FetchHackathons filters by status", func() {
		hs, err := r.FetchHackathons(ctx, model.OpenStatuses()...)
		So(err, ShouldBeNil)
		So(hackathonIDs(hs), ShouldResemble, []string{"h1", "h2"})
	})

	Convey("FetchOtherProfiles excludes the user and orders by name", func() {
		ps, err := r.FetchOtherProfiles(ctx, "u1")
		So(err, ShouldBeNil)
		names := []string{}
		for _, p := range ps {
			names = append(names, p.Name)
		}
		So(names, ShouldResemble, []string{"Grace", "Linus"})
		So(ps[0].Skills, ShouldNotBeNil)
	})

	Convey("CreateEnrollment enforces the unique pair", func() {
		So(r.CreateEnrollment(ctx, "u1", "h1"), ShouldBeNil)
		err := r.CreateEnrollment(ctx, "u1", "h1")
		So(errors.Is(err, enrollment.ErrAlreadyEnrolled), ShouldBeTrue)

		So(r.CreateEnrollment(ctx, "u2", "h1"), ShouldBeNil)

		es, err := r.FetchEnrollments(ctx, "u1")
		So(err, ShouldBeNil)
		So(len(es), ShouldEqual, 1)
		So(es[0].HackathonID, ShouldEqual, "h1")
		So(es[0].ID, ShouldNotBeEmpty)
	})

	Convey("CreateEnrollment rejects unknown hackathons", func() {
		err := r.CreateEnrollment(ctx, "u1", "missing")
		So(errors.Is(err, ErrNotFound), ShouldBeTrue)
	})

	Convey("Concurrent duplicate enrollments produce exactly one row", func() {
		var wg sync.WaitGroup
		errs := make(chan error, 8)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- r.CreateEnrollment(ctx, "u2", "h2")
			}()
		}
		wg.Wait()
		close(errs)
		ok, dup := 0, 0
		for err := range errs {
			switch {
			case err == nil:
				ok++
			case errors.Is(err, enrollment.ErrAlreadyEnrolled):
				dup++
			}
		}
		So(ok, ShouldEqual, 1)
		So(dup, ShouldEqual, 7)
	})

	Convey("Upserts replace existing rows", func() {
		So(r.UpsertProfile(ctx, model.Profile{ID: "u2", Name: "Linus T", Skills: []string{"rust"}}), ShouldBeNil)
		p, err := r.FetchProfile(ctx, "u2")
		So(err, ShouldBeNil)
		So(cmp.Diff([]string{"rust"}, p.Skills), ShouldBeEmpty)
		So(p.Name, ShouldEqual, "Linus T")
	})

	Convey("Invalid records are refused", func() {
		err := r.UpsertHackathon(ctx, model.Hackathon{ID: "bad", Status: model.StatusUpcoming, Mode: model.ModeOnline,
			StartDate: base, EndDate: base.Add(-time.Hour)})
		So(errors.Is(err, ErrInvalidRecord), ShouldBeTrue)
		So(errors.Is(r.UpsertProfile(ctx, model.Profile{}), ErrInvalidRecord), ShouldBeTrue)
		So(errors.Is(r.UpsertProfile(ctx, model.Profile{ID: "x", Education: "Kindergarten"}), ErrInvalidRecord), ShouldBeTrue)
	})
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a memory store", t, func() {
		storeContract(func() Repository { return NewMemoryStore() })
	})

	Convey("Given a memory store with a fixed clock", t, func() {
		ctx := context.Background()
		s := NewMemoryStore(WithClock(func() time.Time { return base }))
		seedFixtures(ctx, s)
		So(s.CreateEnrollment(ctx, "u1", "h1"), ShouldBeNil)

		es, err := s.FetchEnrollments(ctx, "u1")
		So(err, ShouldBeNil)
		So(es[0].CreatedAt.Equal(base), ShouldBeTrue)

		profiles, hackathons, enrollments := s.Count()
		So(profiles, ShouldEqual, 3)
		So(hackathons, ShouldEqual, 3)
		So(enrollments, ShouldEqual, 1)

		Convey("Returned slices are copies", func() {
			p, _ := s.FetchProfile(ctx, "u1")
			p.Skills[0] = "mutated"
			again, _ := s.FetchProfile(ctx, "u1")
			So(again.Skills[0], ShouldEqual, "python")
		})

		Convey("A cancelled context is honored", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := s.FetchHackathons(cctx)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestSQLiteStore(t *testing.T) {
	Convey("Given a sqlite store", t, func() {
		storeContract(func() Repository {
			s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "skillhive.db"))
			So(err, ShouldBeNil)
			return s
		})
	})

	Convey("Given a reopened sqlite file", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "reopen.db")
		s, err := OpenSQLite(ctx, path)
		So(err, ShouldBeNil)
		seedFixtures(ctx, s)
		So(s.CreateEnrollment(ctx, "u1", "h2"), ShouldBeNil)
		So(s.Close(), ShouldBeNil)

		again, err := OpenSQLite(ctx, path)
		So(err, ShouldBeNil)
		defer func() { _ = again.Close() }()

		Convey("Data and constraints survive", func() {
			es, err := again.FetchEnrollments(ctx, "u1")
			So(err, ShouldBeNil)
			So(len(es), ShouldEqual, 1)
			So(errors.Is(again.CreateEnrollment(ctx, "u1", "h2"), enrollment.ErrAlreadyEnrolled), ShouldBeTrue)
		})
	})
}

func TestTags(t *testing.T) {
	Convey("Tag encoding round-trips and tolerates empty input", t, func() {
		raw, err := encodeTags(nil)
		So(err, ShouldBeNil)
		So(raw, ShouldEqual, "[]")

		tags, err := decodeTags(`["go","ml"]`)
		So(err, ShouldBeNil)
		So(tags, ShouldResemble, []string{"go", "ml"})

		tags, err = decodeTags("")
		So(err, ShouldBeNil)
		So(tags, ShouldBeEmpty)

		_, err = decodeTags("{not json")
		So(err, ShouldNotBeNil)
	})
}

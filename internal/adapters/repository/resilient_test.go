package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/skillhive/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// flakyStore fails every call while down is set.
type flakyStore struct {
	*MemoryStore
	down  bool
	calls int
}

var errBackendDown = errors.New("backend down")

func (f *flakyStore) FetchHackathons(ctx context.Context, statuses ...model.Status) ([]model.Hackathon, error) {
	f.calls++
	if f.down {
		return nil, errBackendDown
	}
	return f.MemoryStore.FetchHackathons(ctx, statuses...)
}

func TestResilientStore(t *testing.T) {
	Convey("Given a breaker over a flaky store", t, func() {
		ctx := context.Background()
		inner := &flakyStore{MemoryStore: NewMemoryStore()}
		seedFixtures(ctx, inner.MemoryStore)
		s := NewResilientStore(inner,
			WithBreakerName("test-store"),
			WithFailureThreshold(2),
			WithOpenTimeout(50*time.Millisecond),
		)

		Convey("Healthy calls pass through", func() {
			hs, err := s.FetchHackathons(ctx)
			So(err, ShouldBeNil)
			So(len(hs), ShouldEqual, 3)
			So(s.State(), ShouldEqual, "closed")
		})

		Convey("Consecutive failures open the breaker", func() {
			inner.down = true
			_, err := s.FetchHackathons(ctx)
			So(errors.Is(err, errBackendDown), ShouldBeTrue)
			_, _ = s.FetchHackathons(ctx)
			So(s.State(), ShouldEqual, "open")

			_, err = s.FetchHackathons(ctx)
			So(errors.Is(err, ErrUnavailable), ShouldBeTrue)
			So(inner.calls, ShouldEqual, 2)

			Convey("And it recovers after the open timeout", func() {
				inner.down = false
				time.Sleep(80 * time.Millisecond)
				_, err := s.FetchHackathons(ctx)
				So(err, ShouldBeNil)
				So(s.State(), ShouldEqual, "closed")
			})
		})

		Convey("Expected outcomes never trip the breaker", func() {
			for i := 0; i < 5; i++ {
				_, err := s.FetchProfile(ctx, "nobody")
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			}
			So(s.CreateEnrollment(ctx, "u1", "h1"), ShouldBeNil)
			for i := 0; i < 5; i++ {
				So(s.CreateEnrollment(ctx, "u1", "h1"), ShouldNotBeNil)
			}
			So(s.State(), ShouldEqual, "closed")
		})

		Convey("Other reads and Close delegate", func() {
			p, err := s.FetchProfile(ctx, "u2")
			So(err, ShouldBeNil)
			So(p.Name, ShouldEqual, "Linus")
			others, err := s.FetchOtherProfiles(ctx, "u2")
			So(err, ShouldBeNil)
			So(len(others), ShouldEqual, 2)
			es, err := s.FetchEnrollments(ctx, "u2")
			So(err, ShouldBeNil)
			So(es, ShouldBeEmpty)
			So(s.Close(), ShouldBeNil)
		})
	})
}

package main

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/skillhive/internal/adapters/http/api"
	"github.com/okian/skillhive/internal/adapters/repository"
	app "github.com/okian/skillhive/internal/app"
	"github.com/okian/skillhive/internal/domain/model"
	"github.com/okian/skillhive/internal/seed"
)

func execute(args ...string) (string, error) {
	teammateQuery, teammateEducation, smokeUsers = "", "", nil

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSeedAndQuery(t *testing.T) {
	Convey("Given an empty sqlite file", t, func() {
		path := filepath.Join(t.TempDir(), "ctl.db")
		store := []string{"--driver", "sqlite", "--dsn", path}

		Convey("seed writes the requested rows", func() {
			out, err := execute(append([]string{"seed", "--profiles", "12", "--hackathons", "5", "--workers", "3"}, store...)...)
			So(err, ShouldBeNil)

			var stats seed.Stats
			So(json.Unmarshal([]byte(out), &stats), ShouldBeNil)
			So(stats, ShouldResemble, seed.Stats{Profiles: 12, Hackathons: 5})

			ids, err := storedUserIDs(context.Background())
			So(err, ShouldBeNil)
			So(ids, ShouldHaveLength, 12)

			Convey("recommend prints at most six open hackathons", func() {
				out, err := execute(append([]string{"recommend", ids[0]}, store...)...)
				So(err, ShouldBeNil)

				var recs []model.MatchResult[model.Hackathon]
				So(json.Unmarshal([]byte(out), &recs), ShouldBeNil)
				So(len(recs), ShouldBeLessThanOrEqualTo, 6)
				for _, r := range recs {
					So(r.Candidate.Status.Open(), ShouldBeTrue)
					So(r.MatchingSkills, ShouldNotBeEmpty)
				}
			})

			Convey("teammates never lists the user", func() {
				out, err := execute(append([]string{"teammates", ids[0]}, store...)...)
				So(err, ShouldBeNil)

				var candidates []model.MatchResult[model.Profile]
				So(json.Unmarshal([]byte(out), &candidates), ShouldBeNil)
				for _, c := range candidates {
					So(c.Candidate.ID, ShouldNotEqual, ids[0])
				}
			})

			Convey("enroll in an unknown hackathon fails", func() {
				_, err := execute(append([]string{"enroll", ids[0], "missing"}, store...)...)
				So(err, ShouldNotBeNil)
			})
		})

		Convey("an unknown user is reported", func() {
			_, err := execute(append([]string{"recommend", "nobody"}, store...)...)
			So(err, ShouldNotBeNil)
		})

		Convey("an unknown education is rejected before the store is opened", func() {
			_, err := execute(append([]string{"teammates", "u1", "--education", "Wizard"}, store...)...)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "Wizard")
		})
	})
}

func TestFlags(t *testing.T) {
	Convey("A durable driver without a dsn fails validation", t, func() {
		_, err := execute("seed", "--driver", "postgres", "--dsn", "")
		So(err, ShouldNotBeNil)
	})

	Convey("Commands check their argument count", t, func() {
		_, err := execute("enroll", "u1", "--driver", "memory")
		So(err, ShouldNotBeNil)
	})
}

func TestSmoke(t *testing.T) {
	Convey("Given a running service with one matching hackathon", t, func() {
		ctx := context.Background()
		mem := repository.NewMemoryStore()
		start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		So(mem.UpsertProfile(ctx, model.Profile{ID: "u1", Name: "Ada", Skills: []string{"go"}}), ShouldBeNil)
		So(mem.UpsertHackathon(ctx, model.Hackathon{
			ID: "h1", Title: "Go Jam", SkillsRequired: []string{"go"},
			StartDate: start, EndDate: start.Add(48 * time.Hour),
			Mode: model.ModeOnline, Status: model.StatusUpcoming,
		}), ShouldBeNil)

		svc := app.New(app.WithStore(mem))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()
		srv := httptest.NewServer(api.NewServer(svc, svc).Routes())
		defer srv.Close()

		Convey("smoke enrolls once and sees the repeat refused", func() {
			out, err := execute("smoke", "--url", srv.URL, "--users", "u1", "--driver", "memory")
			So(err, ShouldBeNil)

			var report seed.Report
			So(json.Unmarshal([]byte(out), &report), ShouldBeNil)
			So(report.Users, ShouldEqual, 1)
			So(report.Enrolled, ShouldEqual, 1)
			So(report.Conflicts, ShouldEqual, 1)
			So(report.Violations, ShouldBeEmpty)
		})
	})
}

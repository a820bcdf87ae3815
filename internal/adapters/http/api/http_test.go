package api_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/skillhive/internal/adapters/http/api"
	service "github.com/okian/skillhive/internal/app"
	"github.com/okian/skillhive/internal/domain/catalog"
	"github.com/okian/skillhive/internal/domain/enrollment"
	"github.com/okian/skillhive/internal/domain/model"
	"github.com/okian/skillhive/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeDeps struct {
	recommendErr   error
	enrollErr      error
	enrolled       bool
	statusErr      error
	teammateFilter catalog.TeammateFilter
	listUser       string
	listFilter     catalog.HackathonFilter
}

func (f *fakeDeps) Recommend(_ context.Context, userID string) ([]model.MatchResult[model.Hackathon], error) {
	if f.recommendErr != nil {
		return nil, f.recommendErr
	}
	return []model.MatchResult[model.Hackathon]{{
		Candidate:       model.Hackathon{ID: "h1", Title: "Gopher Sprint", Status: model.StatusUpcoming},
		MatchPercentage: 50,
		MatchingSkills:  []string{"go"},
	}}, nil
}

func (f *fakeDeps) MatchTeammates(_ context.Context, _ string, filter catalog.TeammateFilter) ([]model.MatchResult[model.Profile], error) {
	f.teammateFilter = filter
	return []model.MatchResult[model.Profile]{{
		Candidate:       model.Profile{ID: "u2", Name: "Linus"},
		MatchPercentage: 100,
		MatchingSkills:  []string{"go"},
	}}, nil
}

func (f *fakeDeps) ListHackathons(_ context.Context, userID string, filter catalog.HackathonFilter) ([]catalog.Listing, error) {
	f.listUser = userID
	f.listFilter = filter
	return catalog.Annotate([]model.Hackathon{{ID: "h1", Status: model.StatusUpcoming}}, nil), nil
}

func (f *fakeDeps) Enroll(_ context.Context, userID, hackathonID string) (types.EnrollmentResult, error) {
	if errors.Is(f.enrollErr, service.ErrNotFound) {
		return types.EnrollmentResult{}, f.enrollErr
	}
	return types.NewEnrollmentResult(userID, hackathonID, f.enrollErr, f.enrollErr == nil), f.enrollErr
}

func (f *fakeDeps) IsEnrolled(_ context.Context, _, _ string) (bool, error) {
	return f.enrolled, f.statusErr
}

func (f *fakeDeps) Dashboard(_ context.Context, userID string) (types.Dashboard, error) {
	return types.Dashboard{Summary: types.NewProfileSummary(model.Profile{ID: userID, Skills: []string{"go"}}, 1)}, nil
}

type fakeStats struct{}

func (fakeStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
	return out
}

func TestMatchingRoutes(t *testing.T) {
	Convey("Given an API server over fake dependencies", t, func() {
		deps := &fakeDeps{}
		h := api.NewServer(deps, fakeStats{}).Routes()

		Convey("GET recommendations returns the list", func() {
			w := do(h, http.MethodGet, "/users/u1/recommendations", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
			body := decode(w)
			So(body["user_id"], ShouldEqual, "u1")
			recs := body["recommendations"].([]any)
			So(recs, ShouldHaveLength, 1)
			first := recs[0].(map[string]any)
			So(first["match_percentage"], ShouldEqual, 50.0)
			So(first["matching_skills"], ShouldResemble, []any{"go"})
		})

		Convey("An unknown user maps to 404", func() {
			deps.recommendErr = fmt.Errorf("%w: user ghost", service.ErrNotFound)
			w := do(h, http.MethodGet, "/users/ghost/recommendations", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decode(w)["code"], ShouldEqual, "not_found")
		})

		Convey("An unexpected failure maps to 500 without leaking the cause", func() {
			deps.recommendErr = fmt.Errorf("dial tcp: refused")
			w := do(h, http.MethodGet, "/users/u1/recommendations", "")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(w.Body.String(), ShouldNotContainSubstring, "refused")
		})

		Convey("GET teammates passes the filter through", func() {
			w := do(h, http.MethodGet, "/users/u1/teammates?q=Lin&education=Self-taught", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.teammateFilter.Query, ShouldEqual, "Lin")
			So(deps.teammateFilter.Education, ShouldEqual, model.EducationSelfTaught)
			So(decode(w)["teammates"], ShouldHaveLength, 1)
		})

		Convey("An unknown education is rejected", func() {
			w := do(h, http.MethodGet, "/users/u1/teammates?education=Kindergarten", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode(w)["message"], ShouldContainSubstring, "education")
		})

		Convey("GET dashboard returns the summary", func() {
			w := do(h, http.MethodGet, "/users/u1/dashboard", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			summary := decode(w)["summary"].(map[string]any)
			So(summary["enrolled_count"], ShouldEqual, 1.0)
			So(summary["skill_count"], ShouldEqual, 1.0)
		})
	})
}

func TestHackathonRoutes(t *testing.T) {
	Convey("Given an API server over fake dependencies", t, func() {
		deps := &fakeDeps{}
		h := api.NewServer(deps, fakeStats{}).Routes()

		Convey("GET hackathons parses every filter", func() {
			w := do(h, http.MethodGet, "/hackathons?user_id=u1&q=data&status=Upcoming&mode=Online&skill=go", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.listUser, ShouldEqual, "u1")
			So(deps.listFilter, ShouldResemble, catalog.HackathonFilter{
				Query: "data", Status: model.StatusUpcoming, Mode: model.ModeOnline, Skill: "go",
			})
			So(decode(w)["hackathons"], ShouldHaveLength, 1)
		})

		Convey("An unknown status or mode is rejected", func() {
			So(do(h, http.MethodGet, "/hackathons?status=Cancelled", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(h, http.MethodGet, "/hackathons?mode=Remote", "").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestEnrollmentRoutes(t *testing.T) {
	Convey("Given an API server over fake dependencies", t, func() {
		deps := &fakeDeps{}
		h := api.NewServer(deps, fakeStats{}).Routes()

		Convey("A successful enrollment answers 201 with the result", func() {
			w := do(h, http.MethodPost, "/users/u1/enrollments", `{"hackathon_id":"h1"}`)
			So(w.Code, ShouldEqual, http.StatusCreated)
			body := decode(w)
			So(body["outcome"], ShouldEqual, "enrolled")
			So(body["title"], ShouldEqual, "Enrolled successfully")
			So(body["enrolled"], ShouldEqual, true)
		})

		Convey("A duplicate enrollment answers 409 with its message", func() {
			deps.enrollErr = fmt.Errorf("insert: %w", enrollment.ErrAlreadyEnrolled)
			w := do(h, http.MethodPost, "/users/u1/enrollments", `{"hackathon_id":"h1"}`)
			So(w.Code, ShouldEqual, http.StatusConflict)
			body := decode(w)
			So(body["outcome"], ShouldEqual, "already_enrolled")
			So(body["message"], ShouldEqual, "You are already enrolled in this hackathon")
		})

		Convey("An in-flight enrollment answers 409", func() {
			deps.enrollErr = enrollment.ErrInFlight
			w := do(h, http.MethodPost, "/users/u1/enrollments", `{"hackathon_id":"h1"}`)
			So(w.Code, ShouldEqual, http.StatusConflict)
			So(decode(w)["outcome"], ShouldEqual, "in_progress")
		})

		Convey("An ended hackathon answers 409 with the closed outcome", func() {
			deps.enrollErr = fmt.Errorf("hackathon h3 is Completed: %w", enrollment.ErrClosed)
			w := do(h, http.MethodPost, "/users/u1/enrollments", `{"hackathon_id":"h3"}`)
			So(w.Code, ShouldEqual, http.StatusConflict)
			body := decode(w)
			So(body["outcome"], ShouldEqual, "closed")
			So(body["enrolled"], ShouldEqual, false)
		})

		Convey("A failed write answers 503 with the retry message", func() {
			deps.enrollErr = fmt.Errorf("%w: timeout", enrollment.ErrEnrollmentFailed)
			w := do(h, http.MethodPost, "/users/u1/enrollments", `{"hackathon_id":"h1"}`)
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(decode(w)["message"], ShouldEqual, "Failed to enroll. Please try again.")
		})

		Convey("An unknown hackathon answers 404", func() {
			deps.enrollErr = fmt.Errorf("%w: hackathon nope", service.ErrNotFound)
			w := do(h, http.MethodPost, "/users/u1/enrollments", `{"hackathon_id":"nope"}`)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Malformed or incomplete bodies answer 400", func() {
			So(do(h, http.MethodPost, "/users/u1/enrollments", `{`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(h, http.MethodPost, "/users/u1/enrollments", `{}`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(h, http.MethodPost, "/users/u1/enrollments", `{"hackathon_id":"h1","extra":1}`).Code,
				ShouldEqual, http.StatusBadRequest)
		})

		Convey("GET enrollment status reports membership", func() {
			deps.enrolled = true
			w := do(h, http.MethodGet, "/users/u1/enrollments/h1", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			body := decode(w)
			So(body["enrolled"], ShouldEqual, true)
			So(body["hackathon_id"], ShouldEqual, "h1")
		})

		Convey("GET enrollment status for an unknown user answers 404", func() {
			deps.statusErr = fmt.Errorf("%w: user ghost", service.ErrNotFound)
			w := do(h, http.MethodGet, "/users/ghost/enrollments/h1", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decode(w)["code"], ShouldEqual, "not_found")
		})
	})

	Convey("Given a server with an enrollment limit of one per minute", t, func() {
		h := api.NewServer(&fakeDeps{}, fakeStats{}, api.WithEnrollRateLimit(1, time.Minute)).Routes()

		Convey("The second enrollment from the same client and user is throttled", func() {
			So(do(h, http.MethodPost, "/users/u1/enrollments", `{"hackathon_id":"h1"}`).Code, ShouldEqual, http.StatusCreated)
			w := do(h, http.MethodPost, "/users/u1/enrollments", `{"hackathon_id":"h2"}`)
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
			So(decode(w)["code"], ShouldEqual, "rate_limited")
		})

		Convey("Another user is not affected", func() {
			So(do(h, http.MethodPost, "/users/u1/enrollments", `{"hackathon_id":"h1"}`).Code, ShouldEqual, http.StatusCreated)
			So(do(h, http.MethodPost, "/users/u2/enrollments", `{"hackathon_id":"h1"}`).Code, ShouldEqual, http.StatusCreated)
		})
	})
}

func TestOperationalRoutes(t *testing.T) {
	Convey("Given an API server", t, func() {
		h := api.NewServer(&fakeDeps{}, fakeStats{}, api.WithAllowedOrigins([]string{"https://skillhive.dev"})).Routes()

		Convey("GET /stats returns the provider's map", func() {
			w := do(h, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode(w)["started"], ShouldEqual, true)
		})

		Convey("GET /healthz serves the metrics registry", func() {
			_ = do(h, http.MethodGet, "/stats", "")
			w := do(h, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "skillhive_matching_http_requests_total")
		})

		Convey("Unknown routes answer a JSON 404", func() {
			w := do(h, http.MethodGet, "/leaderboard", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decode(w)["code"], ShouldEqual, "not_found")
		})

		Convey("Preflight from an allowed origin is answered", func() {
			req := httptest.NewRequest(http.MethodOptions, "/users/u1/enrollments", http.NoBody)
			req.Header.Set("Origin", "https://skillhive.dev")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "https://skillhive.dev")
		})
	})
}

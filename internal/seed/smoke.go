package seed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/okian/skillhive/internal/domain/model"
	"github.com/okian/skillhive/pkg/logger"
)

// SmokeConfig configures Smoke.
type SmokeConfig struct {
	BaseURL string
	UserIDs []string
	Workers int
	Timeout time.Duration
	// MaxRecommendations is the largest list the service may return.
	MaxRecommendations int
}

// Report summarizes a smoke run.
type Report struct {
	Users           int      `json:"users"`
	Recommendations int      `json:"recommendations"`
	Enrolled        int      `json:"enrolled"`
	Conflicts       int      `json:"conflicts"`
	Violations      []string `json:"violations"`
}

type recommendationsBody struct {
	Recommendations []model.MatchResult[model.Hackathon] `json:"recommendations"`
}

type client struct {
	http    *http.Client
	baseURL string
}

func (c *client) get(ctx context.Context, path string, dst any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	return c.do(req, dst)
}

func (c *client) post(ctx context.Context, path string, body, dst any) (int, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshal body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, dst)
}

func (c *client) do(req *http.Request, dst any) (int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	if dst != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, dst); err != nil {
			return resp.StatusCode, fmt.Errorf("decode body: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// Smoke drives a running service: for every user it fetches recommendations,
// checks their invariants, enrolls in the first one, and confirms the
// enrollment removed it from the next list and that a repeat is refused.
func Smoke(ctx context.Context, cfg SmokeConfig) (Report, error) {
	if cfg.MaxRecommendations <= 0 {
		cfg.MaxRecommendations = 6
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	c := &client{http: &http.Client{Timeout: cfg.Timeout}, baseURL: cfg.BaseURL}

	var (
		mu     sync.Mutex
		report = Report{Violations: []string{}}
	)
	violate := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		report.Violations = append(report.Violations, fmt.Sprintf(format, args...))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.Workers))

	for _, id := range cfg.UserIDs {
		g.Go(func() error {
			path := "/users/" + url.PathEscape(id) + "/recommendations"
			var body recommendationsBody
			status, err := c.get(gctx, path, &body)
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				violate("user %s: recommendations answered %d", id, status)
				return nil
			}
			checkRecommendations(id, body.Recommendations, cfg.MaxRecommendations, violate)

			mu.Lock()
			report.Users++
			report.Recommendations += len(body.Recommendations)
			mu.Unlock()

			if len(body.Recommendations) == 0 {
				return nil
			}
			return enrollFirst(gctx, c, id, body.Recommendations[0].Candidate.ID, &mu, &report, violate)
		})
	}

	err := g.Wait()
	logger.Get().Info(ctx, "smoke run finished",
		logger.Int("users", report.Users),
		logger.Int("recommendations", report.Recommendations),
		logger.Int("enrolled", report.Enrolled),
		logger.Int("violations", len(report.Violations)),
	)
	return report, err
}

func checkRecommendations(userID string, recs []model.MatchResult[model.Hackathon], limit int, violate func(string, ...any)) {
	if len(recs) > limit {
		violate("user %s: %d recommendations exceed %d", userID, len(recs), limit)
	}
	for _, r := range recs {
		if r.MatchPercentage < 0 || r.MatchPercentage > 100 {
			violate("user %s: hackathon %s has percentage %d", userID, r.Candidate.ID, r.MatchPercentage)
		}
		if len(r.MatchingSkills) == 0 {
			violate("user %s: hackathon %s recommended without shared skills", userID, r.Candidate.ID)
		}
		if !r.Candidate.Status.Open() {
			violate("user %s: hackathon %s recommended while %s", userID, r.Candidate.ID, r.Candidate.Status)
		}
	}
}

func enrollFirst(ctx context.Context, c *client, userID, hackathonID string, mu *sync.Mutex, report *Report, violate func(string, ...any)) error {
	enrollPath := "/users/" + url.PathEscape(userID) + "/enrollments"
	req := map[string]string{"hackathon_id": hackathonID}

	status, err := c.post(ctx, enrollPath, req, nil)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		violate("user %s: enrolling in %s answered %d", userID, hackathonID, status)
		return nil
	}

	var after recommendationsBody
	if _, err := c.get(ctx, "/users/"+url.PathEscape(userID)+"/recommendations", &after); err != nil {
		return err
	}
	for _, r := range after.Recommendations {
		if r.Candidate.ID == hackathonID {
			violate("user %s: enrolled hackathon %s still recommended", userID, hackathonID)
		}
	}

	status, err = c.post(ctx, enrollPath, req, nil)
	if err != nil {
		return err
	}
	if status != http.StatusConflict {
		violate("user %s: repeated enrollment in %s answered %d", userID, hackathonID, status)
	}

	mu.Lock()
	report.Enrolled++
	if status == http.StatusConflict {
		report.Conflicts++
	}
	mu.Unlock()
	return nil
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/skillhive/internal/domain/catalog"
	"github.com/okian/skillhive/internal/domain/model"
)

type recommendationsResponse struct {
	UserID          string                               `json:"user_id"`
	Recommendations []model.MatchResult[model.Hackathon] `json:"recommendations"`
}

type teammatesResponse struct {
	UserID    string                             `json:"user_id"`
	Teammates []model.MatchResult[model.Profile] `json:"teammates"`
}

type userPath struct {
	UserID string `json:"user_id" validate:"required,max=128"`
}

type teammateQuery struct {
	Query     string `query:"q" validate:"max=200"`
	Education string `query:"education" validate:"omitempty,education"`
}

func userID(r *http.Request) (string, error) {
	p := userPath{UserID: chi.URLParam(r, "userID")}
	if err := validateStruct(p); err != nil {
		return "", err
	}
	return p.UserID, nil
}

// handleRecommendations handles GET /users/{userID}/recommendations.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	ctx, cancel := s.callContext(r)
	defer cancel()

	recs, err := s.deps.Recommend(ctx, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recommendationsResponse{UserID: id, Recommendations: recs})
}

// handleTeammates handles GET /users/{userID}/teammates?q=&education=.
func (s *Server) handleTeammates(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	q := teammateQuery{
		Query:     r.URL.Query().Get("q"),
		Education: r.URL.Query().Get("education"),
	}
	if err := validateStruct(q); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	ctx, cancel := s.callContext(r)
	defer cancel()

	mates, err := s.deps.MatchTeammates(ctx, id, catalog.TeammateFilter{
		Query:     q.Query,
		Education: model.Education(q.Education),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teammatesResponse{UserID: id, Teammates: mates})
}

// handleDashboard handles GET /users/{userID}/dashboard.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	ctx, cancel := s.callContext(r)
	defer cancel()

	d, err := s.deps.Dashboard(ctx, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

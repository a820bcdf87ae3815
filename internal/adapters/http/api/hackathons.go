package api

import (
	"net/http"

	"github.com/okian/skillhive/internal/domain/catalog"
	"github.com/okian/skillhive/internal/domain/model"
)

type hackathonQuery struct {
	UserID string `query:"user_id" validate:"max=128"`
	Query  string `query:"q" validate:"max=200"`
	Status string `query:"status" validate:"omitempty,status"`
	Mode   string `query:"mode" validate:"omitempty,mode"`
	Skill  string `query:"skill" validate:"max=100"`
}

type hackathonsResponse struct {
	Hackathons []catalog.Listing `json:"hackathons"`
}

// handleListHackathons handles GET /hackathons?user_id=&q=&status=&mode=&skill=.
func (s *Server) handleListHackathons(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	q := hackathonQuery{
		UserID: v.Get("user_id"),
		Query:  v.Get("q"),
		Status: v.Get("status"),
		Mode:   v.Get("mode"),
		Skill:  v.Get("skill"),
	}
	if err := validateStruct(q); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	ctx, cancel := s.callContext(r)
	defer cancel()

	list, err := s.deps.ListHackathons(ctx, q.UserID, catalog.HackathonFilter{
		Query:  q.Query,
		Status: model.Status(q.Status),
		Mode:   model.Mode(q.Mode),
		Skill:  q.Skill,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hackathonsResponse{Hackathons: list})
}

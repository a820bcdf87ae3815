package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type enrollRequest struct {
	HackathonID string `json:"hackathon_id" validate:"required,max=128"`
}

type enrollmentStatusResponse struct {
	UserID      string `json:"user_id"`
	HackathonID string `json:"hackathon_id"`
	Enrolled    bool   `json:"enrolled"`
}

// handleEnroll handles POST /users/{userID}/enrollments.
// Classified outcomes answer with the enrollment result body:
// 201 enrolled, 409 already enrolled, in progress or closed, 503 failed.
func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	var req enrollRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	ctx, cancel := s.callContext(r)
	defer cancel()

	res, err := s.deps.Enroll(ctx, id, req.HackathonID)
	if err == nil {
		writeJSON(w, http.StatusCreated, res)
		return
	}
	status, _ := classify(err)
	switch status {
	case http.StatusConflict, http.StatusServiceUnavailable:
		if res.Outcome != "" {
			writeJSON(w, status, res)
			return
		}
	}
	writeServiceError(w, err)
}

// handleEnrollmentStatus handles GET /users/{userID}/enrollments/{hackathonID}.
func (s *Server) handleEnrollmentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	hackathonID := chi.URLParam(r, "hackathonID")
	ctx, cancel := s.callContext(r)
	defer cancel()

	ok, err := s.deps.IsEnrolled(ctx, id, hackathonID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, enrollmentStatusResponse{UserID: id, HackathonID: hackathonID, Enrolled: ok})
}

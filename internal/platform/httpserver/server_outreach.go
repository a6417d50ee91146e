package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	outreacherrors "chapterhouse/contexts/chapter-operations/outreach-service/domain/errors"
	outreachhttp "chapterhouse/contexts/chapter-operations/outreach-service/transport/http"
)

func (s *Server) registerOutreachRoutes() {
	s.mux.HandleFunc("POST /api/outreach/v1/approaches", s.handleRecordApproach)
	s.mux.HandleFunc("GET /api/outreach/v1/approaches", s.handleListApproaches)
	s.mux.HandleFunc("POST /api/outreach/v1/approaches/{approach_id}/response", s.handleRecordResponse)
	s.mux.HandleFunc("POST /api/outreach/v1/approaches/{approach_id}/override", s.handleOverrideResponse)
	s.mux.HandleFunc("GET /api/outreach/v1/stats", s.handleOutreachStats)
}

func (s *Server) handleRecordApproach(w http.ResponseWriter, r *http.Request) {
	var req outreachhttp.RecordApproachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOutreachError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.outreach.Handler.RecordApproachHandler(r.Context(), req)
	if err != nil {
		writeOutreachDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListApproaches(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.outreach.Handler.ListApproachesHandler(
		r.Context(),
		query.Get("cycle_id"),
		query.Get("position_id"),
		query.Get("response_status"),
	)
	if err != nil {
		writeOutreachDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecordResponse(w http.ResponseWriter, r *http.Request) {
	var req outreachhttp.RecordResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOutreachError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.outreach.Handler.RecordResponseHandler(r.Context(), r.PathValue("approach_id"), req)
	if err != nil {
		writeOutreachDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOverrideResponse(w http.ResponseWriter, r *http.Request) {
	actorID := resolveUserID(r)
	if actorID == "" {
		writeOutreachError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req outreachhttp.OverrideResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOutreachError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.outreach.Handler.OverrideResponseHandler(r.Context(), r.PathValue("approach_id"), actorID, req)
	if err != nil {
		writeOutreachDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOutreachStats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.outreach.Handler.StatsHandler(r.Context(), query.Get("cycle_id"), query.Get("position_id"))
	if err != nil {
		writeOutreachDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeOutreachDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, outreacherrors.ErrInvalidApproachInput):
		writeOutreachError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, outreacherrors.ErrApproachNotFound),
		errors.Is(err, outreacherrors.ErrCycleNotFound),
		errors.Is(err, outreacherrors.ErrPositionNotFound):
		writeOutreachError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, outreacherrors.ErrResponseAlreadySet),
		errors.Is(err, outreacherrors.ErrConflict):
		writeOutreachError(w, http.StatusConflict, "invalid_state", err.Error())
	default:
		writeOutreachError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeOutreachError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, outreachhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

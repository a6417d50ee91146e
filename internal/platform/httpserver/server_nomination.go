package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	nominationerrors "chapterhouse/contexts/chapter-operations/nomination-service/domain/errors"
	nominationhttp "chapterhouse/contexts/chapter-operations/nomination-service/transport/http"
)

func (s *Server) registerNominationRoutes() {
	s.mux.HandleFunc("POST /api/nominations/v1/nominations", s.handleSubmitNomination)
	s.mux.HandleFunc("GET /api/nominations/v1/nominations", s.handleListNominations)
	s.mux.HandleFunc("GET /api/nominations/v1/nominations/approved", s.handleListApprovedNominations)
	s.mux.HandleFunc("POST /api/nominations/v1/nominations/{nomination_id}/review", s.handleReviewNomination)
}

func (s *Server) handleSubmitNomination(w http.ResponseWriter, r *http.Request) {
	var req nominationhttp.SubmitNominationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeNominationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.nominations.Handler.SubmitNominationHandler(r.Context(), req)
	if err != nil {
		writeNominationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListNominations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.nominations.Handler.ListNominationsHandler(
		r.Context(),
		query.Get("cycle_id"),
		query.Get("position_id"),
		query.Get("status"),
	)
	if err != nil {
		writeNominationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListApprovedNominations(w http.ResponseWriter, r *http.Request) {
	resp, err := s.nominations.Handler.ListApprovedHandler(r.Context(), r.URL.Query().Get("cycle_id"))
	if err != nil {
		writeNominationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewNomination(w http.ResponseWriter, r *http.Request) {
	reviewerID := resolveUserID(r)
	if reviewerID == "" {
		writeNominationError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req nominationhttp.ReviewNominationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeNominationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.nominations.Handler.ReviewNominationHandler(r.Context(), r.PathValue("nomination_id"), reviewerID, req)
	if err != nil {
		writeNominationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeNominationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, nominationerrors.ErrInvalidNominationInput):
		writeNominationError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, nominationerrors.ErrNominationNotFound),
		errors.Is(err, nominationerrors.ErrCycleNotFound),
		errors.Is(err, nominationerrors.ErrPositionNotFound):
		writeNominationError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, nominationerrors.ErrApproachMismatch):
		writeNominationError(w, http.StatusUnprocessableEntity, "approach_mismatch", err.Error())
	case errors.Is(err, nominationerrors.ErrAlreadyReviewed),
		errors.Is(err, nominationerrors.ErrConflict):
		writeNominationError(w, http.StatusConflict, "invalid_state", err.Error())
	default:
		writeNominationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeNominationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, nominationhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

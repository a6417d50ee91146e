package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	successionerrors "chapterhouse/contexts/chapter-operations/succession-service/domain/errors"
	successionhttp "chapterhouse/contexts/chapter-operations/succession-service/transport/http"
)

func (s *Server) registerSuccessionRoutes() {
	s.mux.HandleFunc("POST /api/succession/v1/cycles", s.handleCreateCycle)
	s.mux.HandleFunc("GET /api/succession/v1/cycles", s.handleListCycles)
	s.mux.HandleFunc("GET /api/succession/v1/cycles/active", s.handleGetActiveCycle)
	s.mux.HandleFunc("GET /api/succession/v1/cycles/{cycle_id}", s.handleGetCycle)
	s.mux.HandleFunc("POST /api/succession/v1/cycles/{cycle_id}/transition", s.handleTransitionCycle)
	s.mux.HandleFunc("PUT /api/succession/v1/cycles/{cycle_id}/committee", s.handleUpdateCommittee)
	s.mux.HandleFunc("POST /api/succession/v1/cycles/{cycle_id}/positions", s.handleCreatePosition)
	s.mux.HandleFunc("GET /api/succession/v1/cycles/{cycle_id}/positions", s.handleListPositions)
	s.mux.HandleFunc("POST /api/succession/v1/positions/{position_id}/toggle", s.handleTogglePosition)
}

func (s *Server) handleCreateCycle(w http.ResponseWriter, r *http.Request) {
	var req successionhttp.CreateCycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSuccessionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.succession.Handler.CreateCycleHandler(r.Context(), req)
	if err != nil {
		writeSuccessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCycles(w http.ResponseWriter, r *http.Request) {
	resp, err := s.succession.Handler.ListCyclesHandler(r.Context(), r.URL.Query().Get("scope"))
	if err != nil {
		writeSuccessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetActiveCycle(w http.ResponseWriter, r *http.Request) {
	resp, found, err := s.succession.Handler.GetActiveCycleHandler(r.Context(), r.URL.Query().Get("scope"))
	if err != nil {
		writeSuccessionDomainError(w, err)
		return
	}
	if !found {
		writeSuccessionError(w, http.StatusNotFound, "no_active_cycle", "no active cycle in this scope")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCycle(w http.ResponseWriter, r *http.Request) {
	resp, err := s.succession.Handler.GetCycleHandler(r.Context(), r.PathValue("cycle_id"))
	if err != nil {
		writeSuccessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransitionCycle(w http.ResponseWriter, r *http.Request) {
	var req successionhttp.TransitionCycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSuccessionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.succession.Handler.TransitionCycleHandler(r.Context(), r.PathValue("cycle_id"), req)
	if err != nil {
		writeSuccessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateCommittee(w http.ResponseWriter, r *http.Request) {
	var req successionhttp.UpdateCommitteeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSuccessionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.succession.Handler.UpdateCommitteeHandler(r.Context(), r.PathValue("cycle_id"), req)
	if err != nil {
		writeSuccessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreatePosition(w http.ResponseWriter, r *http.Request) {
	var req successionhttp.CreatePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSuccessionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.succession.Handler.CreatePositionHandler(r.Context(), r.PathValue("cycle_id"), req)
	if err != nil {
		writeSuccessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListPositions(w http.ResponseWriter, r *http.Request) {
	resp, err := s.succession.Handler.ListPositionsHandler(r.Context(), r.PathValue("cycle_id"))
	if err != nil {
		writeSuccessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTogglePosition(w http.ResponseWriter, r *http.Request) {
	var req successionhttp.TogglePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSuccessionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.succession.Handler.TogglePositionHandler(r.Context(), r.PathValue("position_id"), req)
	if err != nil {
		writeSuccessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeSuccessionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, successionerrors.ErrInvalidCycleInput),
		errors.Is(err, successionerrors.ErrInvalidPositionInput):
		writeSuccessionError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, successionerrors.ErrCycleNotFound),
		errors.Is(err, successionerrors.ErrPositionNotFound):
		writeSuccessionError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, successionerrors.ErrInvalidCycleTransition):
		writeSuccessionError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, successionerrors.ErrActiveCycleExists),
		errors.Is(err, successionerrors.ErrCycleNotEditable),
		errors.Is(err, successionerrors.ErrConflict):
		writeSuccessionError(w, http.StatusConflict, "invalid_state", err.Error())
	default:
		writeSuccessionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeSuccessionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, successionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

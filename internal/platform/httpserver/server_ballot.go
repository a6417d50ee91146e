package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	balloterrors "chapterhouse/contexts/chapter-operations/ballot-engine/domain/errors"
	ballothttp "chapterhouse/contexts/chapter-operations/ballot-engine/transport/http"
)

func (s *Server) registerBallotRoutes() {
	s.mux.HandleFunc("POST /api/ballot/v1/meetings", s.handleScheduleMeeting)
	s.mux.HandleFunc("GET /api/ballot/v1/meetings", s.handleListMeetings)
	s.mux.HandleFunc("POST /api/ballot/v1/meetings/{meeting_id}/transition", s.handleTransitionMeeting)
	s.mux.HandleFunc("PUT /api/ballot/v1/meetings/{meeting_id}/notes", s.handleUpdateMeetingNotes)
	s.mux.HandleFunc("GET /api/ballot/v1/meetings/{meeting_id}/ballot", s.handleBuildBallot)
	s.mux.HandleFunc("POST /api/ballot/v1/meetings/{meeting_id}/votes", s.handleCastVote)
	s.mux.HandleFunc("GET /api/ballot/v1/meetings/{meeting_id}/results", s.handleMeetingResults)
	s.mux.HandleFunc("GET /api/ballot/v1/cycles/{cycle_id}/results", s.handleProjectResults)
}

func (s *Server) handleScheduleMeeting(w http.ResponseWriter, r *http.Request) {
	var req ballothttp.ScheduleMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBallotError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ballot.Handler.ScheduleMeetingHandler(r.Context(), req)
	if err != nil {
		writeBallotDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListMeetings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.ballot.Handler.ListMeetingsHandler(
		r.Context(),
		query.Get("cycle_id"),
		query.Get("meeting_type"),
		query.Get("status"),
	)
	if err != nil {
		writeBallotDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransitionMeeting(w http.ResponseWriter, r *http.Request) {
	var req ballothttp.TransitionMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBallotError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ballot.Handler.TransitionMeetingHandler(r.Context(), r.PathValue("meeting_id"), req)
	if err != nil {
		writeBallotDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateMeetingNotes(w http.ResponseWriter, r *http.Request) {
	var req ballothttp.UpdateMeetingNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBallotError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ballot.Handler.UpdateMeetingNotesHandler(r.Context(), r.PathValue("meeting_id"), req)
	if err != nil {
		writeBallotDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBuildBallot(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ballot.Handler.BuildBallotHandler(r.Context(), r.PathValue("meeting_id"), resolveUserID(r))
	if err != nil {
		writeBallotDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	voterID := resolveUserID(r)
	if voterID == "" {
		writeBallotError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req ballothttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBallotError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ballot.Handler.CastVoteHandler(r.Context(), r.PathValue("meeting_id"), voterID, req)
	if err != nil {
		writeBallotDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMeetingResults(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ballot.Handler.MeetingResultsHandler(r.Context(), r.PathValue("meeting_id"))
	if err != nil {
		writeBallotDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProjectResults(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ballot.Handler.ProjectResultsHandler(r.Context(), r.PathValue("cycle_id"), r.URL.Query().Get("position_id"))
	if err != nil {
		writeBallotDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeBallotDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, balloterrors.ErrInvalidMeetingInput),
		errors.Is(err, balloterrors.ErrInvalidVoteInput):
		writeBallotError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, balloterrors.ErrMeetingNotFound),
		errors.Is(err, balloterrors.ErrCycleNotFound),
		errors.Is(err, balloterrors.ErrPositionNotFound),
		errors.Is(err, balloterrors.ErrNomineeNotOnBallot):
		writeBallotError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, balloterrors.ErrInvalidMeetingTransition):
		writeBallotError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, balloterrors.ErrVoterNotEligible):
		writeBallotError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, balloterrors.ErrMeetingNotOpen),
		errors.Is(err, balloterrors.ErrConflict):
		writeBallotError(w, http.StatusConflict, "invalid_state", err.Error())
	default:
		writeBallotError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeBallotError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ballothttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

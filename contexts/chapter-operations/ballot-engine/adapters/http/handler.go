package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"chapterhouse/contexts/chapter-operations/ballot-engine/application/commands"
	"chapterhouse/contexts/chapter-operations/ballot-engine/application/queries"
	"chapterhouse/contexts/chapter-operations/ballot-engine/domain/entities"
	domainerrors "chapterhouse/contexts/chapter-operations/ballot-engine/domain/errors"
	"chapterhouse/contexts/chapter-operations/ballot-engine/ports"
	httptransport "chapterhouse/contexts/chapter-operations/ballot-engine/transport/http"
)

type Handler struct {
	Meetings commands.MeetingUseCase
	Votes    commands.VoteUseCase
	Listings queries.MeetingListUseCase
	Ballots  queries.BallotUseCase
	Tallies  queries.TallyUseCase
	Results  queries.ResultsUseCase
	Logger   *slog.Logger
}

func (h Handler) ScheduleMeetingHandler(ctx context.Context, req httptransport.ScheduleMeetingRequest) (httptransport.MeetingResponse, error) {
	meetingDate, err := time.Parse(time.RFC3339, req.MeetingDate)
	if err != nil {
		return httptransport.MeetingResponse{}, domainerrors.ErrInvalidMeetingInput
	}
	meeting, err := h.Meetings.ScheduleMeeting(ctx, commands.ScheduleMeetingCommand{
		CycleID:     req.CycleID,
		Type:        entities.MeetingType(req.MeetingType),
		MeetingDate: meetingDate,
		Location:    req.Location,
		MeetingLink: req.MeetingLink,
		Agenda:      req.Agenda,
	})
	if err != nil {
		return httptransport.MeetingResponse{}, err
	}
	return mapMeeting(meeting), nil
}

func (h Handler) TransitionMeetingHandler(ctx context.Context, meetingID string, req httptransport.TransitionMeetingRequest) (httptransport.MeetingResponse, error) {
	meeting, err := h.Meetings.TransitionMeeting(ctx, commands.TransitionMeetingCommand{
		MeetingID: meetingID,
		Target:    entities.MeetingStatus(req.Status),
	})
	if err != nil {
		return httptransport.MeetingResponse{}, err
	}
	return mapMeeting(meeting), nil
}

func (h Handler) UpdateMeetingNotesHandler(ctx context.Context, meetingID string, req httptransport.UpdateMeetingNotesRequest) (httptransport.MeetingResponse, error) {
	meeting, err := h.Meetings.UpdateMeetingNotes(ctx, commands.UpdateMeetingNotesCommand{
		MeetingID: meetingID,
		Notes:     req.Notes,
	})
	if err != nil {
		return httptransport.MeetingResponse{}, err
	}
	return mapMeeting(meeting), nil
}

func (h Handler) ListMeetingsHandler(ctx context.Context, cycleID, meetingType, status string) (httptransport.MeetingListResponse, error) {
	meetings, err := h.Listings.ListMeetings(ctx, ports.MeetingFilter{
		CycleID: cycleID,
		Type:    entities.MeetingType(meetingType),
		Status:  entities.MeetingStatus(status),
	})
	if err != nil {
		return httptransport.MeetingListResponse{}, err
	}
	items := make([]httptransport.MeetingResponse, 0, len(meetings))
	for _, meeting := range meetings {
		items = append(items, mapMeeting(meeting))
	}
	return httptransport.MeetingListResponse{Items: items}, nil
}

func (h Handler) CastVoteHandler(ctx context.Context, meetingID, voterID string, req httptransport.CastVoteRequest) (httptransport.VoteResponse, error) {
	vote, err := h.Votes.CastVote(ctx, commands.CastVoteCommand{
		MeetingID: meetingID,
		VoterID:   voterID,
		NomineeID: req.NomineeID,
		Choice:    entities.VoteChoice(req.Choice),
		Comments:  req.Comments,
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return mapVote(vote), nil
}

func (h Handler) BuildBallotHandler(ctx context.Context, meetingID, voterID string) (httptransport.BallotResponse, error) {
	ballot, err := h.Ballots.BuildBallot(ctx, queries.BallotQuery{
		MeetingID: meetingID,
		VoterID:   voterID,
	})
	if err != nil {
		return httptransport.BallotResponse{}, err
	}
	entries := make([]httptransport.BallotEntryResponse, 0, len(ballot.Entries))
	for _, entry := range ballot.Entries {
		entries = append(entries, httptransport.BallotEntryResponse{
			NominationID:   entry.NominationID,
			PositionID:     entry.PositionID,
			PositionTitle:  entry.PositionTitle,
			HierarchyLevel: entry.HierarchyLevel,
			NomineeID:      entry.NomineeID,
			NomineeName:    entry.NomineeName,
			PriorChoice:    string(entry.PriorChoice),
			PriorComments:  entry.PriorComments,
			HasPriorVote:   entry.HasPriorVote,
		})
	}
	return httptransport.BallotResponse{
		Meeting: mapMeeting(ballot.Meeting),
		Entries: entries,
	}, nil
}

func (h Handler) MeetingResultsHandler(ctx context.Context, meetingID string) (httptransport.MeetingResultsResponse, error) {
	withResults, err := h.Tallies.GetMeetingWithResults(ctx, meetingID)
	if err != nil {
		return httptransport.MeetingResultsResponse{}, err
	}
	results := make([]httptransport.VoteResultResponse, 0, len(withResults.Results))
	for _, result := range withResults.Results {
		results = append(results, httptransport.VoteResultResponse{
			MeetingID:  result.MeetingID,
			PositionID: result.PositionID,
			NomineeID:  result.NomineeID,
			Yes:        result.Yes,
			No:         result.No,
			Abstain:    result.Abstain,
		})
	}
	return httptransport.MeetingResultsResponse{
		Meeting: mapMeeting(withResults.Meeting),
		Results: results,
	}, nil
}

func (h Handler) ProjectResultsHandler(ctx context.Context, cycleID, positionID string) (httptransport.SelectionOutcomeListResponse, error) {
	var outcomes []entities.SelectionOutcome
	if positionID != "" {
		outcome, err := h.Results.ProjectPositionResult(ctx, cycleID, positionID)
		if err != nil {
			return httptransport.SelectionOutcomeListResponse{}, err
		}
		outcomes = []entities.SelectionOutcome{outcome}
	} else {
		var err error
		outcomes, err = h.Results.ProjectResults(ctx, cycleID)
		if err != nil {
			return httptransport.SelectionOutcomeListResponse{}, err
		}
	}
	items := make([]httptransport.SelectionOutcomeResponse, 0, len(outcomes))
	for _, outcome := range outcomes {
		entries := make([]httptransport.OutcomeEntryResponse, 0, len(outcome.Entries))
		for _, entry := range outcome.Entries {
			entries = append(entries, httptransport.OutcomeEntryResponse{
				NomineeID:    entry.NomineeID,
				NominationID: entry.NominationID,
				YesVotes:     entry.YesVotes,
				Selected:     entry.Selected,
			})
		}
		items = append(items, httptransport.SelectionOutcomeResponse{
			CycleID:     outcome.CycleID,
			PositionID:  outcome.PositionID,
			Openings:    outcome.Openings,
			UnderFilled: outcome.UnderFilled,
			Entries:     entries,
		})
	}
	return httptransport.SelectionOutcomeListResponse{Items: items}, nil
}

func mapMeeting(meeting entities.Meeting) httptransport.MeetingResponse {
	return httptransport.MeetingResponse{
		MeetingID:   meeting.MeetingID,
		CycleID:     meeting.CycleID,
		MeetingType: string(meeting.Type),
		Status:      string(meeting.Status),
		MeetingDate: meeting.MeetingDate.Format(time.RFC3339),
		Location:    meeting.Location,
		MeetingLink: meeting.MeetingLink,
		Agenda:      meeting.Agenda,
		Notes:       meeting.Notes,
		CreatedAt:   meeting.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   meeting.UpdatedAt.Format(time.RFC3339),
	}
}

func mapVote(vote entities.Vote) httptransport.VoteResponse {
	return httptransport.VoteResponse{
		VoteID:     vote.VoteID,
		MeetingID:  vote.MeetingID,
		VoterID:    vote.VoterID,
		NomineeID:  vote.NomineeID,
		PositionID: vote.PositionID,
		Choice:     string(vote.Choice),
		Comments:   vote.Comments,
		CreatedAt:  vote.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  vote.UpdatedAt.Format(time.RFC3339),
	}
}

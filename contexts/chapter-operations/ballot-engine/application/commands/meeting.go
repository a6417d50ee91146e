package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "chapterhouse/contexts/chapter-operations/ballot-engine/application"
	"chapterhouse/contexts/chapter-operations/ballot-engine/domain/entities"
	domainerrors "chapterhouse/contexts/chapter-operations/ballot-engine/domain/errors"
	"chapterhouse/contexts/chapter-operations/ballot-engine/ports"
)

type ScheduleMeetingCommand struct {
	CycleID     string
	Type        entities.MeetingType
	MeetingDate time.Time
	Location    string
	MeetingLink string
	Agenda      string
}

type TransitionMeetingCommand struct {
	MeetingID string
	Target    entities.MeetingStatus
}

type UpdateMeetingNotesCommand struct {
	MeetingID string
	Notes     string
}

type MeetingUseCase struct {
	Meetings ports.MeetingRepository
	Cycles   ports.CycleReader
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

// ScheduleMeeting creates a meeting in scheduled status inside an active
// cycle. A meeting needs somewhere to happen: a physical location, a meeting
// link, or both.
func (uc MeetingUseCase) ScheduleMeeting(ctx context.Context, cmd ScheduleMeetingCommand) (entities.Meeting, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !cmd.Type.Valid() || cmd.MeetingDate.IsZero() {
		return entities.Meeting{}, domainerrors.ErrInvalidMeetingInput
	}
	location := strings.TrimSpace(cmd.Location)
	meetingLink := strings.TrimSpace(cmd.MeetingLink)
	if location == "" && meetingLink == "" {
		return entities.Meeting{}, domainerrors.ErrInvalidMeetingInput
	}

	cycle, err := uc.Cycles.GetCycle(ctx, strings.TrimSpace(cmd.CycleID))
	if err != nil {
		return entities.Meeting{}, err
	}
	if !strings.EqualFold(cycle.Status, "active") {
		return entities.Meeting{}, domainerrors.ErrCycleNotFound
	}

	now := uc.Clock.Now().UTC()
	meetingID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Meeting{}, err
	}
	meeting := entities.Meeting{
		MeetingID:   meetingID,
		CycleID:     cycle.CycleID,
		Type:        cmd.Type,
		Status:      entities.MeetingScheduled,
		MeetingDate: cmd.MeetingDate.UTC(),
		Location:    location,
		MeetingLink: meetingLink,
		Agenda:      strings.TrimSpace(cmd.Agenda),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.Meetings.SaveMeeting(ctx, meeting); err != nil {
		return entities.Meeting{}, err
	}
	logger.Info("meeting scheduled",
		"event", "meeting_scheduled",
		"module", "chapter-operations/ballot-engine",
		"layer", "application",
		"meeting_id", meeting.MeetingID,
		"cycle_id", meeting.CycleID,
		"meeting_type", string(meeting.Type),
	)
	return meeting, nil
}

// TransitionMeeting advances the meeting along its status lattice. The
// repository write is compare-and-set on the current status, so two racing
// transitions cannot both apply.
func (uc MeetingUseCase) TransitionMeeting(ctx context.Context, cmd TransitionMeetingCommand) (entities.Meeting, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !cmd.Target.Valid() {
		return entities.Meeting{}, domainerrors.ErrInvalidMeetingInput
	}
	meeting, err := uc.Meetings.GetMeeting(ctx, strings.TrimSpace(cmd.MeetingID))
	if err != nil {
		return entities.Meeting{}, err
	}
	if !meeting.Status.CanTransitionTo(cmd.Target) {
		return entities.Meeting{}, domainerrors.ErrInvalidMeetingTransition
	}

	now := uc.Clock.Now().UTC()
	moved, err := uc.Meetings.TransitionMeetingStatus(ctx, meeting.MeetingID, meeting.Status, cmd.Target, now)
	if err != nil {
		return entities.Meeting{}, err
	}
	if !moved {
		return entities.Meeting{}, domainerrors.ErrInvalidMeetingTransition
	}

	meeting.Status = cmd.Target
	meeting.UpdatedAt = now
	logger.Info("meeting transitioned",
		"event", "meeting_transitioned",
		"module", "chapter-operations/ballot-engine",
		"layer", "application",
		"meeting_id", meeting.MeetingID,
		"status", string(meeting.Status),
	)
	return meeting, nil
}

// UpdateMeetingNotes records minutes. Notes stay editable after completion;
// cancelled meetings keep whatever was written before cancellation.
func (uc MeetingUseCase) UpdateMeetingNotes(ctx context.Context, cmd UpdateMeetingNotesCommand) (entities.Meeting, error) {
	meeting, err := uc.Meetings.GetMeeting(ctx, strings.TrimSpace(cmd.MeetingID))
	if err != nil {
		return entities.Meeting{}, err
	}
	if meeting.Status == entities.MeetingCancelled {
		return entities.Meeting{}, domainerrors.ErrMeetingNotOpen
	}

	now := uc.Clock.Now().UTC()
	if err := uc.Meetings.UpdateMeetingNotes(ctx, meeting.MeetingID, cmd.Notes, now); err != nil {
		return entities.Meeting{}, err
	}
	meeting.Notes = cmd.Notes
	meeting.UpdatedAt = now
	return meeting, nil
}

package queries

import (
	"context"

	"chapterhouse/contexts/chapter-operations/ballot-engine/domain/entities"
	"chapterhouse/contexts/chapter-operations/ballot-engine/ports"
)

type MeetingListUseCase struct {
	Meetings ports.MeetingRepository
}

// ListMeetings returns meetings ordered by meeting date.
func (uc MeetingListUseCase) ListMeetings(ctx context.Context, filter ports.MeetingFilter) ([]entities.Meeting, error) {
	return uc.Meetings.ListMeetings(ctx, filter)
}

package queries

import (
	"context"
	"strings"

	"chapterhouse/contexts/chapter-operations/nomination-service/domain/entities"
	"chapterhouse/contexts/chapter-operations/nomination-service/ports"
)

type NominationListUseCase struct {
	Nominations ports.NominationRepository
}

func (uc NominationListUseCase) ListNominations(ctx context.Context, filter ports.NominationFilter) ([]entities.Nomination, error) {
	filter.CycleID = strings.TrimSpace(filter.CycleID)
	filter.PositionID = strings.TrimSpace(filter.PositionID)
	return uc.Nominations.ListNominations(ctx, filter)
}

// ListApproved is the ballot-building read: only approved rows, nothing else.
func (uc NominationListUseCase) ListApproved(ctx context.Context, cycleID string) ([]entities.Nomination, error) {
	return uc.Nominations.ListNominations(ctx, ports.NominationFilter{
		CycleID: strings.TrimSpace(cycleID),
		Status:  entities.NominationApproved,
	})
}

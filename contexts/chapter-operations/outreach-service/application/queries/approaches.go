package queries

import (
	"context"
	"strings"

	"chapterhouse/contexts/chapter-operations/outreach-service/domain/entities"
	"chapterhouse/contexts/chapter-operations/outreach-service/ports"
)

type ApproachListUseCase struct {
	Approaches ports.ApproachRepository
}

func (uc ApproachListUseCase) ListApproaches(ctx context.Context, filter ports.ApproachFilter) ([]entities.Approach, error) {
	filter.CycleID = strings.TrimSpace(filter.CycleID)
	filter.PositionID = strings.TrimSpace(filter.PositionID)
	return uc.Approaches.ListApproaches(ctx, filter)
}

// Stats computes acceptance-rate aggregates on read. Nothing here is stored;
// counters always match the underlying rows.
func (uc ApproachListUseCase) Stats(ctx context.Context, cycleID, positionID string) (entities.OutreachStats, error) {
	approaches, err := uc.Approaches.ListApproaches(ctx, ports.ApproachFilter{
		CycleID:    strings.TrimSpace(cycleID),
		PositionID: strings.TrimSpace(positionID),
	})
	if err != nil {
		return entities.OutreachStats{}, err
	}
	stats := entities.OutreachStats{Total: len(approaches)}
	for _, approach := range approaches {
		switch approach.Status {
		case entities.ResponsePending:
			stats.Pending++
		case entities.ResponseAccepted:
			stats.Accepted++
		case entities.ResponseDeclined:
			stats.Declined++
		case entities.ResponseConditional:
			stats.Conditional++
		}
	}
	if stats.Total > 0 {
		stats.AcceptanceRate = float64(stats.Accepted) / float64(stats.Total)
	}
	return stats, nil
}

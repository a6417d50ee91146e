package queries

import (
	"context"
	"sort"
	"strings"

	"chapterhouse/contexts/chapter-operations/ballot-engine/domain/entities"
	domainerrors "chapterhouse/contexts/chapter-operations/ballot-engine/domain/errors"
	"chapterhouse/contexts/chapter-operations/ballot-engine/ports"
)

type ResultsUseCase struct {
	Votes       ports.VoteRepository
	Cycles      ports.CycleReader
	Positions   ports.PositionReader
	Nominations ports.NominationReader
}

// ProjectResults derives the binding selection outcome for every position in
// a cycle. Only final_selection meeting votes count; advisory meetings never
// move the outcome. Per position, approved nominees rank by yes votes
// descending with earliest nomination submission breaking ties, and the top
// entries up to the position's openings are selected. A position with fewer
// approved nominees than openings is reported under-filled.
func (uc ResultsUseCase) ProjectResults(ctx context.Context, cycleID string) ([]entities.SelectionOutcome, error) {
	cycle, err := uc.Cycles.GetCycle(ctx, strings.TrimSpace(cycleID))
	if err != nil {
		return nil, err
	}

	positions, err := uc.Positions.ListPositionsByCycle(ctx, cycle.CycleID)
	if err != nil {
		return nil, err
	}
	nominations, err := uc.Nominations.ListApprovedNominations(ctx, cycle.CycleID)
	if err != nil {
		return nil, err
	}
	bindingVotes, err := uc.Votes.ListBindingVotes(ctx, cycle.CycleID)
	if err != nil {
		return nil, err
	}

	yesByNominee := make(map[string]int)
	for _, vote := range bindingVotes {
		if vote.Choice == entities.VoteYes {
			yesByNominee[vote.PositionID+"/"+vote.NomineeID]++
		}
	}

	nominationsByPosition := make(map[string][]ports.NominationProjection)
	for _, nomination := range nominations {
		nominationsByPosition[nomination.PositionID] = append(nominationsByPosition[nomination.PositionID], nomination)
	}

	sort.Slice(positions, func(i, j int) bool {
		if positions[i].HierarchyLevel != positions[j].HierarchyLevel {
			return positions[i].HierarchyLevel < positions[j].HierarchyLevel
		}
		return positions[i].Title < positions[j].Title
	})

	outcomes := make([]entities.SelectionOutcome, 0, len(positions))
	for _, position := range positions {
		candidates := nominationsByPosition[position.PositionID]
		entries := make([]entities.OutcomeEntry, 0, len(candidates))
		for _, nomination := range candidates {
			entries = append(entries, entities.OutcomeEntry{
				NomineeID:    nomination.NomineeID,
				NominationID: nomination.NominationID,
				YesVotes:     yesByNominee[position.PositionID+"/"+nomination.NomineeID],
				SubmittedAt:  nomination.SubmittedAt,
			})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].YesVotes != entries[j].YesVotes {
				return entries[i].YesVotes > entries[j].YesVotes
			}
			if !entries[i].SubmittedAt.Equal(entries[j].SubmittedAt) {
				return entries[i].SubmittedAt.Before(entries[j].SubmittedAt)
			}
			return entries[i].NominationID < entries[j].NominationID
		})
		for i := range entries {
			entries[i].Selected = i < position.Openings
		}
		outcomes = append(outcomes, entities.SelectionOutcome{
			CycleID:     cycle.CycleID,
			PositionID:  position.PositionID,
			Openings:    position.Openings,
			UnderFilled: len(entries) < position.Openings,
			Entries:     entries,
		})
	}
	return outcomes, nil
}

// ProjectPositionResult narrows the cycle projection to a single position.
func (uc ResultsUseCase) ProjectPositionResult(ctx context.Context, cycleID, positionID string) (entities.SelectionOutcome, error) {
	outcomes, err := uc.ProjectResults(ctx, cycleID)
	if err != nil {
		return entities.SelectionOutcome{}, err
	}
	positionID = strings.TrimSpace(positionID)
	for _, outcome := range outcomes {
		if outcome.PositionID == positionID {
			return outcome, nil
		}
	}
	return entities.SelectionOutcome{}, domainerrors.ErrPositionNotFound
}

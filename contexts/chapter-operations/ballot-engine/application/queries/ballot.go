package queries

import (
	"context"
	"sort"
	"strings"

	"chapterhouse/contexts/chapter-operations/ballot-engine/domain/entities"
	domainerrors "chapterhouse/contexts/chapter-operations/ballot-engine/domain/errors"
	"chapterhouse/contexts/chapter-operations/ballot-engine/ports"
)

type BallotQuery struct {
	MeetingID string
	VoterID   string
}

type Ballot struct {
	Meeting entities.Meeting
	Entries []entities.BallotEntry
}

type BallotUseCase struct {
	Meetings    ports.MeetingRepository
	Votes       ports.VoteRepository
	Positions   ports.PositionReader
	Nominations ports.NominationReader
	Candidates  ports.CandidateDirectory
}

// BuildBallot assembles the votable entries for one meeting: every approved
// nomination in the meeting's cycle, annotated with the caller's prior vote.
// Entries come back ordered by position hierarchy, then nominee name, so the
// ballot renders the same way for every committee member.
func (uc BallotUseCase) BuildBallot(ctx context.Context, query BallotQuery) (Ballot, error) {
	meeting, err := uc.Meetings.GetMeeting(ctx, strings.TrimSpace(query.MeetingID))
	if err != nil {
		return Ballot{}, err
	}

	nominations, err := uc.Nominations.ListApprovedNominations(ctx, meeting.CycleID)
	if err != nil {
		return Ballot{}, err
	}
	positions, err := uc.Positions.ListPositionsByCycle(ctx, meeting.CycleID)
	if err != nil {
		return Ballot{}, err
	}
	positionsByID := make(map[string]ports.PositionProjection, len(positions))
	for _, position := range positions {
		positionsByID[position.PositionID] = position
	}

	priorByNominee := make(map[string]entities.Vote)
	voterID := strings.TrimSpace(query.VoterID)
	if voterID != "" {
		priorVotes, err := uc.Votes.ListVotesByVoter(ctx, meeting.MeetingID, voterID)
		if err != nil {
			return Ballot{}, err
		}
		for _, vote := range priorVotes {
			priorByNominee[vote.NomineeID] = vote
		}
	}

	entries := make([]entities.BallotEntry, 0, len(nominations))
	for _, nomination := range nominations {
		position, ok := positionsByID[nomination.PositionID]
		if !ok {
			return Ballot{}, domainerrors.ErrPositionNotFound
		}
		entry := entities.BallotEntry{
			NominationID:   nomination.NominationID,
			PositionID:     nomination.PositionID,
			PositionTitle:  position.Title,
			HierarchyLevel: position.HierarchyLevel,
			NomineeID:      nomination.NomineeID,
			NomineeName:    uc.displayName(ctx, nomination.NomineeID),
		}
		if prior, ok := priorByNominee[nomination.NomineeID]; ok {
			entry.PriorChoice = prior.Choice
			entry.PriorComments = prior.Comments
			entry.HasPriorVote = true
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].HierarchyLevel != entries[j].HierarchyLevel {
			return entries[i].HierarchyLevel < entries[j].HierarchyLevel
		}
		if entries[i].NomineeName != entries[j].NomineeName {
			return entries[i].NomineeName < entries[j].NomineeName
		}
		return entries[i].NominationID < entries[j].NominationID
	})

	return Ballot{Meeting: meeting, Entries: entries}, nil
}

// displayName is composition-only: an unknown or unreachable directory entry
// degrades to the raw identifier and never fails the ballot.
func (uc BallotUseCase) displayName(ctx context.Context, candidateID string) string {
	if uc.Candidates == nil {
		return candidateID
	}
	summary, found, err := uc.Candidates.GetCandidateSummary(ctx, candidateID)
	if err != nil || !found || strings.TrimSpace(summary.Name) == "" {
		return candidateID
	}
	return summary.Name
}

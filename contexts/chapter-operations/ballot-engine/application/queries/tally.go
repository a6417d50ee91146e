package queries

import (
	"context"
	"sort"
	"strings"

	"chapterhouse/contexts/chapter-operations/ballot-engine/domain/entities"
	"chapterhouse/contexts/chapter-operations/ballot-engine/ports"
)

type MeetingWithResults struct {
	Meeting entities.Meeting
	Results []entities.VoteResult
}

type TallyUseCase struct {
	Meetings ports.MeetingRepository
	Votes    ports.VoteRepository
}

// Tally aggregates a meeting's votes per (position, nominee). It reads the
// current vote rows and counts, so re-running it after more ballots arrive
// just reflects the newer state; nothing is stored.
func (uc TallyUseCase) Tally(ctx context.Context, meetingID string) ([]entities.VoteResult, error) {
	meeting, err := uc.Meetings.GetMeeting(ctx, strings.TrimSpace(meetingID))
	if err != nil {
		return nil, err
	}
	votes, err := uc.Votes.ListVotesByMeeting(ctx, meeting.MeetingID)
	if err != nil {
		return nil, err
	}
	return tallyVotes(meeting.MeetingID, votes), nil
}

// GetMeetingWithResults returns the meeting alongside its current tally.
func (uc TallyUseCase) GetMeetingWithResults(ctx context.Context, meetingID string) (MeetingWithResults, error) {
	meeting, err := uc.Meetings.GetMeeting(ctx, strings.TrimSpace(meetingID))
	if err != nil {
		return MeetingWithResults{}, err
	}
	votes, err := uc.Votes.ListVotesByMeeting(ctx, meeting.MeetingID)
	if err != nil {
		return MeetingWithResults{}, err
	}
	return MeetingWithResults{
		Meeting: meeting,
		Results: tallyVotes(meeting.MeetingID, votes),
	}, nil
}

func tallyVotes(meetingID string, votes []entities.Vote) []entities.VoteResult {
	type key struct {
		positionID string
		nomineeID  string
	}
	counts := make(map[key]*entities.VoteResult)
	order := make([]key, 0)
	for _, vote := range votes {
		k := key{positionID: vote.PositionID, nomineeID: vote.NomineeID}
		result, ok := counts[k]
		if !ok {
			result = &entities.VoteResult{
				MeetingID:  meetingID,
				PositionID: vote.PositionID,
				NomineeID:  vote.NomineeID,
			}
			counts[k] = result
			order = append(order, k)
		}
		switch vote.Choice {
		case entities.VoteYes:
			result.Yes++
		case entities.VoteNo:
			result.No++
		case entities.VoteAbstain:
			result.Abstain++
		}
	}

	results := make([]entities.VoteResult, 0, len(order))
	for _, k := range order {
		results = append(results, *counts[k])
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].PositionID != results[j].PositionID {
			return results[i].PositionID < results[j].PositionID
		}
		return results[i].NomineeID < results[j].NomineeID
	})
	return results
}

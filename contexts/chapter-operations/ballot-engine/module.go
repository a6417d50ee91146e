package ballotengine

import (
	"log/slog"

	httpadapter "chapterhouse/contexts/chapter-operations/ballot-engine/adapters/http"
	"chapterhouse/contexts/chapter-operations/ballot-engine/adapters/memory"
	"chapterhouse/contexts/chapter-operations/ballot-engine/application/commands"
	"chapterhouse/contexts/chapter-operations/ballot-engine/application/queries"
	"chapterhouse/contexts/chapter-operations/ballot-engine/application/workers"
	"chapterhouse/contexts/chapter-operations/ballot-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Relay   workers.OutboxRelay
	Store   *memory.Store
}

type Dependencies struct {
	Meetings    ports.MeetingRepository
	Votes       ports.VoteRepository
	Cycles      ports.CycleReader
	Positions   ports.PositionReader
	Nominations ports.NominationReader
	Candidates  ports.CandidateDirectory
	Outbox      ports.OutboxWriter
	OutboxRelay ports.OutboxRepository
	Publisher   ports.EventPublisher
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	BatchSize   int
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	meetingUseCase := commands.MeetingUseCase{
		Meetings: deps.Meetings,
		Cycles:   deps.Cycles,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		Logger:   deps.Logger,
	}
	voteUseCase := commands.VoteUseCase{
		Meetings:    deps.Meetings,
		Votes:       deps.Votes,
		Cycles:      deps.Cycles,
		Nominations: deps.Nominations,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGen:       deps.IDGen,
		Logger:      deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Meetings: meetingUseCase,
			Votes:    voteUseCase,
			Listings: queries.MeetingListUseCase{Meetings: deps.Meetings},
			Ballots: queries.BallotUseCase{
				Meetings:    deps.Meetings,
				Votes:       deps.Votes,
				Positions:   deps.Positions,
				Nominations: deps.Nominations,
				Candidates:  deps.Candidates,
			},
			Tallies: queries.TallyUseCase{
				Meetings: deps.Meetings,
				Votes:    deps.Votes,
			},
			Results: queries.ResultsUseCase{
				Votes:       deps.Votes,
				Cycles:      deps.Cycles,
				Positions:   deps.Positions,
				Nominations: deps.Nominations,
			},
			Logger: deps.Logger,
		},
		Relay: workers.OutboxRelay{
			Outbox:    deps.OutboxRelay,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			BatchSize: deps.BatchSize,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger, publisher ports.EventPublisher) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Meetings:    store,
		Votes:       store,
		Cycles:      store,
		Positions:   store,
		Nominations: store,
		Candidates:  store,
		Outbox:      store,
		OutboxRelay: store,
		Publisher:   publisher,
		Clock:       store,
		IDGen:       store,
		Logger:      logger,
	})
	module.Store = store
	return module
}

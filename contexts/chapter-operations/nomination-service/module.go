package nominationservice

import (
	"log/slog"

	httpadapter "chapterhouse/contexts/chapter-operations/nomination-service/adapters/http"
	"chapterhouse/contexts/chapter-operations/nomination-service/adapters/memory"
	"chapterhouse/contexts/chapter-operations/nomination-service/application/commands"
	"chapterhouse/contexts/chapter-operations/nomination-service/application/queries"
	"chapterhouse/contexts/chapter-operations/nomination-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Nominations ports.NominationRepository
	Cycles      ports.CycleReader
	Positions   ports.PositionReader
	Approaches  ports.ApproachReader
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	nominationUseCase := commands.NominationUseCase{
		Nominations: deps.Nominations,
		Cycles:      deps.Cycles,
		Positions:   deps.Positions,
		Approaches:  deps.Approaches,
		Clock:       deps.Clock,
		IDGen:       deps.IDGen,
		Logger:      deps.Logger,
	}
	listUseCase := queries.NominationListUseCase{
		Nominations: deps.Nominations,
	}
	return Module{
		Handler: httpadapter.Handler{
			Nominations: nominationUseCase,
			Listings:    listUseCase,
			Logger:      deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Nominations: store,
		Cycles:      store,
		Positions:   store,
		Approaches:  store,
		Clock:       store,
		IDGen:       store,
		Logger:      logger,
	})
	module.Store = store
	return module
}

package successionservice

import (
	"log/slog"

	httpadapter "chapterhouse/contexts/chapter-operations/succession-service/adapters/http"
	"chapterhouse/contexts/chapter-operations/succession-service/adapters/memory"
	"chapterhouse/contexts/chapter-operations/succession-service/application/commands"
	"chapterhouse/contexts/chapter-operations/succession-service/application/queries"
	"chapterhouse/contexts/chapter-operations/succession-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Cycles    ports.CycleRepository
	Positions ports.PositionRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	cycleUseCase := commands.CycleUseCase{
		Cycles: deps.Cycles,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	positionUseCase := commands.PositionUseCase{
		Cycles:    deps.Cycles,
		Positions: deps.Positions,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	catalogUseCase := queries.CatalogUseCase{
		Cycles:    deps.Cycles,
		Positions: deps.Positions,
	}
	return Module{
		Handler: httpadapter.Handler{
			Cycles:    cycleUseCase,
			Positions: positionUseCase,
			Catalog:   catalogUseCase,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Cycles:    store,
		Positions: store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}

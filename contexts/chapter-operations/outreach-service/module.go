package outreachservice

import (
	"log/slog"

	httpadapter "chapterhouse/contexts/chapter-operations/outreach-service/adapters/http"
	"chapterhouse/contexts/chapter-operations/outreach-service/adapters/memory"
	"chapterhouse/contexts/chapter-operations/outreach-service/application/commands"
	"chapterhouse/contexts/chapter-operations/outreach-service/application/queries"
	"chapterhouse/contexts/chapter-operations/outreach-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Approaches ports.ApproachRepository
	Cycles     ports.CycleReader
	Positions  ports.PositionReader
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	approachUseCase := commands.ApproachUseCase{
		Approaches: deps.Approaches,
		Cycles:     deps.Cycles,
		Positions:  deps.Positions,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	listUseCase := queries.ApproachListUseCase{
		Approaches: deps.Approaches,
	}
	return Module{
		Handler: httpadapter.Handler{
			Approaches: approachUseCase,
			Listings:   listUseCase,
			Logger:     deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Approaches: store,
		Cycles:     store,
		Positions:  store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}

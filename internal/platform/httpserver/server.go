package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	ballotengine "chapterhouse/contexts/chapter-operations/ballot-engine"
	nominationservice "chapterhouse/contexts/chapter-operations/nomination-service"
	outreachservice "chapterhouse/contexts/chapter-operations/outreach-service"
	successionservice "chapterhouse/contexts/chapter-operations/succession-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "chapterhouse/internal/platform/httpserver/docs"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	addr        string
	succession  successionservice.Module
	outreach    outreachservice.Module
	nominations nominationservice.Module
	ballot      ballotengine.Module
}

func New(
	succession successionservice.Module,
	outreach outreachservice.Module,
	nominations nominationservice.Module,
	ballot ballotengine.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		addr:        addr,
		succession:  succession,
		outreach:    outreach,
		nominations: nominations,
		ballot:      ballot,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.registerSuccessionRoutes()
	s.registerOutreachRoutes()
	s.registerNominationRoutes()
	s.registerBallotRoutes()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// resolveUserID extracts the acting member from the gateway-injected header.
func resolveUserID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-User-Id"))
}

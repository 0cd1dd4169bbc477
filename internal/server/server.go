package server

import (
	"log/slog"
	"net/http"

	"agent-console/internal/handlers"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.Handler
}

func NewServer(deps handlers.APIDeps, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(deps, logger),
		sseHandlers: handlers.NewSSEHandlers(deps.Insights, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.Handle("GET /{$}", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /insights", s.apiHandlers.HandleInsights)
	s.mux.HandleFunc("GET /api/insights", s.apiHandlers.HandleInsights)
	s.mux.HandleFunc("GET /api/health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /api/datasets", s.apiHandlers.HandleDatasets)
	s.mux.HandleFunc("GET /api/products", s.apiHandlers.HandleProducts)
	s.mux.HandleFunc("GET /api/vehicles", s.apiHandlers.HandleVehicles)
	s.mux.HandleFunc("POST /api/recommend", s.apiHandlers.HandleRecommend)
	s.mux.HandleFunc("POST /api/chat", s.apiHandlers.HandleChat)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/insights", s.sseHandlers.HandleInsights)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

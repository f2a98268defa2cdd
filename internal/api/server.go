package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/MihaKr/ljubljana-transit/internal/config"
	"github.com/MihaKr/ljubljana-transit/internal/webhook"
)

// Server represents the API server
type Server struct {
	cfg        config.ServerConfig
	fetcher    webhook.Fetcher
	dispatcher *webhook.Dispatcher
}

// NewServer creates a new API server backed by fetcher
func NewServer(cfg config.ServerConfig, fetcher webhook.Fetcher) *Server {
	return &Server{
		cfg:        cfg,
		fetcher:    fetcher,
		dispatcher: webhook.NewDispatcher(fetcher),
	}
}

// Router creates and returns the HTTP router
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleIndex).Methods("GET")
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc(s.cfg.WebhookPath, s.handleWebhook).Methods("POST")
	r.HandleFunc("/itineraries", s.handleItineraries).Methods("GET")

	r.Use(requestIDMiddleware, accessLogMiddleware, recoveryMiddleware)

	return s.corsHandler().Handler(r)
}

func (s *Server) corsHandler() *cors.Cors {
	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			requestIDHeader,
		},
		ExposedHeaders: []string{requestIDHeader},
	})
}

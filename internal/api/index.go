package api

import (
	"net/http"
	"time"
)

// handleIndex handles the index route
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	response := Response{
		Data: map[string]interface{}{
			"version": "1.0.0",
			"name":    "Ljubljana Transit Webhook",
			"time":    time.Now().Format(time.RFC3339),
		},
		Links: map[string]string{
			"webhook":     s.cfg.WebhookPath,
			"itineraries": "/itineraries",
			"health":      "/health",
		},
	}

	s.sendResponse(w, response)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

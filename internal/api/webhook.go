package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/MihaKr/ljubljana-transit/internal/routeerr"
	"github.com/MihaKr/ljubljana-transit/internal/webhook"
)

// maxWebhookBody bounds the size of an agent request
const maxWebhookBody = 1 << 20

// handleWebhook handles the agent fulfilment endpoint
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	reqID := RequestID(r.Context())

	var req webhook.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWebhookBody)).Decode(&req); err != nil {
		log.Printf("[%s] webhook: malformed request body: %v", reqID, err)
		writeJSON(w, routeerr.Unknown.Status(), webhook.NewResponse(routeerr.Unknown.Message()))
		return
	}

	intent := req.QueryResult.Intent.DisplayName
	log.Printf("[%s] webhook: intent %q", reqID, intent)

	reply := s.dispatcher.Dispatch(r.Context(), &req)
	if reply.Err != nil {
		log.Printf("[%s] webhook: intent %q failed with %s: %v", reqID, intent, reply.Kind, reply.Err)
	}

	writeJSON(w, reply.Status, webhook.NewResponse(reply.Text))
}

package handler

import (
	"encoding/json"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/service"

	"github.com/rs/zerolog"
)

type WebhookHandler struct {
	receiptService service.ReceiptService
	logger         zerolog.Logger
}

func NewWebhookHandler(receiptService service.ReceiptService, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		receiptService: receiptService,
		logger:         logger.With().Str("handler", "WebhookHandler").Logger(),
	}
}

// RegisterRoutes mounts v1 webhook routes
func (h *WebhookHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/webhook", http.HandlerFunc(h.handleInbound))
	mux.Handle("/healthz", http.HandlerFunc(h.health))
}

// handleInbound acknowledges every structurally parseable event with 204.
// Malformed or incomplete payloads are logged and dropped, never rejected;
// the boundary contract is "acknowledge receipt", not "report success".
func (h *WebhookHandler) handleInbound(w http.ResponseWriter, r *http.Request) {
	// 1. Check method
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	// 2. Decode the event envelope
	var event dto.WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		h.logger.Warn().Err(err).Msg("Event envelope was not valid JSON")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if event.Body == nil {
		h.logger.Warn().Msg("Did not find expected key 'body' in webhook event")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// 3. Decode the email payload carried in the envelope body
	var payload dto.EmailPayload
	if err := json.Unmarshal([]byte(*event.Body), &payload); err != nil {
		h.logger.Warn().Err(err).Msg("Body was not valid JSON")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if payload.HTMLBody == nil {
		h.logger.Warn().Msg("Did not find expected key 'HtmlBody' in JSON body")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// 4. Run the vendor pipeline, then acknowledge regardless of its outcome
	h.receiptService.ProcessInbound(r.Context(), &payload)

	w.WriteHeader(http.StatusNoContent)
}

func (h *WebhookHandler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

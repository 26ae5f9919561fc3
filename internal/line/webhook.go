package line

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"golang.org/x/sync/errgroup"
)

// EventHandler is called once per webhook event. Errors are collected but do
// not stop sibling events from being handled.
type EventHandler func(ctx context.Context, event Event) error

// WebhookHandler validates inbound webhook calls and fans their events out to
// the event handler.
type WebhookHandler struct {
	channelSecret string
	onEvent       EventHandler
}

func NewWebhookHandler(channelSecret string, onEvent EventHandler) *WebhookHandler {
	return &WebhookHandler{
		channelSecret: channelSecret,
		onEvent:       onEvent,
	}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		// Health probe; LINE itself only ever POSTs.
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	case http.MethodPost:
		h.handleIncoming(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *WebhookHandler) handleIncoming(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("webhook: reading body: %v", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if !ValidateSignature(body, r.Header.Get("x-line-signature"), h.channelSecret) {
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("webhook: failed to decode payload: %v", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	// Events in one delivery are independent; handle them in parallel and
	// answer only after every reply has been attempted.
	var g errgroup.Group
	for _, event := range payload.Events {
		event := event
		g.Go(func() error {
			return h.onEvent(r.Context(), event)
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("webhook: event handling: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"ok":true}`))
}

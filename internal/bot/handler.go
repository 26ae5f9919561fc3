package bot

import (
	"context"
	"fmt"
	"log"

	"github.com/saltnbase/okami/internal/line"
)

// Sender delivers resolved messages back to the platform.
type Sender interface {
	Reply(ctx context.Context, replyToken string, messages []line.Message) error
}

// Handler runs the resolve-then-reply pipeline for one webhook event.
type Handler struct {
	sender   Sender
	resolver *Resolver
}

func NewHandler(sender Sender, resolver *Resolver) *Handler {
	return &Handler{sender: sender, resolver: resolver}
}

// HandleEvent resolves the event and sends the reply. Events that resolved
// to nothing, or that carry no reply token, are acknowledged silently.
func (h *Handler) HandleEvent(ctx context.Context, ev line.Event) error {
	messages := h.resolver.Resolve(ctx, ev)
	if len(messages) == 0 || ev.ReplyToken == "" {
		return nil
	}

	if err := h.sender.Reply(ctx, ev.ReplyToken, messages); err != nil {
		log.Printf("bot: reply failed: %v", err)
		return fmt.Errorf("replying to %s event: %w", ev.Type, err)
	}
	return nil
}

package bot

import (
	"context"
	"strings"

	"github.com/saltnbase/okami/internal/line"
	"github.com/saltnbase/okami/internal/store"
)

// Store serves the current business-data snapshot.
type Store interface {
	Get(ctx context.Context) store.Snapshot
	Reload(ctx context.Context) store.Snapshot
}

// Fallback produces a best-effort answer when no rule matched. A nil result
// means it had nothing to offer.
type Fallback interface {
	Answer(ctx context.Context, userText string, snap store.Snapshot) []line.Message
}

// Resolver turns one inbound event into zero or more outbound messages.
// Rules are evaluated in a fixed order and the first match wins.
type Resolver struct {
	store    Store
	fallback Fallback
}

func NewResolver(s Store, f Fallback) *Resolver {
	return &Resolver{store: s, fallback: f}
}

func (r *Resolver) Resolve(ctx context.Context, ev line.Event) []line.Message {
	if ev.Type == "follow" {
		return welcomeMessages()
	}
	if ev.Type != "message" || ev.Message == nil || ev.Message.Type != "text" {
		return nil
	}

	text := strings.TrimSpace(ev.Message.Text)
	if text == "" {
		return clarificationMessages(text)
	}

	if text == "リロード" {
		snap := r.store.Reload(ctx)
		return withDefaultQuickReply([]line.Message{
			line.NewText("店舗情報を再読み込みしました。（取得元: " + string(snap.Source) + "）"),
		})
	}

	if strings.EqualFold(text, "ping") {
		return withDefaultQuickReply([]line.Message{line.NewText("pong")})
	}

	snap := r.store.Get(ctx)

	if msgs := keywordMessages(text, snap); msgs != nil {
		return msgs
	}

	if answer := findFAQ(text, snap.FAQ); answer != "" {
		return withDefaultQuickReply([]line.Message{line.NewText(answer)})
	}

	if r.fallback != nil {
		if msgs := r.fallback.Answer(ctx, text, snap); len(msgs) > 0 {
			return withDefaultQuickReply(msgs)
		}
	}

	return clarificationMessages(text)
}

// findFAQ prefers an exact question match, then the first entry where either
// string contains the other. List order decides ties; there is no similarity
// scoring.
func findFAQ(text string, faq []store.FAQEntry) string {
	if text == "" {
		return ""
	}
	for _, f := range faq {
		if f.Q == text {
			return f.A
		}
	}
	for _, f := range faq {
		if f.Q == "" {
			continue
		}
		if strings.Contains(text, f.Q) || strings.Contains(f.Q, text) {
			return f.A
		}
	}
	return ""
}

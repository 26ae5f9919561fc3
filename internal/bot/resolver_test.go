package bot

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltnbase/okami/internal/line"
	"github.com/saltnbase/okami/internal/store"
)

type fakeStore struct {
	snap    store.Snapshot
	gets    int
	reloads int
}

func (f *fakeStore) Get(ctx context.Context) store.Snapshot {
	f.gets++
	return f.snap
}

func (f *fakeStore) Reload(ctx context.Context) store.Snapshot {
	f.reloads++
	return f.snap
}

type fakeFallback struct {
	answer []line.Message
	called bool
	text   string
}

func (f *fakeFallback) Answer(ctx context.Context, userText string, snap store.Snapshot) []line.Message {
	f.called = true
	f.text = userText
	return f.answer
}

func textEvent(text string) line.Event {
	return line.Event{
		Type:       "message",
		ReplyToken: "tok",
		Message:    &line.EventMessage{ID: "1", Type: "text", Text: text},
	}
}

func resolveWith(t *testing.T, snap store.Snapshot, text string) []line.Message {
	t.Helper()
	r := NewResolver(&fakeStore{snap: snap}, nil)
	return r.Resolve(context.Background(), textEvent(text))
}

func TestResolveFollow(t *testing.T) {
	// The welcome must not depend on store content at all.
	for _, snap := range []store.Snapshot{store.Empty(), {Hours: "10-18"}} {
		r := NewResolver(&fakeStore{snap: snap}, nil)
		msgs := r.Resolve(context.Background(), line.Event{Type: "follow", ReplyToken: "tok"})

		require.NotEmpty(t, msgs)
		assert.Contains(t, msgs[0].Text, "友だち追加ありがとうございます")
		last := msgs[len(msgs)-1]
		require.NotNil(t, last.QuickReply)
		labels := quickReplyLabels(last.QuickReply)
		assert.Contains(t, labels, "ご予約")
		assert.Contains(t, labels, "メニュー")
		assert.Contains(t, labels, "キャンペーン")
		assert.Contains(t, labels, "アクセス")
	}
}

func TestResolveIgnoresNonTextEvents(t *testing.T) {
	r := NewResolver(&fakeStore{}, nil)

	tests := []line.Event{
		{Type: "unfollow"},
		{Type: "message", Message: &line.EventMessage{Type: "sticker"}},
		{Type: "message", Message: &line.EventMessage{Type: "image"}},
		{Type: "message"}, // no message body at all
		{Type: "postback"},
	}
	for _, ev := range tests {
		assert.Empty(t, r.Resolve(context.Background(), ev), "event %+v", ev)
	}
}

func TestResolvePing(t *testing.T) {
	// Exact command beats FAQ and fallback, case-insensitively.
	snap := store.Snapshot{FAQ: []store.FAQEntry{{Q: "ping", A: "FAQ側の回答"}}}
	fb := &fakeFallback{answer: []line.Message{line.NewText("AI側の回答")}}
	r := NewResolver(&fakeStore{snap: snap}, fb)

	for _, input := range []string{"ping", "Ping", "PING", "  ping  "} {
		msgs := r.Resolve(context.Background(), textEvent(input))
		require.Len(t, msgs, 1, "input %q", input)
		assert.Equal(t, "pong", msgs[0].Text)
		assert.NotNil(t, msgs[0].QuickReply)
	}
	assert.False(t, fb.called)
}

func TestResolveReload(t *testing.T) {
	fs := &fakeStore{snap: store.Snapshot{Source: store.SourceSheets}}
	r := NewResolver(fs, nil)

	msgs := r.Resolve(context.Background(), textEvent("リロード"))
	assert.Equal(t, 1, fs.reloads)
	assert.Equal(t, 0, fs.gets)
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[0].Text, "再読み込み")
	assert.Contains(t, msgs[0].Text, "sheets")
}

func TestResolveHoursKeyword(t *testing.T) {
	msgs := resolveWith(t, store.Snapshot{Hours: "11:00〜22:00"}, "営業時間を教えて")
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "11:00〜22:00")
	assert.NotNil(t, msgs[0].QuickReply)
}

func TestResolveHoursUnset(t *testing.T) {
	msgs := resolveWith(t, store.Empty(), "営業時間")
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "未設定")
}

func TestResolveAccessKeyword(t *testing.T) {
	snap := store.Snapshot{Address: "渋谷区1-2-3", MapURL: "https://maps.example.com/x"}
	for _, input := range []string{"アクセス", "住所を教えて", "お店の場所は？"} {
		msgs := resolveWith(t, snap, input)
		require.Len(t, msgs, 1, "input %q", input)
		assert.Contains(t, msgs[0].Text, "渋谷区1-2-3")
		assert.Contains(t, msgs[0].Text, "https://maps.example.com/x")
	}
}

func TestResolveReservationWithBookingURL(t *testing.T) {
	msgs := resolveWith(t, store.Snapshot{BookingURL: "https://booking.example.com/x"}, "予約したい")
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "https://booking.example.com/x")

	require.NotNil(t, msgs[0].QuickReply)
	var uri string
	for _, item := range msgs[0].QuickReply.Items {
		if item.Action.Type == "uri" {
			uri = item.Action.URI
		}
	}
	assert.Equal(t, "https://booking.example.com/x", uri)
}

func TestResolveReservationWithoutBookingURL(t *testing.T) {
	msgs := resolveWith(t, store.Empty(), "予約")
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "お電話")
	require.NotNil(t, msgs[0].QuickReply)
	for _, item := range msgs[0].QuickReply.Items {
		assert.NotEqual(t, "uri", item.Action.Type)
	}
}

func TestResolveMenuTruncation(t *testing.T) {
	var items []store.MenuItem
	for i := 0; i < 15; i++ {
		items = append(items, store.MenuItem{Name: fmt.Sprintf("品目%d", i)})
	}
	msgs := resolveWith(t, store.Snapshot{Menu: items}, "メニュー")
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "品目9")
	assert.NotContains(t, msgs[0].Text, "品目10")
}

func TestResolveCampaignTruncation(t *testing.T) {
	var campaigns []store.Campaign
	for i := 0; i < 5; i++ {
		campaigns = append(campaigns, store.Campaign{Title: fmt.Sprintf("企画%d", i)})
	}
	msgs := resolveWith(t, store.Snapshot{Campaigns: campaigns}, "キャンペーンある？")
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "企画2")
	assert.NotContains(t, msgs[0].Text, "企画3")
}

func TestResolveFAQ(t *testing.T) {
	snap := store.Snapshot{FAQ: []store.FAQEntry{
		{Q: "定休日", A: "月曜"},
		{Q: "日", A: "順番の後ろなので先勝ちしない"},
	}}

	tests := []struct {
		name, input, want string
	}{
		{"exact match", "定休日", "月曜"},
		{"input is superstring", "定休日は？", "月曜"},
		{"input is substring", "定休", "月曜"},
		{"list order wins", "定休日について", "月曜"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := resolveWith(t, snap, tt.input)
			require.Len(t, msgs, 1)
			assert.Equal(t, tt.want, msgs[0].Text)
			assert.NotNil(t, msgs[0].QuickReply)
		})
	}
}

func TestResolveFAQExactBeatsPartial(t *testing.T) {
	snap := store.Snapshot{FAQ: []store.FAQEntry{
		{Q: "ラストオーダーは", A: "部分一致の回答"},
		{Q: "ラストオーダーは何時", A: "完全一致の回答"},
	}}
	msgs := resolveWith(t, snap, "ラストオーダーは何時")
	require.Len(t, msgs, 1)
	assert.Equal(t, "完全一致の回答", msgs[0].Text)
}

func TestResolveFallbackUsedWhenNoRuleMatches(t *testing.T) {
	fb := &fakeFallback{answer: []line.Message{line.NewText("AIの回答です。")}}
	r := NewResolver(&fakeStore{}, fb)

	msgs := r.Resolve(context.Background(), textEvent("おすすめはありますか"))
	require.Len(t, msgs, 1)
	assert.Equal(t, "AIの回答です。", msgs[0].Text)
	assert.NotNil(t, msgs[0].QuickReply, "fallback answers still carry the default menu")
	assert.Equal(t, "おすすめはありますか", fb.text)
}

func TestResolveFallbackNotCalledWhenRuleMatches(t *testing.T) {
	fb := &fakeFallback{answer: []line.Message{line.NewText("呼ばれないはず")}}
	snap := store.Snapshot{FAQ: []store.FAQEntry{{Q: "定休日", A: "月曜"}}}
	r := NewResolver(&fakeStore{snap: snap}, fb)

	r.Resolve(context.Background(), textEvent("定休日"))
	assert.False(t, fb.called)
}

func TestResolveDefaultClarification(t *testing.T) {
	tests := []struct {
		name     string
		fallback Fallback
	}{
		{"no fallback configured", nil},
		{"fallback returns nothing", &fakeFallback{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(&fakeStore{}, tt.fallback)
			msgs := r.Resolve(context.Background(), textEvent("まったく関係ない話"))

			require.Len(t, msgs, 2)
			assert.Contains(t, msgs[0].Text, "「まったく関係ない話」")
			assert.NotNil(t, msgs[1].QuickReply)
		})
	}
}

func TestResolveEmptyTextStillAnswers(t *testing.T) {
	fb := &fakeFallback{answer: []line.Message{line.NewText("x")}}
	r := NewResolver(&fakeStore{snap: store.Snapshot{FAQ: []store.FAQEntry{{Q: "短", A: "a"}}}}, fb)

	msgs := r.Resolve(context.Background(), textEvent("   "))
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0].Text, "「」")
	assert.False(t, fb.called, "empty input goes straight to clarification")
}

func quickReplyLabels(qr *line.QuickReply) []string {
	labels := make([]string, 0, len(qr.Items))
	for _, item := range qr.Items {
		labels = append(labels, item.Action.Label)
	}
	return labels
}

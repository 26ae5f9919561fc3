package bot

import (
	"fmt"
	"strings"

	"github.com/saltnbase/okami/internal/line"
	"github.com/saltnbase/okami/internal/store"
)

// Listing caps keep single messages within a comfortable size.
const (
	maxMenuItems = 10
	maxCampaigns = 3
)

func defaultQuickReply() *line.QuickReply {
	return line.NewQuickReply(
		line.MessageAction("営業時間", "営業時間"),
		line.MessageAction("アクセス", "アクセス"),
		line.MessageAction("ご予約", "予約"),
		line.MessageAction("メニュー", "メニュー"),
		line.MessageAction("キャンペーン", "キャンペーン"),
		line.MessageAction("ping", "ping"),
	)
}

// withDefaultQuickReply attaches the standard menu to the last message so
// the user can always navigate back to the primary intents. A quick reply
// already built in-branch is left alone.
func withDefaultQuickReply(msgs []line.Message) []line.Message {
	if len(msgs) == 0 {
		return msgs
	}
	last := &msgs[len(msgs)-1]
	if last.QuickReply == nil {
		last.QuickReply = defaultQuickReply()
	}
	return msgs
}

func welcomeMessages() []line.Message {
	guide := line.NewText("よくある質問：\n・営業時間\n・アクセス\n・メニュー\nなどと送ると、すぐにご案内します。")
	guide.QuickReply = line.NewQuickReply(
		line.MessageAction("ご予約", "予約"),
		line.MessageAction("メニュー", "メニュー"),
		line.MessageAction("キャンペーン", "キャンペーン"),
		line.MessageAction("アクセス", "アクセス"),
	)
	return []line.Message{
		line.NewText("友だち追加ありがとうございます！\nご質問があれば気軽にメッセージしてください。"),
		guide,
	}
}

func clarificationMessages(userText string) []line.Message {
	menu := line.NewText("以下から選べます👇")
	menu.QuickReply = defaultQuickReply()
	return []line.Message{
		line.NewText(fmt.Sprintf("「%s」について、少し詳しく教えていただけますか？", userText)),
		menu,
	}
}

// keywordMessages answers the fixed intent keywords from the snapshot.
// Returns nil when no keyword matched.
func keywordMessages(text string, snap store.Snapshot) []line.Message {
	switch {
	case strings.Contains(text, "営業時間"):
		return withDefaultQuickReply([]line.Message{
			line.NewText(fmt.Sprintf("本日の営業時間：%s\n詳細はお問い合わせください。", orUnset(snap.Hours))),
		})

	case strings.Contains(text, "アクセス"), strings.Contains(text, "住所"), strings.Contains(text, "場所"):
		return withDefaultQuickReply([]line.Message{line.NewText(accessText(snap))})

	case strings.Contains(text, "予約"):
		return reservationMessages(snap)

	case strings.Contains(text, "メニュー"):
		return withDefaultQuickReply([]line.Message{line.NewText(menuText(snap.Menu))})

	case strings.Contains(text, "キャンペーン"):
		return withDefaultQuickReply([]line.Message{line.NewText(campaignText(snap.Campaigns))})
	}
	return nil
}

func accessText(snap store.Snapshot) string {
	var b strings.Builder
	b.WriteString("アクセスのご案内")
	if snap.Address != "" {
		b.WriteString("\n住所：" + snap.Address)
	}
	if snap.MapURL != "" {
		b.WriteString("\n地図：" + snap.MapURL)
	}
	if snap.Address == "" && snap.MapURL == "" {
		b.WriteString("\n住所：未設定")
	}
	return b.String()
}

func reservationMessages(snap store.Snapshot) []line.Message {
	if snap.BookingURL == "" {
		return withDefaultQuickReply([]line.Message{
			line.NewText("ご予約はお電話または店頭にて承ります。"),
		})
	}
	msg := line.NewText("ご予約はこちらからどうぞ👇\n" + snap.BookingURL)
	msg.QuickReply = line.NewQuickReply(
		line.URIAction("予約ページ", snap.BookingURL),
		line.MessageAction("メニュー", "メニュー"),
		line.MessageAction("営業時間", "営業時間"),
		line.MessageAction("アクセス", "アクセス"),
	)
	return []line.Message{msg}
}

func menuText(items []store.MenuItem) string {
	if len(items) == 0 {
		return "メニュー情報は準備中です。お気軽にお問い合わせください。"
	}
	if len(items) > maxMenuItems {
		items = items[:maxMenuItems]
	}
	var b strings.Builder
	b.WriteString("【メニュー】")
	for _, m := range items {
		b.WriteString("\n・" + m.Name)
		if m.Price != "" {
			b.WriteString("（" + m.Price + "）")
		}
		if m.Desc != "" {
			b.WriteString("\n　" + m.Desc)
		}
	}
	return b.String()
}

func campaignText(campaigns []store.Campaign) string {
	if len(campaigns) == 0 {
		return "現在開催中のキャンペーンはありません。"
	}
	if len(campaigns) > maxCampaigns {
		campaigns = campaigns[:maxCampaigns]
	}
	var b strings.Builder
	b.WriteString("【キャンペーン】")
	for _, c := range campaigns {
		b.WriteString("\n・" + c.Title)
		if c.Details != "" {
			b.WriteString("\n　" + c.Details)
		}
		if c.Start != "" || c.End != "" {
			b.WriteString(fmt.Sprintf("\n　期間：%s〜%s", c.Start, c.End))
		}
	}
	return b.String()
}

func orUnset(s string) string {
	if s == "" {
		return "未設定"
	}
	return s
}

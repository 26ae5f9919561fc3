package ai

import (
	"fmt"
	"strings"

	"github.com/saltnbase/okami/internal/store"
)

const systemPrompt = "あなたはSALT'NBASE.のLINEアシスタントです。\n" +
	"日本語で300文字以内、丁寧かつ簡潔に回答してください。\n" +
	"不明点は推測せず「店舗に確認」を促してください。\n" +
	"以下の店舗情報を最優先して回答してください。"

// storeContext serializes the snapshot into the plain-text block handed to
// the model alongside the user's question.
func storeContext(snap store.Snapshot) string {
	menu := make([]string, 0, len(snap.Menu))
	for _, m := range snap.Menu {
		if m.Price != "" {
			menu = append(menu, fmt.Sprintf("%s(%s)", m.Name, m.Price))
		} else {
			menu = append(menu, m.Name)
		}
	}
	campaigns := make([]string, 0, len(snap.Campaigns))
	for _, c := range snap.Campaigns {
		campaigns = append(campaigns, c.Title)
	}

	lines := []string{
		"営業時間: " + orUnset(snap.Hours),
		"住所: " + orUnset(snap.Address),
		"地図: " + orUnset(snap.MapURL),
		"メニュー: " + orUnset(strings.Join(menu, ", ")),
		"キャンペーン: " + orUnset(strings.Join(campaigns, ", ")),
	}
	return strings.Join(lines, "\n")
}

func orUnset(s string) string {
	if s == "" {
		return "未設定"
	}
	return s
}

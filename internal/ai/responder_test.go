package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltnbase/okami/internal/store"
)

func TestAnswerWithoutAPIKey(t *testing.T) {
	r := NewResponder("", "")
	assert.Nil(t, r.Answer(context.Background(), "営業時間は？", store.Snapshot{}))
}

func TestAnswerSendsStoreContext(t *testing.T) {
	var gotReq request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(`{"output_text":"11時から営業しています。"}`))
	}))
	defer srv.Close()

	r := NewResponder("sk-test", "gpt-4o-mini")
	r.endpoint = srv.URL

	snap := store.Snapshot{
		Hours:   "11:00〜22:00",
		Address: "渋谷区1-2-3",
		Menu:    []store.MenuItem{{Name: "ランチ", Price: "1,200円"}},
	}
	msgs := r.Answer(context.Background(), "何時から開いてますか", snap)

	require.Len(t, msgs, 1)
	assert.Equal(t, "11時から営業しています。", msgs[0].Text)

	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	require.Len(t, gotReq.Input, 2)
	assert.Equal(t, "system", gotReq.Input[0].Role)
	assert.Contains(t, gotReq.Input[1].Content, "何時から開いてますか")
	assert.Contains(t, gotReq.Input[1].Content, "11:00〜22:00")
	assert.Contains(t, gotReq.Input[1].Content, "ランチ(1,200円)")
}

func TestAnswerFailuresReturnNil(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"auth error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"message":"bad key"}}`))
		}},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json at all"))
		}},
		{"empty result", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"output_text":"  "}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			r := NewResponder("sk-test", "")
			r.endpoint = srv.URL
			assert.Nil(t, r.Answer(context.Background(), "hello", store.Snapshot{}))
		})
	}
}

func TestAnswerUnreachableServer(t *testing.T) {
	r := NewResponder("sk-test", "")
	r.endpoint = "http://127.0.0.1:1"
	assert.Nil(t, r.Answer(context.Background(), "hello", store.Snapshot{}))
}

func TestExtractTextShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"output_text", `{"output_text":"こんにちは"}`, "こんにちは"},
		{"output content blocks", `{"output":[{"content":[{"text":"ブロック回答"}]}]}`, "ブロック回答"},
		{"chat completions", `{"choices":[{"message":{"content":"チャット回答"}}]}`, "チャット回答"},
		{"first non-empty wins", `{"output_text":"一番","choices":[{"message":{"content":"二番"}}]}`, "一番"},
		{"whitespace trimmed", `{"output_text":"  回答  "}`, "回答"},
		{"skips empty blocks", `{"output":[{"content":[{"text":""},{"text":"次"}]}]}`, "次"},
		{"nothing usable", `{"id":"resp_123"}`, ""},
		{"empty choices", `{"choices":[]}`, ""},
		{"not json", `oops`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractText([]byte(tt.raw)))
		})
	}
}

func TestStoreContextPlaceholders(t *testing.T) {
	ctx := storeContext(store.Snapshot{})
	assert.Contains(t, ctx, "営業時間: 未設定")
	assert.Contains(t, ctx, "メニュー: 未設定")
	assert.Contains(t, ctx, "キャンペーン: 未設定")
}

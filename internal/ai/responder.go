// Package ai answers free-form questions with an OpenAI model when the rule
// pipeline has nothing to say. It is best effort: any failure turns into a
// nil result and the caller falls through to its default branch.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/saltnbase/okami/internal/line"
	"github.com/saltnbase/okami/internal/store"
)

const (
	defaultModel = "gpt-4o-mini"
	apiEndpoint  = "https://api.openai.com/v1/responses"
)

type Responder struct {
	apiKey   string
	model    string
	endpoint string
	http     *http.Client
}

func NewResponder(apiKey, model string) *Responder {
	if model == "" {
		model = defaultModel
	}
	return &Responder{
		apiKey:   apiKey,
		model:    model,
		endpoint: apiEndpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

type request struct {
	Model string         `json:"model"`
	Input []inputMessage `json:"input"`
}

type inputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Answer asks the model about userText with the current store data as
// context. Returns nil when no API key is configured or the call fails in
// any way; it never propagates an error.
func (r *Responder) Answer(ctx context.Context, userText string, snap store.Snapshot) []line.Message {
	if r.apiKey == "" {
		return nil
	}

	reqBody := request{
		Model: r.model,
		Input: []inputMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("ユーザー入力: %s\n\n店舗データ:\n%s", userText, storeContext(snap))},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		log.Printf("ai: marshal request: %v", err)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		log.Printf("ai: build request: %v", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.http.Do(req)
	if err != nil {
		log.Printf("ai: call failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("ai: read response: %v", err)
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("ai: status %d: %s", resp.StatusCode, body)
		return nil
	}

	text := extractText(body)
	if text == "" {
		return nil
	}
	return []line.Message{line.NewText(text)}
}

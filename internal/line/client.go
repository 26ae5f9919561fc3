package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const apiURL = "https://api.line.me/v2/bot"

type Client struct {
	baseURL     string
	accessToken string
	http        *http.Client
}

func NewClient(accessToken string) *Client {
	return &Client{
		baseURL:     apiURL,
		accessToken: accessToken,
		http:        &http.Client{Timeout: 10 * time.Second},
	}
}

// Reply answers one inbound event. A reply token is valid for a single call;
// callers must not reuse it.
func (c *Client) Reply(ctx context.Context, replyToken string, messages []Message) error {
	return c.send(ctx, "/message/reply", replyRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	})
}

// Push sends messages outside the reply window.
func (c *Client) Push(ctx context.Context, to string, messages []Message) error {
	return c.send(ctx, "/message/push", pushRequest{
		To:       to,
		Messages: messages,
	})
}

func (c *Client) send(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("line API status %d: %s", resp.StatusCode, respBody)
	}
	return nil
}

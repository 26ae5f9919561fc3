// Package sheets loads the store snapshot from a Google Sheets spreadsheet
// using read-only service-account access.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/saltnbase/okami/internal/store"
)

const apiURL = "https://sheets.googleapis.com/v4/spreadsheets"

// Named ranges read on every load.
const (
	settingsRange  = "Settings!A1:B20"
	faqRange       = "FAQ!A:B"
	menuRange      = "Menu!A:C"
	campaignsRange = "Campaigns!A:D"
)

type Client struct {
	baseURL       string
	spreadsheetID string
	tokens        *tokenSource
	http          *http.Client
}

func NewClient(spreadsheetID, serviceAccountEmail, privateKeyPEM string) (*Client, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("missing spreadsheet id")
	}
	httpClient := &http.Client{Timeout: 10 * time.Second}
	ts, err := newTokenSource(serviceAccountEmail, privateKeyPEM, httpClient)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:       apiURL,
		spreadsheetID: spreadsheetID,
		tokens:        ts,
		http:          httpClient,
	}, nil
}

// Values fetches one A1-notation range as rows of cell strings.
func (c *Client) Values(ctx context.Context, valueRange string) ([][]string, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s/values/%s", c.baseURL, c.spreadsheetID, url.PathEscape(valueRange))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", valueRange, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheets API status %d for %s: %s", resp.StatusCode, valueRange, body)
	}

	var payload struct {
		Values [][]string `json:"values"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("sheets response for %s: %w", valueRange, err)
	}
	return payload.Values, nil
}

// LoadSnapshot reads all four ranges and assembles a snapshot. The ranges are
// independent, so they are fetched in parallel; any failure fails the load as
// a whole and the caller's fallback chain takes over.
func (c *Client) LoadSnapshot(ctx context.Context) (store.Snapshot, error) {
	var settings, faq, menu, campaigns [][]string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		settings, err = c.Values(gctx, settingsRange)
		return err
	})
	g.Go(func() (err error) {
		faq, err = c.Values(gctx, faqRange)
		return err
	})
	g.Go(func() (err error) {
		menu, err = c.Values(gctx, menuRange)
		return err
	})
	g.Go(func() (err error) {
		campaigns, err = c.Values(gctx, campaignsRange)
		return err
	})
	if err := g.Wait(); err != nil {
		return store.Snapshot{}, err
	}

	return buildSnapshot(settings, faq, menu, campaigns), nil
}

package sheets

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenEndpoint = "https://oauth2.googleapis.com/token"
	jwtGrantType  = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	scope         = "https://www.googleapis.com/auth/spreadsheets.readonly"
)

// tokenSource exchanges a signed service-account assertion for an OAuth
// access token and caches it until shortly before expiry.
type tokenSource struct {
	email    string
	key      *rsa.PrivateKey
	endpoint string
	http     *http.Client

	mu      sync.Mutex
	token   string
	expires time.Time
}

func newTokenSource(email, privateKeyPEM string, httpClient *http.Client) (*tokenSource, error) {
	if email == "" || privateKeyPEM == "" {
		return nil, fmt.Errorf("missing service account credentials")
	}
	// Keys pasted into env vars often arrive with literal \n escapes.
	if strings.Contains(privateKeyPEM, `\n`) {
		privateKeyPEM = strings.ReplaceAll(privateKeyPEM, `\n`, "\n")
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("parsing service account key: %w", err)
	}
	return &tokenSource{email: email, key: key, endpoint: tokenEndpoint, http: httpClient}, nil
}

func (ts *tokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" && time.Now().Before(ts.expires) {
		return ts.token, nil
	}

	now := time.Now()
	assertion := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":   ts.email,
		"scope": scope,
		"aud":   ts.endpoint,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	})
	signed, err := assertion.SignedString(ts.key)
	if err != nil {
		return "", fmt.Errorf("signing assertion: %w", err)
	}

	form := url.Values{
		"grant_type": {jwtGrantType},
		"assertion":  {signed},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint status %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned no access token")
	}

	ts.token = payload.AccessToken
	ts.expires = now.Add(time.Duration(payload.ExpiresIn)*time.Second - time.Minute)
	return ts.token, nil
}

package simplefin

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/common"
)

// AuthState is the claimed access URL persisted between runs.
type AuthState struct {
	ClaimedAt  time.Time `json:"claimed_at"`
	AccessURL  string    `json:"access_url"`
	ClaimToken string    `json:"claim_token_hint"`
}

// loadOrClaim returns the saved access URL, claiming token when no state
// file exists yet.
func (c *Client) loadOrClaim(ctx context.Context, token, statePath string) (string, error) {
	state, err := loadAuthState(statePath)
	if err == nil && state.AccessURL != "" {
		c.logger.Info("Using saved SimpleFIN access URL",
			"claimed_at", state.ClaimedAt.Format(time.DateOnly),
			"state_file", statePath)
		return state.AccessURL, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to read %s: %w", statePath, err)
	}
	if token == "" {
		return "", fmt.Errorf("%w: no saved SimpleFIN access and no setup token", common.ErrMissingConfig)
	}

	c.logger.Info("Claiming SimpleFIN setup token")
	accessURL, err := c.claim(ctx, token)
	if err != nil {
		return "", err
	}

	state = &AuthState{AccessURL: accessURL, ClaimedAt: time.Now(), ClaimToken: tokenHint(token)}
	if err := saveAuthState(statePath, state); err != nil {
		return "", fmt.Errorf("failed to save SimpleFIN access: %w", err)
	}
	c.logger.Info("Saved SimpleFIN access URL", "state_file", statePath)
	return accessURL, nil
}

// claim exchanges a base64 setup token for an access URL.
func (c *Client) claim(ctx context.Context, token string) (string, error) {
	decoded, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(token)
		if err != nil {
			return "", fmt.Errorf("failed to decode SimpleFIN token: %w", err)
		}
	}
	claimURL := string(decoded)
	if !isHTTPURL(claimURL) {
		return "", fmt.Errorf("decoded token is not a URL: %s", claimURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claimURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create claim request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to claim SimpleFIN access: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read claim response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("SimpleFIN claim failed: %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	accessURL := strings.TrimSpace(string(body))
	if !isHTTPURL(accessURL) {
		return "", fmt.Errorf("invalid access URL received: %s", accessURL)
	}
	return accessURL, nil
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func loadAuthState(path string) (*AuthState, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err != nil {
		return nil, err
	}
	var state AuthState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func saveAuthState(path string, state *AuthState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// tokenHint keeps the first and last 8 characters of token.
func tokenHint(token string) string {
	if len(token) > 16 {
		return token[:8] + "..." + token[len(token)-8:]
	}
	return "short_token"
}

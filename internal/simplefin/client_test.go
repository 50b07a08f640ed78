package simplefin

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/common"
	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/Veraticus/safe-to-spend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func posted(y int, m time.Month, d int) int64 {
	return time.Date(y, m, d, 15, 30, 0, 0, time.UTC).Unix()
}

func accountsJSON() string {
	return fmt.Sprintf(`{
  "errors": ["Connection to First Bank may need attention"],
  "accounts": [{
    "id": "ACT-1",
    "name": "Checking",
    "currency": "USD",
    "balance": "1200.00",
    "transactions": [
      {"id": "T1", "posted": %d, "amount": "-25.50", "description": "STARBUCKS STORE #1234", "payee": "Starbucks"},
      {"id": "T2", "posted": %d, "amount": "1730.25", "description": "ACME CORP PAYROLL", "payee": ""},
      {"id": "T3", "posted": %d, "amount": "-9.99", "description": "pending charge", "pending": true},
      {"id": "T4", "posted": %d, "amount": "0.00", "description": "zero"},
      {"id": "T5", "posted": %d, "amount": "-40.00", "description": "too late", "payee": "Later"}
    ]
  }]
}`, posted(2024, 3, 5), posted(2024, 3, 8), posted(2024, 3, 9), posted(2024, 3, 9), posted(2024, 3, 20))
}

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func fastRetry(c *Client) {
	c.retryOpts = service.RetryOptions{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}
}

func TestClient_GetTransactions(t *testing.T) {
	var query string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts", r.URL.Path)
		query = r.URL.RawQuery
		_, _ = fmt.Fprint(w, accountsJSON())
	})

	client, err := NewClient(context.Background(), Config{AccessURL: srv.URL + "/"}, nil)
	require.NoError(t, err)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	txns, err := client.GetTransactions(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Contains(t, query, fmt.Sprintf("start-date=%d", start.Unix()))
	assert.Contains(t, query, fmt.Sprintf("end-date=%d", end.AddDate(0, 0, 1).Unix()))

	coffee := txns[0]
	assert.Equal(t, model.TypeExpense, coffee.Type)
	assert.Equal(t, "25.50", coffee.Amount.StringFixed(2))
	assert.Equal(t, "Starbucks", coffee.Category)
	assert.Equal(t, "ACT-1_T1", coffee.ExternalID)
	assert.Equal(t, model.SourceSimpleFIN, coffee.Source)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), coffee.Date)

	pay := txns[1]
	assert.Equal(t, model.TypeIncome, pay.Type)
	assert.Equal(t, "Acme Corp Payroll", pay.Category)
	assert.NotEmpty(t, pay.GenerateHash())
}

func TestClient_GetTransactions_Empty(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"accounts": [{"id": "A", "transactions": []}]}`)
	})
	client, err := NewClient(context.Background(), Config{AccessURL: srv.URL}, nil)
	require.NoError(t, err)

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err = client.GetTransactions(context.Background(), day, day)
	assert.ErrorIs(t, err, common.ErrNoTransactions)

	_, err = client.GetTransactions(context.Background(), day, day.AddDate(0, 0, -1))
	assert.Error(t, err)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, `{"accounts": [{"id": "A"}, {"id": "B"}]}`)
	})
	client, err := NewClient(context.Background(), Config{AccessURL: srv.URL}, nil)
	require.NoError(t, err)
	fastRetry(client)

	ids, err := client.GetAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, ids)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_ForbiddenIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "access revoked", http.StatusForbidden)
	})
	client, err := NewClient(context.Background(), Config{AccessURL: srv.URL}, nil)
	require.NoError(t, err)
	fastRetry(client)

	_, err = client.GetAccounts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewClient_ClaimsAndSavesToken(t *testing.T) {
	var claims atomic.Int32
	var srv *httptest.Server
	srv = newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/claim/abc" {
			assert.Equal(t, http.MethodPost, r.Method)
			claims.Add(1)
			_, _ = fmt.Fprintln(w, srv.URL+"/simplefin")
			return
		}
		_, _ = fmt.Fprint(w, `{"accounts": [{"id": "A"}]}`)
	})

	token := base64.StdEncoding.EncodeToString([]byte(srv.URL + "/claim/abc"))
	statePath := filepath.Join(t.TempDir(), "budget", "simplefin_auth.json")
	cfg := Config{Token: token, StatePath: statePath}

	client, err := NewClient(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/simplefin", client.accessURL)

	state, err := loadAuthState(statePath)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/simplefin", state.AccessURL)

	info, err := os.Stat(statePath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// Second client reuses the saved URL.
	_, err = NewClient(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(1), claims.Load())
}

func TestNewClient_Errors(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		cfg     Config
	}{
		{name: "nothing configured", cfg: Config{}, wantErr: common.ErrMissingConfig},
		{name: "no token and no saved state", cfg: Config{StatePath: filepath.Join(t.TempDir(), "auth.json")}, wantErr: common.ErrMissingConfig},
		{name: "token is not base64", cfg: Config{Token: "%%%", StatePath: filepath.Join(t.TempDir(), "auth.json")}},
		{name: "token is not a url", cfg: Config{Token: base64.StdEncoding.EncodeToString([]byte("ftp://x")), StatePath: filepath.Join(t.TempDir(), "auth.json")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(context.Background(), tt.cfg, nil)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestTokenHint(t *testing.T) {
	assert.Equal(t, "short_token", tokenHint("abc"))
	assert.Equal(t, "aHR0cHM6...bGFpbQ==", tokenHint("aHR0cHM6Ly9leGFtcGxlLmNvbS9jbGFpbQ=="))
}

package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Providers(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "openai", cfg: Config{Provider: "openai", APIKey: "k"}},
		{name: "anthropic upper case", cfg: Config{Provider: "Anthropic", APIKey: "k"}},
		{name: "unknown provider", cfg: Config{Provider: "gemini"}, wantErr: common.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer func() { _ = client.Close() }()
			assert.NotNil(t, client)
		})
	}
}

// flakyClient fails a fixed number of times before succeeding.
type flakyClient struct {
	err      error
	failures int
	calls    int
	mu       sync.Mutex
}

func (f *flakyClient) Complete(_ context.Context, _ Request) (Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return Response{}, f.err
	}
	return Response{Text: "ok"}, nil
}

func TestManagedClient_CachesResponses(t *testing.T) {
	mock := &MockClient{Responses: []string{"first", "second"}}
	client := Wrap(mock, Config{RetryDelay: time.Millisecond}, nil)
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	req := Request{Prompt: "same"}

	resp, err := client.Complete(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Text)

	resp, err = client.Complete(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Text)
	assert.Equal(t, 1, mock.Calls())

	resp, err = client.Complete(ctx, Request{Prompt: "different"})
	require.NoError(t, err)
	assert.Equal(t, "second", resp.Text)
	assert.Equal(t, 2, mock.Calls())
}

func TestManagedClient_RetriesTransientErrors(t *testing.T) {
	flaky := &flakyClient{
		failures: 2,
		err:      &common.RetryableError{Err: errors.New("503"), Retryable: true},
	}
	client := Wrap(flaky, Config{MaxRetries: 3, RetryDelay: time.Millisecond}, nil)
	defer func() { _ = client.Close() }()

	resp, err := client.Complete(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, 3, flaky.calls)
}

func TestManagedClient_PermanentErrorsStopImmediately(t *testing.T) {
	flaky := &flakyClient{failures: 5, err: common.Permanent(errors.New("bad request"))}
	client := Wrap(flaky, Config{MaxRetries: 3, RetryDelay: time.Millisecond}, nil)
	defer func() { _ = client.Close() }()

	_, err := client.Complete(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.Equal(t, 1, flaky.calls)
	assert.False(t, common.IsRetryable(err))
}

func TestManagedClient_ExhaustsRetries(t *testing.T) {
	mock := &MockClient{Err: errors.New("connection reset")}
	client := Wrap(mock, Config{MaxRetries: 2, RetryDelay: time.Millisecond}, nil)
	defer func() { _ = client.Close() }()

	_, err := client.Complete(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMaxRetries)
	assert.Equal(t, 2, mock.Calls())
}

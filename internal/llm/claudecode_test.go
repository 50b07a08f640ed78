package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClaudeCodeOutput(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		wantText string
		wantErr  string
	}{
		{
			name:     "json envelope",
			output:   `{"type":"result","result":"  Spend less on gifts.  ","is_error":false}`,
			wantText: "Spend less on gifts.",
		},
		{
			name:     "plain text fallback",
			output:   "raw advice\n",
			wantText: "raw advice",
		},
		{
			name:    "error envelope",
			output:  `{"type":"result","result":"quota exceeded","is_error":true}`,
			wantErr: "quota exceeded",
		},
		{
			name:    "empty result",
			output:  `{"type":"result","result":""}`,
			wantErr: "empty response",
		},
		{
			name:    "empty output",
			output:  "   ",
			wantErr: "empty response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := parseClaudeCodeOutput([]byte(tt.output), "sonnet")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, resp.Text)
			assert.Equal(t, "sonnet", resp.Model)
		})
	}
}

func TestNewClaudeCodeClient_MissingBinary(t *testing.T) {
	_, err := newClaudeCodeClient(Config{ClaudeCodePath: "/nonexistent/claude-binary"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "claude CLI not found")
}

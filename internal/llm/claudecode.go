package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/common"
)

// claudeCodeClient implements the Client interface using Claude Code CLI.
type claudeCodeClient struct {
	model    string
	cliPath  string
	timeout  time.Duration
	maxTurns int
}

// newClaudeCodeClient creates a new Claude Code CLI client.
func newClaudeCodeClient(cfg Config) (Client, error) {
	cliPath := cfg.ClaudeCodePath
	if cliPath == "" {
		cliPath = "claude"
	}

	if _, err := exec.LookPath(cliPath); err != nil {
		return nil, fmt.Errorf("claude CLI not found at %s: ensure @anthropic-ai/claude-code is installed", cliPath)
	}

	model := cfg.Model
	if model == "" {
		model = "sonnet"
	}

	return &claudeCodeClient{
		model:    model,
		cliPath:  cliPath,
		timeout:  cfg.timeout(),
		maxTurns: 1,
	}, nil
}

// Complete runs a single-turn prompt through the Claude Code CLI.
func (c *claudeCodeClient) Complete(ctx context.Context, req Request) (Response, error) {
	prompt := req.Prompt
	if req.System != "" {
		prompt = req.System + "\n\n" + req.Prompt
	}

	args := []string{
		"-p", prompt,
		"--output-format", "json",
		"--model", c.model,
		"--max-turns", strconv.Itoa(c.maxTurns),
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.cliPath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return Response{}, fmt.Errorf("claude code error: %s", strings.TrimSpace(stderr.String()))
		}
		return Response{}, fmt.Errorf("failed to execute claude: %w", err)
	}

	return parseClaudeCodeOutput(stdout.Bytes(), c.model)
}

// parseClaudeCodeOutput reads the CLI's JSON envelope, falling back to the
// raw output when it is not JSON.
func parseClaudeCodeOutput(out []byte, model string) (Response, error) {
	var response claudeCodeResponse
	if err := json.Unmarshal(out, &response); err != nil {
		text := strings.TrimSpace(string(out))
		if text == "" {
			return Response{}, common.Permanent(errors.New("empty response from claude code"))
		}
		return Response{Text: text, Model: model}, nil
	}

	if response.IsError {
		return Response{}, common.Permanent(fmt.Errorf("claude code error in response: %s", response.Result))
	}
	if strings.TrimSpace(response.Result) == "" {
		return Response{}, common.Permanent(errors.New("empty response from claude code"))
	}

	return Response{Text: strings.TrimSpace(response.Result), Model: model}, nil
}

// claudeCodeResponse represents the JSON response from Claude Code CLI.
type claudeCodeResponse struct {
	Result    string  `json:"result"`
	Type      string  `json:"type"`
	SessionID string  `json:"session_id"`
	IsError   bool    `json:"is_error"`
	TotalCost float64 `json:"total_cost_usd"`
}

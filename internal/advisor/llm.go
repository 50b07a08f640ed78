package advisor

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/Veraticus/safe-to-spend/internal/llm"
	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/Veraticus/safe-to-spend/internal/money"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var prompts = template.Must(template.New("").Funcs(template.FuncMap{
	"currency": money.FormatCurrency,
}).ParseFS(templateFS, "templates/*.tmpl"))

// ErrEmptyAdvice is returned when the service responds with no text.
var ErrEmptyAdvice = errors.New("empty advice")

// LLMAdvisor implements Gateway on top of an llm.Client.
type LLMAdvisor struct {
	client llm.Client
	logger *slog.Logger
}

var _ Gateway = (*LLMAdvisor)(nil)

// NewLLMAdvisor creates an advisor backed by client.
func NewLLMAdvisor(client llm.Client, logger *slog.Logger) *LLMAdvisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMAdvisor{client: client, logger: logger.With("component", "advisor")}
}

// SuggestBudgetImprovements asks for ways to stay within weeklyBudget given
// per-category spending serialized as JSON.
func (a *LLMAdvisor) SuggestBudgetImprovements(ctx context.Context, spendingDataJSON string, weeklyBudget decimal.Decimal) (Suggestions, error) {
	text, err := a.complete(ctx, "suggest.tmpl", map[string]any{
		"SpendingData": strings.TrimSpace(spendingDataJSON),
		"WeeklyBudget": weeklyBudget,
	})
	if err != nil {
		return Suggestions{}, err
	}
	return Suggestions{Text: text}, nil
}

// BudgetAlert asks for a short message about currentSpending against weeklyBudget.
func (a *LLMAdvisor) BudgetAlert(ctx context.Context, weeklyBudget, currentSpending decimal.Decimal, historySummary string) (Alert, error) {
	overage := currentSpending.Sub(weeklyBudget)
	text, err := a.complete(ctx, "alert.tmpl", map[string]any{
		"WeeklyBudget":    weeklyBudget,
		"CurrentSpending": currentSpending,
		"Over":            overage.IsPositive(),
		"Overage":         overage,
		"History":         strings.TrimSpace(historySummary),
	})
	if err != nil {
		return Alert{}, err
	}
	return Alert{Message: text}, nil
}

// SummarizeWeek computes the totals locally; no request is made.
func (a *LLMAdvisor) SummarizeWeek(ctx context.Context, txns []model.Transaction) (model.WeekTotals, error) {
	return summarize(ctx, txns)
}

func (a *LLMAdvisor) complete(ctx context.Context, name string, data any) (string, error) {
	prompt, err := render(name, data)
	if err != nil {
		return "", unavailable(err)
	}
	system, err := render("system.tmpl", nil)
	if err != nil {
		return "", unavailable(err)
	}

	resp, err := a.client.Complete(ctx, llm.Request{System: system, Prompt: prompt})
	if err != nil {
		a.logger.Warn("advice request failed", "template", name, "error", err)
		return "", unavailable(err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", unavailable(ErrEmptyAdvice)
	}
	return text, nil
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

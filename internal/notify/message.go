// Package notify publishes over-budget alerts to an AMQP exchange for
// downstream notification services.
package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/budget"
	"github.com/shopspring/decimal"
)

// MessageType identifies the alert payload.
const MessageType = "budget.over_budget"

// OverBudgetAlert is the JSON body published for one over-budget row.
type OverBudgetAlert struct {
	WeekStart   time.Time       `json:"week_start"`
	WeekEnd     time.Time       `json:"week_end"`
	PublishedAt time.Time       `json:"published_at"`
	Type        string          `json:"type"`
	UserID      string          `json:"user_id"`
	WeekLabel   string          `json:"week_label"`
	Category    string          `json:"category"`
	Message     string          `json:"message,omitempty"`
	Available   decimal.Decimal `json:"available"`
	Spent       decimal.Decimal `json:"spent"`
	OverBudget  decimal.Decimal `json:"over_budget"`
}

// NewOverBudgetAlert builds the alert for row.
func NewOverBudgetAlert(userID string, row budget.OverBudgetRow, message string, now time.Time) OverBudgetAlert {
	return OverBudgetAlert{
		Type:        MessageType,
		UserID:      userID,
		WeekStart:   row.WeekStart,
		WeekEnd:     row.WeekEnd,
		WeekLabel:   row.WeekLabel,
		Category:    row.Category,
		Available:   row.Available,
		Spent:       row.Spent,
		OverBudget:  row.OverBudget,
		Message:     message,
		PublishedAt: now,
	}
}

// MessageID is stable for a user, week and category so consumers can
// discard repeats.
func (a OverBudgetAlert) MessageID() string {
	return fmt.Sprintf("%s:%s:%s", a.UserID, a.WeekStart.Format(time.DateOnly), a.Category)
}

// ToJSON encodes the alert.
func (a OverBudgetAlert) ToJSON() ([]byte, error) {
	return json.Marshal(a)
}

// AlertFromJSON decodes an alert.
func AlertFromJSON(data []byte) (OverBudgetAlert, error) {
	var a OverBudgetAlert
	if err := json.Unmarshal(data, &a); err != nil {
		return OverBudgetAlert{}, fmt.Errorf("decode alert: %w", err)
	}
	return a, nil
}

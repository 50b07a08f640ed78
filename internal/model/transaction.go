package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	// TypeIncome marks money received.
	TypeIncome TransactionType = "Income"
	// TypeExpense marks money spent. Unknown types are treated the same way.
	TypeExpense TransactionType = "Expense"
)

// ParseTransactionType accepts "income"/"expense" in any case. Other input is
// returned verbatim.
func ParseTransactionType(s string) TransactionType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return TypeIncome
	case "expense":
		return TypeExpense
	}
	return TransactionType(strings.TrimSpace(s))
}

// IsIncome reports whether t counts toward income. Everything else is an expense.
func (t TransactionType) IsIncome() bool {
	return t == TypeIncome
}

// Transaction is a single ledger entry logged by the user or imported from a bank.
type Transaction struct {
	Date        time.Time
	ID          string
	Type        TransactionType
	Category    string // Free text matched against budget names and categories
	Description string
	Source      string // Where the entry came from, e.g. manual, ofx, plaid
	ExternalID  string // Bank-assigned ID for imported entries
	Amount      decimal.Decimal
}

// Transaction sources.
const (
	SourceManual    = "manual"
	SourceOFX       = "ofx"
	SourcePlaid     = "plaid"
	SourceSimpleFIN = "simplefin"
)

// GenerateHash creates a stable fingerprint for duplicate detection on
// import. Entries without an ExternalID are never deduplicated and get an
// empty hash.
func (t *Transaction) GenerateHash() string {
	if t.ExternalID == "" {
		return ""
	}
	data := fmt.Sprintf("%s:%s:%s:%s",
		t.Source,
		t.ExternalID,
		t.Date.Format("2006-01-02"),
		t.Amount.StringFixed(2))
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// WeekTotals is the income/expense/net triple for a set of transactions.
type WeekTotals struct {
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	NetChange     decimal.Decimal
}

// WeeklySummary records the totals for one completed calendar week.
type WeeklySummary struct {
	WeekStart time.Time
	WeekEnd   time.Time
	WeekTotals
}

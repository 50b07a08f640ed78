// Package plaid syncs bank transactions from the Plaid API into the ledger.
package plaid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/common"
	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/Veraticus/safe-to-spend/internal/service"
	"github.com/plaid/plaid-go/v20/plaid"
	"github.com/shopspring/decimal"
)

// pageSize is Plaid's maximum page size for /transactions/get.
const pageSize = int32(500)

// TransactionFetcher fetches ledger transactions from a bank connection.
type TransactionFetcher interface {
	GetTransactions(ctx context.Context, startDate, endDate time.Time) ([]model.Transaction, error)
	GetAccounts(ctx context.Context) ([]string, error)
}

// Config holds Plaid API configuration.
type Config struct {
	ClientID    string
	Secret      string
	Environment string // sandbox or production
	AccessToken string
}

// Validate ensures all required fields are present.
func (c *Config) Validate() error {
	switch {
	case c.ClientID == "":
		return fmt.Errorf("%w: plaid client ID is required", common.ErrMissingConfig)
	case c.Secret == "":
		return fmt.Errorf("%w: plaid secret is required", common.ErrMissingConfig)
	case c.AccessToken == "":
		return fmt.Errorf("%w: plaid access token is required", common.ErrMissingConfig)
	case c.Environment == "":
		return fmt.Errorf("%w: plaid environment is required", common.ErrMissingConfig)
	}
	if _, ok := environments[c.Environment]; !ok {
		return fmt.Errorf("%w: plaid environment must be sandbox or production", common.ErrInvalidConfig)
	}
	return nil
}

var environments = map[string]plaid.Environment{
	"sandbox":    plaid.Sandbox,
	"production": plaid.Production,
}

// Client implements TransactionFetcher against the Plaid API.
type Client struct {
	client      *plaid.APIClient
	logger      *slog.Logger
	accessToken string
	retryOpts   service.RetryOptions
}

// NewClient creates a Plaid client.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", cfg.ClientID)
	configuration.AddDefaultHeader("PLAID-SECRET", cfg.Secret)
	configuration.UseEnvironment(environments[cfg.Environment])

	return &Client{
		client:      plaid.NewAPIClient(configuration),
		accessToken: cfg.AccessToken,
		logger:      logger.With("component", "plaid"),
		retryOpts: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// GetTransactions fetches every transaction posted between startDate and
// endDate, inclusive. Pending transactions are skipped.
func (c *Client) GetTransactions(ctx context.Context, startDate, endDate time.Time) ([]model.Transaction, error) {
	if ctx == nil {
		return nil, errors.New("context cannot be nil")
	}
	if startDate.After(endDate) {
		return nil, errors.New("start date must be before end date")
	}

	c.logger.Info("Fetching transactions from Plaid",
		"start_date", startDate.Format(time.DateOnly),
		"end_date", endDate.Format(time.DateOnly))

	var fetched []plaid.Transaction
	for offset := int32(0); ; offset += pageSize {
		var page []plaid.Transaction
		err := common.WithRetry(ctx, func() error {
			request := plaid.NewTransactionsGetRequest(
				c.accessToken,
				startDate.Format(time.DateOnly),
				endDate.Format(time.DateOnly),
			)
			request.SetOptions(plaid.TransactionsGetRequestOptions{
				Count:  plaid.PtrInt32(pageSize),
				Offset: plaid.PtrInt32(offset),
			})

			resp, _, err := c.client.PlaidApi.TransactionsGet(ctx).TransactionsGetRequest(*request).Execute()
			if err != nil {
				return classifyError("fetch transactions", err)
			}

			page = resp.GetTransactions()
			c.logger.Debug("Fetched transaction page",
				"count", len(page),
				"offset", offset,
				"total", resp.GetTotalTransactions())
			return nil
		}, c.retryOpts)
		if err != nil {
			return nil, err
		}

		fetched = append(fetched, page...)
		if len(page) < int(pageSize) {
			break
		}
	}

	transactions := make([]model.Transaction, 0, len(fetched))
	for _, pt := range fetched {
		if pt.GetPending() {
			continue
		}
		txn, ok := c.mapTransaction(pt)
		if !ok {
			continue
		}
		transactions = append(transactions, txn)
	}

	c.logger.Info("Fetched transactions", "fetched", len(fetched), "kept", len(transactions))
	if len(transactions) == 0 {
		return nil, common.ErrNoTransactions
	}
	return transactions, nil
}

// GetAccounts fetches the account IDs linked to the access token.
func (c *Client) GetAccounts(ctx context.Context) ([]string, error) {
	if ctx == nil {
		return nil, errors.New("context cannot be nil")
	}

	var accounts []plaid.AccountBase
	err := common.WithRetry(ctx, func() error {
		request := plaid.NewAccountsGetRequest(c.accessToken)
		resp, _, err := c.client.PlaidApi.AccountsGet(ctx).AccountsGetRequest(*request).Execute()
		if err != nil {
			return classifyError("fetch accounts", err)
		}
		accounts = resp.GetAccounts()
		return nil
	}, c.retryOpts)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(accounts))
	for _, account := range accounts {
		ids = append(ids, account.GetAccountId())
	}
	return ids, nil
}

// record is the subset of a Plaid transaction the ledger uses.
type record struct {
	ID       string
	Date     string
	Name     string
	Merchant string
	Primary  string // Personal finance category, e.g. FOOD_AND_DRINK
	Amount   float64
}

func (c *Client) mapTransaction(pt plaid.Transaction) (model.Transaction, bool) {
	rec := record{
		ID:       pt.GetTransactionId(),
		Date:     pt.GetDate(),
		Name:     pt.GetName(),
		Merchant: pt.GetMerchantName(),
		Amount:   pt.GetAmount(),
	}
	if pfc, ok := pt.GetPersonalFinanceCategoryOk(); ok && pfc != nil {
		rec.Primary = pfc.GetPrimary()
	}

	txn, err := toLedger(rec)
	if err != nil {
		c.logger.Warn("Skipping Plaid transaction", "id", rec.ID, "error", err)
		return model.Transaction{}, false
	}
	return txn, true
}

// toLedger converts a Plaid record. Plaid reports money out as positive
// amounts and money in as negative ones.
func toLedger(rec record) (model.Transaction, error) {
	date, err := time.Parse(time.DateOnly, rec.Date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid date %q: %w", rec.Date, err)
	}

	amount := decimal.NewFromFloat(rec.Amount).Round(2)
	if amount.IsZero() {
		return model.Transaction{}, errors.New("zero amount")
	}

	txnType := model.TypeExpense
	if amount.IsNegative() {
		txnType = model.TypeIncome
	}

	merchant := rec.Merchant
	if merchant == "" {
		merchant = rec.Name
	}
	merchant = CleanMerchantName(merchant)

	category, ok := primaryCategories[rec.Primary]
	if !ok {
		category = merchant
	}
	if category == "" {
		category = model.Miscellaneous
	}

	return model.Transaction{
		Date:        date,
		Type:        txnType,
		Category:    category,
		Description: strings.TrimSpace(rec.Name),
		Source:      model.SourcePlaid,
		ExternalID:  rec.ID,
		Amount:      amount.Abs(),
	}, nil
}

// primaryCategories maps Plaid personal finance categories onto budget
// categories.
var primaryCategories = map[string]string{
	"FOOD_AND_DRINK":            "Dining Out",
	"GENERAL_MERCHANDISE":       "Shopping",
	"ENTERTAINMENT":             "Entertainment",
	"TRAVEL":                    "Travel",
	"TRANSPORTATION":            "Transportation",
	"RENT_AND_UTILITIES":        "Utilities",
	"MEDICAL":                   "Healthcare",
	"PERSONAL_CARE":             "Personal Care",
	"HOME_IMPROVEMENT":          "Home Decor",
	"BANK_FEES":                 "Bank Fees",
	"INCOME":                    "Income",
	"GOVERNMENT_AND_NON_PROFIT": "Charity",
}

// CleanMerchantName title-cases name and strips trailing reference numbers
// and company suffixes.
func CleanMerchantName(name string) string {
	words := strings.Fields(strings.ToLower(name))
	for i, word := range words {
		runes := []rune(word)
		for j := range runes {
			if j == 0 || !isLetter(runes[j-1]) {
				runes[j] = toUpper(runes[j])
			}
		}
		words[i] = string(runes)
	}

	if n := len(words); n > 1 && len(words[n-1]) > 5 && isAllDigits(words[n-1]) {
		words = words[:n-1]
	}
	name = strings.Join(words, " ")

	suffixes := []string{" Llc", " Inc", " Corp", " Corporation", " Company", " Co", " Ltd", " Limited"}
	for changed := true; changed; {
		changed = false
		for _, suffix := range suffixes {
			if strings.HasSuffix(name, suffix) {
				name = strings.TrimSuffix(name, suffix)
				changed = true
			}
		}
	}

	return strings.TrimSpace(name)
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 32
	}
	return r
}

// classifyError turns a Plaid API error into a retryable or permanent one.
func classifyError(op string, err error) error {
	plaidErr, convErr := plaid.ToPlaidError(err)
	if convErr != nil {
		return &common.RetryableError{Err: fmt.Errorf("%w: failed to %s: %w", common.ErrPlaidConnection, op, err), Retryable: true}
	}
	if plaidErr.ErrorCode == "RATE_LIMIT_EXCEEDED" {
		return &common.RetryableError{
			Err:       fmt.Errorf("%w: %s", common.ErrPlaidRateLimit, plaidErr.ErrorMessage),
			Retryable: true,
		}
	}
	return common.Permanent(fmt.Errorf("plaid API error: %s - %s", plaidErr.ErrorCode, plaidErr.ErrorMessage))
}

var _ TransactionFetcher = (*Client)(nil)

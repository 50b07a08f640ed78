// Package simplefin fetches ledger transactions through a SimpleFIN Bridge
// access URL.
package simplefin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/common"
	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/Veraticus/safe-to-spend/internal/plaid"
	"github.com/Veraticus/safe-to-spend/internal/service"
	"github.com/shopspring/decimal"
)

// Config holds SimpleFIN settings. AccessURL skips the claim step entirely.
type Config struct {
	Token     string // Base64 setup token, claimed once
	AccessURL string
	StatePath string // Where the claimed access URL is saved
	Timeout   time.Duration
}

// Validate checks that an access URL can be obtained.
func (c Config) Validate() error {
	if c.AccessURL == "" && c.StatePath == "" {
		return fmt.Errorf("%w: simplefin access url or state path is required", common.ErrMissingConfig)
	}
	return nil
}

// Client implements plaid.TransactionFetcher against a SimpleFIN server.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	accessURL  string
	retryOpts  service.RetryOptions
}

// NewClient resolves the access URL, claiming cfg.Token on first use.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "simplefin"),
		accessURL:  strings.TrimRight(cfg.AccessURL, "/"),
		retryOpts: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}
	if c.accessURL == "" {
		accessURL, err := c.loadOrClaim(ctx, cfg.Token, cfg.StatePath)
		if err != nil {
			return nil, err
		}
		c.accessURL = strings.TrimRight(accessURL, "/")
	}
	return c, nil
}

type accountSet struct {
	Errors   []string  `json:"errors"`
	Accounts []account `json:"accounts"`
}

type account struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Currency     string        `json:"currency"`
	Balance      string        `json:"balance"`
	Transactions []transaction `json:"transactions"`
}

type transaction struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Payee       string `json:"payee"`
	Posted      int64  `json:"posted"`
	Pending     bool   `json:"pending"`
}

// GetTransactions fetches every posted transaction between startDate and
// endDate, inclusive.
func (c *Client) GetTransactions(ctx context.Context, startDate, endDate time.Time) ([]model.Transaction, error) {
	if startDate.After(endDate) {
		return nil, errors.New("start date must be before end date")
	}

	q := url.Values{}
	q.Set("start-date", strconv.FormatInt(startDate.Unix(), 10))
	// end-date is exclusive.
	q.Set("end-date", strconv.FormatInt(endDate.AddDate(0, 0, 1).Unix(), 10))

	c.logger.Info("Fetching transactions from SimpleFIN",
		"start_date", startDate.Format(time.DateOnly),
		"end_date", endDate.Format(time.DateOnly))

	set, err := c.accounts(ctx, q)
	if err != nil {
		return nil, err
	}

	last := endDate.AddDate(0, 0, 1)
	var txns []model.Transaction
	fetched := 0
	for _, acct := range set.Accounts {
		for _, tx := range acct.Transactions {
			fetched++
			if tx.Pending {
				continue
			}
			txn, err := toLedger(acct.ID, tx)
			if err != nil {
				c.logger.Warn("Skipping SimpleFIN transaction", "account", acct.ID, "id", tx.ID, "error", err)
				continue
			}
			if txn.Date.Before(startDate) || !txn.Date.Before(last) {
				continue
			}
			txns = append(txns, txn)
		}
	}

	c.logger.Info("Fetched transactions", "fetched", fetched, "kept", len(txns))
	if len(txns) == 0 {
		return nil, common.ErrNoTransactions
	}
	return txns, nil
}

// GetAccounts returns the IDs of every account behind the access URL.
func (c *Client) GetAccounts(ctx context.Context) ([]string, error) {
	q := url.Values{}
	q.Set("balances-only", "1")
	set, err := c.accounts(ctx, q)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(set.Accounts))
	for _, acct := range set.Accounts {
		ids = append(ids, acct.ID)
	}
	return ids, nil
}

func (c *Client) accounts(ctx context.Context, q url.Values) (*accountSet, error) {
	var set accountSet
	err := common.WithRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.accessURL+"/accounts?"+q.Encode(), nil)
		if err != nil {
			return common.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &common.RetryableError{Err: fmt.Errorf("failed to fetch accounts: %w", err), Retryable: true}
		}
		defer func() { _ = resp.Body.Close() }()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			body, _ := io.ReadAll(resp.Body)
			return &common.RetryableError{
				Err:       fmt.Errorf("SimpleFIN API error: %d - %s", resp.StatusCode, strings.TrimSpace(string(body))),
				Retryable: true,
			}
		case resp.StatusCode != http.StatusOK:
			body, _ := io.ReadAll(resp.Body)
			return common.Permanent(fmt.Errorf("SimpleFIN API error: %d - %s", resp.StatusCode, strings.TrimSpace(string(body))))
		}

		set = accountSet{}
		if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
			return common.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
		return nil
	}, c.retryOpts)
	if err != nil {
		return nil, err
	}
	for _, msg := range set.Errors {
		c.logger.Warn("SimpleFIN reported a problem", "message", msg)
	}
	return &set, nil
}

// toLedger converts a SimpleFIN transaction. Negative amounts are money out.
func toLedger(accountID string, tx transaction) (model.Transaction, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(tx.Amount))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid amount %q: %w", tx.Amount, err)
	}
	amount = amount.Round(2)
	if amount.IsZero() {
		return model.Transaction{}, errors.New("zero amount")
	}

	txnType := model.TypeIncome
	if amount.IsNegative() {
		txnType = model.TypeExpense
	}

	category := plaid.CleanMerchantName(tx.Payee)
	if category == "" {
		category = plaid.CleanMerchantName(tx.Description)
	}
	if category == "" {
		category = model.Miscellaneous
	}

	posted := time.Unix(tx.Posted, 0).UTC()
	return model.Transaction{
		Date:        time.Date(posted.Year(), posted.Month(), posted.Day(), 0, 0, 0, 0, time.UTC),
		Type:        txnType,
		Category:    category,
		Description: strings.TrimSpace(tx.Description),
		Source:      model.SourceSimpleFIN,
		ExternalID:  accountID + "_" + tx.ID,
		Amount:      amount.Abs(),
	}, nil
}

var _ plaid.TransactionFetcher = (*Client)(nil)

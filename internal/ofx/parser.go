// Package ofx imports bank and credit card statements in OFX/QFX format
// into ledger transactions.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

var (
	severityPattern = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// Opening tags at end of line missing their closing bracket.
	unclosedTagPattern = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	leadingDatePattern = regexp.MustCompile(`^\d{2}/\d{2}\s+`)
)

var purchasePrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
}

var genericNames = map[string]bool{
	"DEBIT":           true,
	"CREDIT":          true,
	"PURCHASE":        true,
	"PAYMENT":         true,
	"POS TRANSACTION": true,
	"CARD PURCHASE":   true,
}

// typeCategories names the ledger category for OFX transaction types that
// say more than the payee does, keyed by TRNTYPE.
var typeCategories = map[string]string{
	ofxgo.TrnTypeInt.String():    "Interest",
	ofxgo.TrnTypeDiv.String():    "Interest",
	ofxgo.TrnTypeFee.String():    "Bank Fees",
	ofxgo.TrnTypeSrvChg.String(): "Bank Fees",
	ofxgo.TrnTypeATM.String():    "Cash & ATM",
}

// CategoryRule assigns Category to transactions whose payee contains Match,
// compared case-insensitively.
type CategoryRule struct {
	Match    string
	Category string
}

// Statement is the result of parsing one file.
type Statement struct {
	Accounts     []string
	Transactions []model.Transaction
}

// Parser converts OFX statements to transactions.
type Parser struct {
	logger *slog.Logger
	rules  []CategoryRule
}

// NewParser creates a parser. Rules are tried in order; the first match wins.
// Unmatched transactions are categorized by payee name.
func NewParser(logger *slog.Logger, rules ...CategoryRule) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger.With("component", "ofx"), rules: rules}
}

// Parse reads an OFX/QFX document and returns its transactions. Debits
// become expenses and credits become income, both with positive amounts.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*Statement, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	stmt := &Statement{}
	accounts := make(map[string]bool)

	for _, msg := range resp.Bank {
		bank, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		if acct := string(bank.BankAcctFrom.AcctID); acct != "" {
			accounts[acct] = true
		}
		stmt.Transactions = append(stmt.Transactions, p.convertList(bank.BankTranList)...)
	}

	for _, msg := range resp.CreditCard {
		card, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		if acct := string(card.CCAcctFrom.AcctID); acct != "" {
			accounts[acct] = true
		}
		stmt.Transactions = append(stmt.Transactions, p.convertList(card.BankTranList)...)
	}

	for acct := range accounts {
		stmt.Accounts = append(stmt.Accounts, acct)
	}
	sort.Strings(stmt.Accounts)

	p.logger.Info("Parsed OFX file",
		"transactions", len(stmt.Transactions),
		"accounts", len(stmt.Accounts))

	return stmt, nil
}

func (p *Parser) convertList(list *ofxgo.TransactionList) []model.Transaction {
	if list == nil {
		return nil
	}
	txns := make([]model.Transaction, 0, len(list.Transactions))
	for _, t := range list.Transactions {
		txn, ok := p.convert(t)
		if !ok {
			p.logger.Warn("Skipping zero-amount OFX transaction", "fitid", t.FiTID)
			continue
		}
		txns = append(txns, txn)
	}
	return txns
}

func (p *Parser) convert(t ofxgo.Transaction) (model.Transaction, bool) {
	amount := ratToDecimal(&t.TrnAmt.Rat)
	if amount.IsZero() {
		return model.Transaction{}, false
	}

	txnType := model.TypeExpense
	if amount.IsPositive() {
		txnType = model.TypeIncome
	}

	payee := merchantName(t)
	description := strings.TrimSpace(string(t.Name))
	if memo := strings.TrimSpace(string(t.Memo)); memo != "" && memo != description {
		description = strings.TrimSpace(description + " " + memo)
	}
	if t.CheckNum != "" && !strings.Contains(description, string(t.CheckNum)) {
		description = strings.TrimSpace(description + " #" + string(t.CheckNum))
	}

	return model.Transaction{
		Date:        postedDay(t.DtPosted),
		Type:        txnType,
		Category:    p.categorize(payee, t.TrnType.String()),
		Description: description,
		Source:      model.SourceOFX,
		ExternalID:  string(t.FiTID),
		Amount:      amount.Abs(),
	}, true
}

func (p *Parser) categorize(payee, trnType string) string {
	upper := strings.ToUpper(payee)
	for _, rule := range p.rules {
		if rule.Match != "" && strings.Contains(upper, strings.ToUpper(rule.Match)) {
			return rule.Category
		}
	}
	if category, ok := typeCategories[trnType]; ok {
		return category
	}
	if payee == "" {
		return model.Miscellaneous
	}
	return payee
}

// postedDay is the calendar day the bank posted on, in its own offset, as a
// UTC midnight.
func postedDay(d ofxgo.Date) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// merchantName picks the cleanest payee name available on t.
func merchantName(t ofxgo.Transaction) string {
	if t.Payee != nil && t.Payee.Name != "" {
		return strings.TrimSpace(string(t.Payee.Name))
	}

	name := strings.TrimSpace(string(t.Name))
	if t.Memo != "" && genericNames[strings.ToUpper(name)] {
		name = strings.TrimSpace(string(t.Memo))
	}

	upper := strings.ToUpper(name)
	for _, prefix := range purchasePrefixes {
		if strings.HasPrefix(upper, prefix) {
			name = name[len(prefix):]
			break
		}
	}

	return strings.TrimSpace(leadingDatePattern.ReplaceAllString(name, ""))
}

// preprocess fixes formatting issues common in bank exports.
func preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityPattern.ReplaceAllStringFunc(content, strings.ToUpper)
	return unclosedTagPattern.ReplaceAllString(content, "$1>")
}

func ratToDecimal(r *big.Rat) decimal.Decimal {
	return decimal.NewFromBigInt(r.Num(), 0).DivRound(decimal.NewFromBigInt(r.Denom(), 0), 2)
}

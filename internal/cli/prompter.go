package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/safe-to-spend/internal/money"
	"github.com/shopspring/decimal"
)

// Prompter asks the user for confirmations and missing values.
type Prompter struct {
	reader *LineReader
	writer io.Writer
}

// NewPrompter creates a prompter reading from r and writing prompts to w.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{reader: NewLineReader(r), writer: w}
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.ask(ctx, question+" [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// AskAmount prompts until the user enters a positive amount. Input such as
// "1,234.5" or "$12" is accepted and echoed back in display form.
func (p *Prompter) AskAmount(ctx context.Context, label string) (decimal.Decimal, error) {
	for {
		answer, err := p.ask(ctx, label)
		if err != nil {
			return decimal.Zero, err
		}
		amount := money.ParseFormattedAmount(answer)
		if amount.IsPositive() {
			if _, err := fmt.Fprintln(p.writer, SubtleStyle.Render("  "+money.FormatCurrency(amount))); err != nil {
				return decimal.Zero, err
			}
			return amount, nil
		}
		if _, err := fmt.Fprintln(p.writer, FormatError("Enter an amount greater than zero")); err != nil {
			return decimal.Zero, err
		}
	}
}

// Ask prompts for free text, returning def when the answer is empty.
func (p *Prompter) Ask(ctx context.Context, label, def string) (string, error) {
	prompt := label
	if def != "" {
		prompt += " (" + def + ")"
	}
	answer, err := p.ask(ctx, prompt)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

func (p *Prompter) ask(ctx context.Context, prompt string) (string, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", err
	}
	return p.reader.ReadLine(ctx)
}

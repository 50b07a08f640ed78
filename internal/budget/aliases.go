package budget

import (
	"slices"
	"strings"

	"github.com/Veraticus/safe-to-spend/internal/model"
)

// Decorated alias prefixes for loans and savings goals.
const (
	LoanAliasPrefix    = "Loan: "
	SavingsAliasPrefix = "Savings: "
)

type aliasEntry struct {
	name    string
	aliases []string
}

// AliasIndex maps budget display names to the strings a transaction category
// may use to refer to them. Entries keep registration order: required
// expenses, discretionary expenses, loans, then savings goals.
type AliasIndex struct {
	byName  map[string]int
	entries []aliasEntry
}

// NewAliasIndex builds the index for s. The Income Balance goal is skipped.
func NewAliasIndex(s model.Snapshot) *AliasIndex {
	idx := &AliasIndex{byName: make(map[string]int)}

	for _, e := range s.RequiredExpenses {
		idx.register(e.DisplayName(), e.Category)
	}
	for _, e := range s.DiscretionaryExpenses {
		idx.register(e.DisplayName(), e.Category)
	}
	for _, l := range s.Loans {
		idx.register(l.DisplayName(), l.Category, LoanAliasPrefix+l.Category)
	}
	for _, g := range s.SavingsGoals {
		if g.IsIncomeBalance() {
			continue
		}
		idx.register(g.DisplayName(), g.Category, SavingsAliasPrefix+g.Category)
	}

	return idx
}

func (idx *AliasIndex) register(name string, aliases ...string) {
	pos, ok := idx.byName[name]
	if !ok {
		pos = len(idx.entries)
		idx.byName[name] = pos
		idx.entries = append(idx.entries, aliasEntry{name: name})
	}

	entry := &idx.entries[pos]
	for _, a := range append(aliases, name) {
		if a == "" || slices.Contains(entry.aliases, a) {
			continue
		}
		entry.aliases = append(entry.aliases, a)
	}
}

// Resolve returns the budget display name a transaction category refers to.
// An exact match on any alias wins over a case-insensitive one, and within
// each pass the earliest registered entry wins.
func (idx *AliasIndex) Resolve(category string) (string, bool) {
	category = strings.TrimSpace(category)
	if category == "" {
		return "", false
	}

	for _, e := range idx.entries {
		if slices.Contains(e.aliases, category) {
			return e.name, true
		}
	}
	for _, e := range idx.entries {
		for _, a := range e.aliases {
			if strings.EqualFold(a, category) {
				return e.name, true
			}
		}
	}
	return "", false
}

// Bucket returns the budget name for category, or the trimmed category itself
// when nothing matches.
func (idx *AliasIndex) Bucket(category string) string {
	if name, ok := idx.Resolve(category); ok {
		return name
	}
	return strings.TrimSpace(category)
}

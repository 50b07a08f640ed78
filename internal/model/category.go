package model

// CategoryKind identifies which of the fixed category lists a category belongs to.
type CategoryKind string

const (
	// KindRequired is the essential expense category list.
	KindRequired CategoryKind = "required"
	// KindDiscretionary is the discretionary expense category list.
	KindDiscretionary CategoryKind = "discretionary"
	// KindLoan is the loan category list.
	KindLoan CategoryKind = "loan"
	// KindSavings is the savings goal category list.
	KindSavings CategoryKind = "savings"
)

// Miscellaneous is the catch-all category present in every list. Entries using
// it must carry a description.
const Miscellaneous = "Miscellaneous"

// IncomeBalanceCategory is the synthetic savings category holding leftover
// weekly income. It is computed, never stored.
const IncomeBalanceCategory = "Income Balance"

// RequiredCategories are the 14 essential expense categories.
var RequiredCategories = []string{
	"Rent/Mortgage",
	"Utilities",
	"Groceries",
	"Transportation",
	"Insurance",
	"Healthcare",
	"Childcare",
	"Phone",
	"Internet",
	"Education",
	"Taxes",
	"Personal Care",
	"Pet Care",
	Miscellaneous,
}

// DiscretionaryCategories are the 15 discretionary expense categories.
var DiscretionaryCategories = []string{
	"Dining Out",
	"Entertainment",
	"Shopping",
	"Hobbies",
	"Travel",
	"Subscriptions",
	"Fitness",
	"Gifts",
	"Coffee",
	"Alcohol & Bars",
	"Electronics",
	"Home Decor",
	"Beauty",
	"Charity",
	Miscellaneous,
}

// LoanCategories are the 5 loan categories.
var LoanCategories = []string{
	"Mortgage",
	"Auto Loan",
	"Student Loan",
	"Credit Card",
	Miscellaneous,
}

// SavingsCategories are the 8 savings categories, including the synthetic
// Income Balance category.
var SavingsCategories = []string{
	"Emergency Fund",
	"Retirement",
	"Vacation",
	"Home Down Payment",
	"Education",
	"Investment",
	IncomeBalanceCategory,
	Miscellaneous,
}

// Categories returns the fixed category list for kind.
func Categories(kind CategoryKind) []string {
	switch kind {
	case KindRequired:
		return RequiredCategories
	case KindDiscretionary:
		return DiscretionaryCategories
	case KindLoan:
		return LoanCategories
	case KindSavings:
		return SavingsCategories
	default:
		return nil
	}
}

// IsCategory reports whether name belongs to the list for kind.
func IsCategory(kind CategoryKind, name string) bool {
	for _, c := range Categories(kind) {
		if c == name {
			return true
		}
	}
	return false
}

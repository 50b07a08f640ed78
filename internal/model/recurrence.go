package model

import "strings"

// Recurrence describes how often a budgeted amount repeats.
type Recurrence string

// The eight supported recurrences. Any other value is treated as unrecognized
// and contributes nothing to weekly totals.
const (
	Weekly      Recurrence = "Weekly"
	BiWeekly    Recurrence = "BiWeekly"
	TwiceAMonth Recurrence = "TwiceAMonth"
	Monthly     Recurrence = "Monthly"
	Quarterly   Recurrence = "Quarterly"
	SemiAnnual  Recurrence = "SemiAnnual"
	Yearly      Recurrence = "Yearly"
	OneTime     Recurrence = "OneTime"
)

// Recurrences lists every valid recurrence in display order.
var Recurrences = []Recurrence{
	Weekly,
	BiWeekly,
	TwiceAMonth,
	Monthly,
	Quarterly,
	SemiAnnual,
	Yearly,
	OneTime,
}

// recurrenceAliases maps normalized user spellings to recurrences.
var recurrenceAliases = map[string]Recurrence{
	"weekly":       Weekly,
	"biweekly":     BiWeekly,
	"fortnightly":  BiWeekly,
	"twiceamonth":  TwiceAMonth,
	"semimonthly":  TwiceAMonth,
	"monthly":      Monthly,
	"quarterly":    Quarterly,
	"semiannual":   SemiAnnual,
	"semiannually": SemiAnnual,
	"yearly":       Yearly,
	"annual":       Yearly,
	"annually":     Yearly,
	"onetime":      OneTime,
	"once":         OneTime,
}

// ParseRecurrence converts user input such as "bi-weekly" or "Twice a Month"
// into a Recurrence. Unrecognized input is returned verbatim so legacy values
// survive a round trip; use Valid to reject them at entry time.
func ParseRecurrence(s string) Recurrence {
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))

	if r, ok := recurrenceAliases[key]; ok {
		return r
	}
	return Recurrence(strings.TrimSpace(s))
}

// Valid reports whether r is one of the eight supported recurrences.
func (r Recurrence) Valid() bool {
	for _, known := range Recurrences {
		if r == known {
			return true
		}
	}
	return false
}

// OrWeekly returns r, or Weekly when r is empty.
func (r Recurrence) OrWeekly() Recurrence {
	if r == "" {
		return Weekly
	}
	return r
}

// String implements fmt.Stringer.
func (r Recurrence) String() string {
	return string(r)
}

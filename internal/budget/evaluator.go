// Package budget derives spend-alert status from a monthly budget ceiling and
// the current month's expenses. The evaluation is stateless: it is recomputed
// whenever budget or expense data changes.
package budget

import (
	"time"

	"chitieu/internal/core"
	"chitieu/internal/report"
)

// Tier classifies how close the month's spend is to the budget ceiling.
type Tier string

const (
	TierSafe    Tier = "SAFE"    // below 50% of budget
	TierWarning Tier = "WARNING" // 50% to below 80%
	TierDanger  Tier = "DANGER"  // 80% and above
)

// largeExpenseFraction is the fixed share of the budget above which a single
// expense counts as large.
const largeExpenseFraction = 0.2

// Color returns the display color token bound to the tier.
func (t Tier) Color() string {
	switch t {
	case TierWarning:
		return "#f39c12"
	case TierDanger:
		return "#ff4d4d"
	default:
		return "#87cefa"
	}
}

// Message returns the short human-readable alert text for the tier.
func (t Tier) Message() string {
	switch t {
	case TierWarning:
		return "You are getting close to your budget."
	case TierDanger:
		return "You are about to exceed your budget!"
	default:
		return "Spending is within the safe range."
	}
}

// Status is the result of one evaluation.
type Status struct {
	Budget    core.Money
	Spent     core.Money
	Remaining core.Money // budget - spent, negative when over budget
	Percent   float64    // raw spent/budget ratio in percent, drives the tier
	Display   float64    // Percent clamped at 100 for progress bars
	Tier      Tier
	// LargeExpenses lists this month's single records at or above 20% of
	// the budget, in the order they appear in the input.
	LargeExpenses []core.Expense
}

// Classify maps a raw percent value to its tier.
func Classify(percent float64) Tier {
	switch {
	case percent >= 80:
		return TierDanger
	case percent >= 50:
		return TierWarning
	default:
		return TierSafe
	}
}

// Evaluate computes the alert status for the calendar month of now.
// monthlyBudget must be positive; records may span any time range, only the
// current month is considered.
func Evaluate(monthlyBudget core.Money, records []core.Expense, now time.Time) Status {
	st := Status{Budget: monthlyBudget}

	threshold := largeExpenseFraction * float64(monthlyBudget.Cents)
	for _, e := range records {
		if !report.InMonth(e, now) {
			continue
		}
		st.Spent = st.Spent.Add(e.Amount)
		if float64(e.Amount.Cents) >= threshold {
			st.LargeExpenses = append(st.LargeExpenses, e)
		}
	}

	st.Remaining = monthlyBudget.Sub(st.Spent)
	if monthlyBudget.Cents > 0 {
		st.Percent = float64(st.Spent.Cents) / float64(monthlyBudget.Cents) * 100
	}
	st.Display = st.Percent
	if st.Display > 100 {
		st.Display = 100
	}
	st.Tier = Classify(st.Percent)
	return st
}

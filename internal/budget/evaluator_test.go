package budget

import (
	"testing"
	"time"

	"chitieu/internal/core"
)

var august = time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)

func monthExpense(id string, units int64) core.Expense {
	return core.Expense{
		ID:        id,
		Owner:     "an",
		Name:      "chi " + id,
		Amount:    core.FromUnits(units),
		Date:      "2025-08-15",
		CreatedAt: august,
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		percent float64
		want    Tier
	}{
		{0, TierSafe},
		{49.99, TierSafe},
		{50, TierWarning},
		{79.99, TierWarning},
		{80, TierDanger},
		{100, TierDanger},
		{150, TierDanger},
	}
	for _, tc := range cases {
		if got := Classify(tc.percent); got != tc.want {
			t.Fatalf("Classify(%v) = %s, want %s", tc.percent, got, tc.want)
		}
	}
}

func TestEvaluateDangerAndRemaining(t *testing.T) {
	budget := core.FromUnits(1_000_000)
	records := []core.Expense{
		monthExpense("a", 500_000),
		monthExpense("b", 350_000),
	}

	st := Evaluate(budget, records, august)

	if st.Tier != TierDanger {
		t.Fatalf("tier = %s, want DANGER", st.Tier)
	}
	if st.Spent != core.FromUnits(850_000) {
		t.Fatalf("spent = %s, want 850000", st.Spent)
	}
	if st.Remaining != core.FromUnits(150_000) {
		t.Fatalf("remaining = %s, want 150000", st.Remaining)
	}
	if st.Percent != 85 {
		t.Fatalf("percent = %v, want 85", st.Percent)
	}
}

func TestEvaluateLargeExpenseThreshold(t *testing.T) {
	budget := core.FromUnits(1_000_000)
	big := monthExpense("big", 250_000)    // exactly 20% of budget
	small := monthExpense("small", 150_000)

	st := Evaluate(budget, []core.Expense{big, small}, august)

	if len(st.LargeExpenses) != 1 {
		t.Fatalf("got %d large expenses, want 1", len(st.LargeExpenses))
	}
	if st.LargeExpenses[0].ID != "big" {
		t.Fatalf("flagged %s, want big", st.LargeExpenses[0].ID)
	}
}

func TestEvaluateIgnoresOtherMonths(t *testing.T) {
	budget := core.FromUnits(1_000_000)
	records := []core.Expense{
		{ID: "july", Name: "x", Amount: core.FromUnits(900_000), Date: "2025-07-31"},
		{ID: "lastyear", Name: "y", Amount: core.FromUnits(900_000), Date: "2024-08-15"},
		{ID: "junk", Name: "z", Amount: core.FromUnits(900_000), Date: "someday"},
	}

	st := Evaluate(budget, records, august)

	if st.Spent.Cents != 0 {
		t.Fatalf("spent = %s, want 0", st.Spent)
	}
	if st.Tier != TierSafe {
		t.Fatalf("tier = %s, want SAFE", st.Tier)
	}
}

func TestEvaluateClampsDisplayKeepsRawPercent(t *testing.T) {
	budget := core.FromUnits(100_000)
	st := Evaluate(budget, []core.Expense{monthExpense("a", 150_000)}, august)

	if st.Percent != 150 {
		t.Fatalf("raw percent = %v, want 150", st.Percent)
	}
	if st.Display != 100 {
		t.Fatalf("display percent = %v, want 100", st.Display)
	}
	if st.Remaining != core.FromUnits(-50_000) {
		t.Fatalf("remaining = %s, want -50000", st.Remaining)
	}
	if st.Tier != TierDanger {
		t.Fatalf("tier = %s, want DANGER", st.Tier)
	}
}

func TestTierPresentation(t *testing.T) {
	if TierSafe.Color() != "#87cefa" || TierWarning.Color() != "#f39c12" || TierDanger.Color() != "#ff4d4d" {
		t.Fatal("tier color tokens changed")
	}
	for _, tier := range []Tier{TierSafe, TierWarning, TierDanger} {
		if tier.Message() == "" {
			t.Fatalf("tier %s has no message", tier)
		}
	}
}

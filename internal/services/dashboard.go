package services

import (
	"context"
	"time"

	"chitieu/internal/budget"
	"chitieu/internal/core"
	"chitieu/internal/report"
)

// Dashboard is everything the overview screen needs in one response: window
// totals, the 12-month chart series and the budget alert state.
type Dashboard struct {
	TodayTotal    core.Money     `json:"todayTotal"`
	MonthTotal    core.Money     `json:"monthTotal"`
	ByMonth       [12]core.Money `json:"byMonth"`
	Budget        core.Money     `json:"budget"`
	Remaining     core.Money     `json:"remaining"`
	Percent       float64        `json:"percent"`
	Display       float64        `json:"displayPercent"`
	Tier          budget.Tier    `json:"tier"`
	TierColor     string         `json:"tierColor"`
	TierMessage   string         `json:"tierMessage"`
	LargeExpenses []core.Expense `json:"largeExpenses"`
}

// Dashboard computes the owner's overview for the calendar day/month/year of
// now. The computation is read-only.
func (s *ExpenseService) Dashboard(ctx context.Context, owner string, now time.Time) (Dashboard, error) {
	records, err := s.store.ListExpenses(ctx, owner)
	if err != nil {
		return Dashboard{}, err
	}
	monthly, err := s.store.GetBudget(ctx, owner)
	if err != nil {
		return Dashboard{}, err
	}

	st := budget.Evaluate(monthly, records, now)
	large := st.LargeExpenses
	if large == nil {
		large = []core.Expense{}
	}

	return Dashboard{
		TodayTotal:    report.TotalForDay(records, now.Format(core.DateLayout)),
		MonthTotal:    report.TotalForMonth(records, now.Format("2006-01")),
		ByMonth:       report.TotalsByMonthOfYear(records, now.Year()),
		Budget:        st.Budget,
		Remaining:     st.Remaining,
		Percent:       st.Percent,
		Display:       st.Display,
		Tier:          st.Tier,
		TierColor:     st.Tier.Color(),
		TierMessage:   st.Tier.Message(),
		LargeExpenses: large,
	}, nil
}

// MonthBreakdown sums the owner's expenses per name for one month of one
// year; monthIndex is 0-based. It backs the per-month pie chart.
func (s *ExpenseService) MonthBreakdown(ctx context.Context, owner string, year, monthIndex int) (map[string]core.Money, error) {
	records, err := s.store.ListExpenses(ctx, owner)
	if err != nil {
		return nil, err
	}
	return report.SumByNameForMonth(records, year, monthIndex), nil
}

// GroupedExpenses returns the owner's records grouped for display, most
// recent day first.
func (s *ExpenseService) GroupedExpenses(ctx context.Context, owner string) ([]report.DayGroup, error) {
	records, err := s.store.ListExpenses(ctx, owner)
	if err != nil {
		return nil, err
	}
	return report.GroupByDate(records), nil
}

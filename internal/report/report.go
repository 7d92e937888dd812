// Package report computes time-windowed aggregates over expense records.
// All functions are pure: they never mutate their input and carry no state.
package report

import (
	"sort"
	"time"

	"chitieu/internal/core"
)

// DayGroup is one display bucket: a calendar date and its expenses, most
// recently created first.
type DayGroup struct {
	Date  string
	Items []core.Expense
}

// GroupByDate buckets records by calendar date, most recent day first.
// Within a day, records are ordered by CreatedAt descending; records with
// identical CreatedAt keep their original relative order.
func GroupByDate(records []core.Expense) []DayGroup {
	byDate := make(map[string][]core.Expense)
	for _, e := range records {
		byDate[e.Date] = append(byDate[e.Date], e)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	// ISO dates compare correctly as strings.
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	groups := make([]DayGroup, 0, len(dates))
	for _, d := range dates {
		items := append([]core.Expense(nil), byDate[d]...)
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})
		groups = append(groups, DayGroup{Date: d, Items: items})
	}
	return groups
}

// SumWhere sums amounts over records matching the predicate. An empty input
// sums to zero.
func SumWhere(records []core.Expense, match func(core.Expense) bool) core.Money {
	var total core.Money
	for _, e := range records {
		if match(e) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// TotalForDay sums records whose date equals the given yyyy-mm-dd date.
func TotalForDay(records []core.Expense, isoDate string) core.Money {
	return SumWhere(records, func(e core.Expense) bool {
		return e.Date == isoDate
	})
}

// TotalForMonth sums records whose date starts with the given yyyy-mm prefix.
func TotalForMonth(records []core.Expense, yearMonth string) core.Money {
	prefix := yearMonth + "-"
	return SumWhere(records, func(e core.Expense) bool {
		return len(e.Date) > len(prefix) && e.Date[:len(prefix)] == prefix
	})
}

// TotalsByMonthOfYear buckets every record falling in the given year into its
// 0-based month index. Records with unparsable dates are skipped silently:
// they are legacy noise, not an error.
func TotalsByMonthOfYear(records []core.Expense, year int) [12]core.Money {
	var totals [12]core.Money
	for _, e := range records {
		d, err := core.ParseDate(e.Date)
		if err != nil {
			continue
		}
		if d.Year() != year {
			continue
		}
		idx := int(d.Month()) - 1
		totals[idx] = totals[idx].Add(e.Amount)
	}
	return totals
}

// SumByNameForMonth sums amounts per expense name for one month of one year.
// monthIndex is 0-based. Names with no matching records are absent from the
// result, never zero-valued.
func SumByNameForMonth(records []core.Expense, year, monthIndex int) map[string]core.Money {
	out := make(map[string]core.Money)
	for _, e := range records {
		d, err := core.ParseDate(e.Date)
		if err != nil {
			continue
		}
		if d.Year() != year || int(d.Month())-1 != monthIndex {
			continue
		}
		out[e.Name] = out[e.Name].Add(e.Amount)
	}
	return out
}

// InMonth reports whether the record's date falls in the same calendar month
// as the reference time.
func InMonth(e core.Expense, ref time.Time) bool {
	d, err := core.ParseDate(e.Date)
	if err != nil {
		return false
	}
	return d.Year() == ref.Year() && d.Month() == ref.Month()
}

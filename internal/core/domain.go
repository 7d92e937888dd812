package core

import (
	"strings"
	"time"
)

// DateLayout is the wire and storage format for expense dates.
const DateLayout = "2006-01-02"

// DefaultMonthlyBudget applies when a user never configured a budget:
// 5,000,000 currency units.
var DefaultMonthlyBudget = Money{Cents: 500_000_000}

type (
	// Expense is a single spending record. It is owned exclusively by the
	// user named in Owner; no operation may cross owner boundaries.
	Expense struct {
		ID        string    `json:"id"`
		Owner     string    `json:"-"`
		Name      string    `json:"name"`
		Amount    Money     `json:"amount"`
		Date      string    `json:"date"`
		CreatedAt time.Time `json:"createdAt"`
	}

	// ExpenseUpdate carries a partial field replacement. Nil fields keep
	// their prior value.
	ExpenseUpdate struct {
		Name   *string `json:"name"`
		Amount *Money  `json:"amount"`
		Date   *string `json:"date"`
	}

	// User is an identity record. Username is the immutable key every other
	// record is scoped by. The password hash never leaves the server.
	User struct {
		Username     string    `json:"username"`
		PasswordHash string    `json:"-"`
		Email        string    `json:"email,omitempty"`
		Name         string    `json:"name,omitempty"`
		CreatedAt    time.Time `json:"-"`
	}

	// SavingsGoal is a named saving target. Goals are a flat list for the
	// whole installation, not scoped per user.
	SavingsGoal struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Target Money  `json:"target"`
	}

	// BudgetConfig holds the single active monthly budget for an owner.
	// Latest write wins, no history.
	BudgetConfig struct {
		Owner         string `json:"-"`
		MonthlyBudget Money  `json:"monthlyBudget"`
	}
)

// ParseDate parses an ISO yyyy-mm-dd calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if e.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if _, err := ParseDate(e.Date); err != nil {
		return err
	}
	return nil
}

// Validate checks only the fields present in the update.
func (u ExpenseUpdate) Validate() error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return ErrEmptyName
	}
	if u.Amount != nil && u.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if u.Date != nil {
		if _, err := ParseDate(*u.Date); err != nil {
			return err
		}
	}
	return nil
}

// Empty reports whether the update would change nothing.
func (u ExpenseUpdate) Empty() bool {
	return u.Name == nil && u.Amount == nil && u.Date == nil
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if g.Target.Cents <= 0 {
		return ErrInvalidTarget
	}
	return nil
}

// Package services orchestrates the record store, the aggregator, the budget
// evaluator and the alert publisher behind one owner-scoped API. The owner
// key always arrives as an explicit argument resolved from the request
// context; nothing here holds session state.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"chitieu/internal/amqp"
	"chitieu/internal/budget"
	"chitieu/internal/core"
)

// RecordStore is the persistence the service needs. *storage.SQLiteRepository
// satisfies it.
type RecordStore interface {
	ListExpenses(ctx context.Context, owner string) ([]core.Expense, error)
	CreateExpense(ctx context.Context, e core.Expense) error
	UpdateExpense(ctx context.Context, owner, id string, upd core.ExpenseUpdate) (core.Expense, error)
	DeleteExpense(ctx context.Context, owner, id string) error

	GetBudget(ctx context.Context, owner string) (core.Money, error)
	SetBudget(ctx context.Context, owner string, budget core.Money) error

	ListGoals(ctx context.Context) ([]core.SavingsGoal, error)
	CreateGoal(ctx context.Context, g core.SavingsGoal) error
	DeleteGoal(ctx context.Context, id string) error
}

// AlertPublisher pushes budget alerts to the broker. *amqp.Client satisfies it.
type AlertPublisher interface {
	PublishBudgetAlert(ctx context.Context, msg *amqp.BudgetAlertMessage) error
}

type ExpenseService struct {
	store  RecordStore
	alerts AlertPublisher // optional, may be nil
	now    func() time.Time
}

func NewExpenseService(store RecordStore, alerts AlertPublisher) *ExpenseService {
	return &ExpenseService{
		store:  store,
		alerts: alerts,
		now:    time.Now,
	}
}

// ListExpenses returns every record for the owner.
func (s *ExpenseService) ListExpenses(ctx context.Context, owner string) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx, owner)
}

// AddExpense validates, assigns a server-side id and timestamp, persists the
// record and re-evaluates the budget alert. Ids are generated here so retries
// of a failed call never duplicate records client-side.
func (s *ExpenseService) AddExpense(ctx context.Context, owner, name string, amount core.Money, date string) (core.Expense, error) {
	e := core.Expense{
		ID:        uuid.NewString(),
		Owner:     owner,
		Name:      name,
		Amount:    amount,
		Date:      date,
		CreatedAt: s.now().UTC(),
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	if err := s.store.CreateExpense(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	s.publishAlertIfNeeded(ctx, owner)
	return e, nil
}

// UpdateExpense replaces only the provided fields and returns the result.
func (s *ExpenseService) UpdateExpense(ctx context.Context, owner, id string, upd core.ExpenseUpdate) (core.Expense, error) {
	if err := upd.Validate(); err != nil {
		return core.Expense{}, err
	}
	e, err := s.store.UpdateExpense(ctx, owner, id, upd)
	if err != nil {
		return core.Expense{}, err
	}

	s.publishAlertIfNeeded(ctx, owner)
	return e, nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, owner, id string) error {
	if err := s.store.DeleteExpense(ctx, owner, id); err != nil {
		return err
	}

	s.publishAlertIfNeeded(ctx, owner)
	return nil
}

func (s *ExpenseService) GetBudget(ctx context.Context, owner string) (core.Money, error) {
	return s.store.GetBudget(ctx, owner)
}

// SetBudget stores a new monthly ceiling. Only positive values are accepted.
func (s *ExpenseService) SetBudget(ctx context.Context, owner string, budget core.Money) error {
	if budget.Cents <= 0 {
		return core.ErrInvalidBudget
	}
	if err := s.store.SetBudget(ctx, owner, budget); err != nil {
		return err
	}

	s.publishAlertIfNeeded(ctx, owner)
	return nil
}

func (s *ExpenseService) ListGoals(ctx context.Context) ([]core.SavingsGoal, error) {
	return s.store.ListGoals(ctx)
}

func (s *ExpenseService) AddGoal(ctx context.Context, name string, target core.Money) (core.SavingsGoal, error) {
	g := core.SavingsGoal{
		ID:     uuid.NewString(),
		Name:   name,
		Target: target,
	}
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	if err := s.store.CreateGoal(ctx, g); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("save goal: %w", err)
	}
	return g, nil
}

func (s *ExpenseService) DeleteGoal(ctx context.Context, id string) error {
	return s.store.DeleteGoal(ctx, id)
}

// publishAlertIfNeeded re-evaluates the owner's month and publishes when the
// tier is WARNING or DANGER. Failures are logged and never fail the request
// that triggered them.
func (s *ExpenseService) publishAlertIfNeeded(ctx context.Context, owner string) {
	if s.alerts == nil {
		return
	}

	st, err := s.evaluate(ctx, owner)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to evaluate budget for alert", "owner", owner, "error", err)
		return
	}
	if st.Tier == budget.TierSafe {
		return
	}

	msg := amqp.NewBudgetAlertMessage(owner, string(st.Tier), st.Spent.Cents, st.Budget.Cents, st.Remaining.Cents)
	if err := s.alerts.PublishBudgetAlert(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish budget alert", "owner", owner, "tier", st.Tier, "error", err)
	}
}

func (s *ExpenseService) evaluate(ctx context.Context, owner string) (budget.Status, error) {
	records, err := s.store.ListExpenses(ctx, owner)
	if err != nil {
		return budget.Status{}, err
	}
	monthly, err := s.store.GetBudget(ctx, owner)
	if err != nil {
		return budget.Status{}, err
	}
	return budget.Evaluate(monthly, records, s.now()), nil
}

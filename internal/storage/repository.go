// Package storage persists users, expenses, budgets and savings goals in
// SQLite. Every record lives in its own row keyed by owner+id, and partial
// updates run inside a transaction, so concurrent writers for the same owner
// cannot lose each other's updates.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"chitieu/internal/core"

	_ "modernc.org/sqlite"
)

// timeLayout is how created_at columns are stored.
const timeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// transient tags an unexpected storage failure as retryable for callers.
func transient(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, core.ErrUnavailable, err)
}

// CreateUser inserts a new identity record. Returns core.ErrDuplicateUser
// when the username is taken.
func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return transient("begin create user", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`, u.Username).Scan(&exists)
	if err != nil {
		return transient("check username", err)
	}
	if exists {
		return core.ErrDuplicateUser
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, email, name, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.Username, u.PasswordHash, u.Email, u.Name, u.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return transient("insert user", err)
	}
	if err := tx.Commit(); err != nil {
		return transient("commit create user", err)
	}

	slog.InfoContext(ctx, "User created", "username", u.Username)
	return nil
}

func (r *SQLiteRepository) GetUser(ctx context.Context, username string) (core.User, error) {
	var (
		u         core.User
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT username, password_hash, email, name, created_at FROM users WHERE username = ?`,
		username).Scan(&u.Username, &u.PasswordHash, &u.Email, &u.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, transient("get user", err)
	}
	u.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return u, nil
}

// ListExpenses returns all records for the owner in insertion order. Ordering
// for display is the aggregator's job, but insertion order makes same-instant
// tie-breaks deterministic.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, owner string) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner, name, amount_cents, date, created_at FROM expenses WHERE owner = ? ORDER BY rowid`,
		owner)
	if err != nil {
		return nil, transient("list expenses", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, transient("scan expense", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, transient("iterate expenses", err)
	}
	return out, nil
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, owner, name, amount_cents, date, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Owner, e.Name, e.Amount.Cents, e.Date, e.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return transient("insert expense", err)
	}
	slog.InfoContext(ctx, "Expense saved", "id", e.ID, "owner", e.Owner, "amount_cents", e.Amount.Cents, "date", e.Date)
	return nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, owner, id string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner, name, amount_cents, date, created_at FROM expenses WHERE owner = ? AND id = ?`,
		owner, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, transient("get expense", err)
	}
	return e, nil
}

// UpdateExpense replaces only the fields present in upd, inside one
// transaction, and returns the resulting record. Fails with core.ErrNotFound
// when the id does not exist under the owner.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, owner, id string, upd core.ExpenseUpdate) (core.Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Expense{}, transient("begin update expense", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT id, owner, name, amount_cents, date, created_at FROM expenses WHERE owner = ? AND id = ?`,
		owner, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, transient("read expense for update", err)
	}

	if upd.Name != nil {
		e.Name = *upd.Name
	}
	if upd.Amount != nil {
		e.Amount = *upd.Amount
	}
	if upd.Date != nil {
		e.Date = *upd.Date
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE expenses SET name = ?, amount_cents = ?, date = ? WHERE owner = ? AND id = ?`,
		e.Name, e.Amount.Cents, e.Date, owner, id)
	if err != nil {
		return core.Expense{}, transient("update expense", err)
	}
	if err := tx.Commit(); err != nil {
		return core.Expense{}, transient("commit update expense", err)
	}

	slog.InfoContext(ctx, "Expense updated", "id", id, "owner", owner)
	return e, nil
}

// DeleteExpense removes the record permanently. No soft delete, no undo.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, owner, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE owner = ? AND id = ?`, owner, id)
	if err != nil {
		return transient("delete expense", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return transient("delete expense result", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	slog.InfoContext(ctx, "Expense deleted", "id", id, "owner", owner)
	return nil
}

// GetBudget returns the owner's monthly budget, or the installation default
// when none was ever set.
func (r *SQLiteRepository) GetBudget(ctx context.Context, owner string) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT monthly_budget_cents FROM budget_configs WHERE owner = ?`, owner).Scan(&cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DefaultMonthlyBudget, nil
	}
	if err != nil {
		return core.Money{}, transient("get budget", err)
	}
	return core.Money{Cents: cents}, nil
}

// SetBudget stores the owner's monthly budget. Latest write wins.
func (r *SQLiteRepository) SetBudget(ctx context.Context, owner string, budget core.Money) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budget_configs (owner, monthly_budget_cents) VALUES (?, ?)
		 ON CONFLICT(owner) DO UPDATE SET monthly_budget_cents = excluded.monthly_budget_cents`,
		owner, budget.Cents)
	if err != nil {
		return transient("set budget", err)
	}
	slog.InfoContext(ctx, "Budget set", "owner", owner, "budget_cents", budget.Cents)
	return nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.SavingsGoal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, target_cents FROM savings_goals ORDER BY rowid`)
	if err != nil {
		return nil, transient("list goals", err)
	}
	defer rows.Close()

	var out []core.SavingsGoal
	for rows.Next() {
		var g core.SavingsGoal
		if err := rows.Scan(&g.ID, &g.Name, &g.Target.Cents); err != nil {
			return nil, transient("scan goal", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, transient("iterate goals", err)
	}
	return out, nil
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.SavingsGoal) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO savings_goals (id, name, target_cents, created_at) VALUES (?, ?, ?, ?)`,
		g.ID, g.Name, g.Target.Cents, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return transient("insert goal", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = ?`, id)
	if err != nil {
		return transient("delete goal", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return transient("delete goal result", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e         core.Expense
		createdAt string
	)
	if err := row.Scan(&e.ID, &e.Owner, &e.Name, &e.Amount.Cents, &e.Date, &createdAt); err != nil {
		return core.Expense{}, err
	}
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse created_at: %w", err)
	}
	e.CreatedAt = t
	return e, nil
}

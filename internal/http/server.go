// Package http exposes the expense tracker as a JSON API. Handlers only
// translate between the wire and the services; all domain rules live below.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"chitieu/internal/auth"
	"chitieu/internal/core"
	"chitieu/internal/report"
	"chitieu/internal/services"
)

// ExpenseAPI is the owner-scoped surface the handlers call.
// *services.ExpenseService satisfies it.
type ExpenseAPI interface {
	ListExpenses(ctx context.Context, owner string) ([]core.Expense, error)
	GroupedExpenses(ctx context.Context, owner string) ([]report.DayGroup, error)
	AddExpense(ctx context.Context, owner, name string, amount core.Money, date string) (core.Expense, error)
	UpdateExpense(ctx context.Context, owner, id string, upd core.ExpenseUpdate) (core.Expense, error)
	DeleteExpense(ctx context.Context, owner, id string) error

	Dashboard(ctx context.Context, owner string, now time.Time) (services.Dashboard, error)
	MonthBreakdown(ctx context.Context, owner string, year, monthIndex int) (map[string]core.Money, error)

	GetBudget(ctx context.Context, owner string) (core.Money, error)
	SetBudget(ctx context.Context, owner string, budget core.Money) error

	ListGoals(ctx context.Context) ([]core.SavingsGoal, error)
	AddGoal(ctx context.Context, name string, target core.Money) (core.SavingsGoal, error)
	DeleteGoal(ctx context.Context, id string) error
}

// Authenticator is the identity gate. *auth.Service satisfies it.
type Authenticator interface {
	Register(ctx context.Context, username, password, email, name string) (core.User, string, error)
	Login(ctx context.Context, username, password string) (core.User, string, error)
	Verify(token string) (auth.Identity, error)
}

// credentialRequestsPerMinute caps register/login attempts per client IP.
const credentialRequestsPerMinute = 20

type Server struct {
	http.Server
	api     ExpenseAPI
	authn   Authenticator
	limiter *rateLimiter
}

func NewServer(addr string, api ExpenseAPI, authn Authenticator, allowedOrigins []string) *Server {
	s := &Server{
		api:     api,
		authn:   authn,
		limiter: newRateLimiter(credentialRequestsPerMinute),
	}
	s.Addr = addr
	s.Handler = s.routes(allowedOrigins)
	s.RegisterOnShutdown(s.limiter.Stop)
	return s
}

func (s *Server) routes(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(traceMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.limiter.middleware)
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/auth/me", s.handleMe)

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", s.handleListExpenses)
			r.Post("/", s.handleAddExpense)
			r.Get("/grouped", s.handleGroupedExpenses)
			r.Put("/{id}", s.handleUpdateExpense)
			r.Delete("/{id}", s.handleDeleteExpense)
		})

		r.Get("/dashboard", s.handleDashboard)
		r.Get("/dashboard/breakdown", s.handleMonthBreakdown)

		r.Get("/budget", s.handleGetBudget)
		r.Put("/budget", s.handleSetBudget)

		r.Route("/goals", func(r chi.Router) {
			r.Get("/", s.handleListGoals)
			r.Post("/", s.handleAddGoal)
			r.Delete("/{id}", s.handleDeleteGoal)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"chitieu/internal/core"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	own, err := owner(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	d, err := s.api.Dashboard(r.Context(), own, time.Now())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (s *Server) handleMonthBreakdown(w http.ResponseWriter, r *http.Request) {
	own, err := owner(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	year, monthIndex, err := yearMonthParams(r, time.Now())
	if err != nil {
		respondError(w, r, err)
		return
	}

	byName, err := s.api.MonthBreakdown(r.Context(), own, year, monthIndex)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"year":   year,
		"month":  monthIndex + 1,
		"byName": byName,
	})
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	own, err := owner(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	budget, err := s.api.GetBudget(r.Context(), own)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]core.Money{"budget": budget})
}

type setBudgetRequest struct {
	Budget *core.Money `json:"budget"`
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	own, err := owner(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req setBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.Budget == nil {
		respondError(w, r, core.ErrInvalidBudget)
		return
	}

	if err := s.api.SetBudget(r.Context(), own, *req.Budget); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]core.Money{"budget": *req.Budget})
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.api.ListGoals(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if goals == nil {
		goals = []core.SavingsGoal{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"goals": goals})
}

type addGoalRequest struct {
	Name   string      `json:"name"`
	Target *core.Money `json:"target"`
}

func (s *Server) handleAddGoal(w http.ResponseWriter, r *http.Request) {
	var req addGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.Target == nil {
		respondError(w, r, core.ErrInvalidTarget)
		return
	}

	goal, err := s.api.AddGoal(r.Context(), req.Name, *req.Target)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"goal": goal})
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.api.DeleteGoal(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"chitieu/internal/core"
)

type addExpenseRequest struct {
	Name   string      `json:"name"`
	Amount *core.Money `json:"amount"`
	Date   string      `json:"date"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	own, err := owner(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	expenses, err := s.api.ListExpenses(r.Context(), own)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	own, err := owner(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req addExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.Amount == nil {
		respondError(w, r, core.ErrInvalidAmount)
		return
	}

	expense, err := s.api.AddExpense(r.Context(), own, req.Name, *req.Amount, req.Date)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"expense": expense})
}

func (s *Server) handleGroupedExpenses(w http.ResponseWriter, r *http.Request) {
	own, err := owner(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	groups, err := s.api.GroupedExpenses(r.Context(), own)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"groups": groups})
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	own, err := owner(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var upd core.ExpenseUpdate
	if err := decodeJSON(r, &upd); err != nil {
		respondError(w, r, err)
		return
	}

	expense, err := s.api.UpdateExpense(r.Context(), own, chi.URLParam(r, "id"), upd)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"expense": expense})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	own, err := owner(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.api.DeleteExpense(r.Context(), own, chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

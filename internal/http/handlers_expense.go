package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Yordi314/lanomina/internal/core"
)

type expenseRequest struct {
	Date         string `json:"date"`
	Amount       string `json:"amount"`
	CategoryID   string `json:"category_id"`
	CategoryType string `json:"category_type"`
	Description  string `json:"description"`
	IsGas        bool   `json:"is_gas"`
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		badRequest(w, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		badRequest(w, err)
		return
	}

	e, err := s.ledger.AddExpense(r.Context(), core.Expense{
		AccountID:    s.accountID(r),
		Date:         date,
		Amount:       amount,
		CategoryID:   req.CategoryID,
		CategoryType: core.TargetKind(req.CategoryType),
		Description:  req.Description,
		IsGas:        req.IsGas,
	})
	observeCommand("add_expense", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewExpense(e))
}

type updateExpenseRequest struct {
	Date         *string `json:"date"`
	Amount       *string `json:"amount"`
	CategoryID   *string `json:"category_id"`
	CategoryType *string `json:"category_type"`
	Description  *string `json:"description"`
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	accountID := s.accountID(r)
	id := chi.URLParam(r, "id")

	var req updateExpenseRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	existing, err := s.findExpense(r, accountID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.Amount != nil {
		m, err := parseAmount(*req.Amount)
		if err != nil {
			badRequest(w, err)
			return
		}
		existing.Amount = m
	}
	if req.Date != nil {
		d, err := parseDate(*req.Date)
		if err != nil {
			badRequest(w, err)
			return
		}
		existing.Date = d
	}
	if req.CategoryID != nil {
		existing.CategoryID = *req.CategoryID
	}
	if req.CategoryType != nil {
		existing.CategoryType = core.TargetKind(*req.CategoryType)
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}

	err = s.ledger.UpdateExpense(r.Context(), existing)
	observeCommand("update_expense", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewExpense(existing))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	err := s.ledger.DeleteExpense(r.Context(), s.accountID(r), chi.URLParam(r, "id"))
	observeCommand("delete_expense", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.projector.Expenses(r.Context(), s.accountID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]expenseView, 0, len(expenses))
	for _, e := range expenses {
		views = append(views, viewExpense(e))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) findExpense(r *http.Request, accountID, id string) (core.Expense, error) {
	expenses, err := s.projector.Expenses(r.Context(), accountID)
	if err != nil {
		return core.Expense{}, err
	}
	for _, e := range expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, core.ErrNotFound
}

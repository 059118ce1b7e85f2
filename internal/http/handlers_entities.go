package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Yordi314/lanomina/internal/core"
)

type goalRequest struct {
	Name                 string `json:"name"`
	TargetAmount         string `json:"target_amount"`
	AllocationPercentage int    `json:"allocation_percentage"`
	DueDate              string `json:"due_date"`
}

func (req goalRequest) toGoal(accountID, id string) (core.Goal, error) {
	target, err := parseAmount(req.TargetAmount)
	if err != nil {
		return core.Goal{}, err
	}
	g := core.Goal{
		ID:                   id,
		AccountID:            accountID,
		Name:                 req.Name,
		TargetAmount:         target,
		AllocationPercentage: req.AllocationPercentage,
	}
	if req.DueDate != "" {
		due, err := parseDate(req.DueDate)
		if err != nil {
			return core.Goal{}, err
		}
		g.DueDate = &due
	}
	return g, nil
}

func (s *Server) handleAddGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	g, err := req.toGoal(s.accountID(r), "")
	if err != nil {
		badRequest(w, err)
		return
	}

	g, err = s.ledger.AddGoal(r.Context(), g)
	observeCommand("add_goal", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewGoal(g))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	g, err := req.toGoal(s.accountID(r), chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, err)
		return
	}

	err = s.ledger.UpdateGoal(r.Context(), g)
	observeCommand("update_goal", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	err := s.ledger.DeleteGoal(r.Context(), s.accountID(r), chi.URLParam(r, "id"))
	observeCommand("delete_goal", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type fundRequest struct {
	Amount string `json:"amount"`
}

func (s *Server) handleFundGoal(w http.ResponseWriter, r *http.Request) {
	var req fundRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		badRequest(w, err)
		return
	}

	err = s.ledger.FundGoal(r.Context(), s.accountID(r), chi.URLParam(r, "id"), amount)
	observeCommand("fund_goal", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type periodicExpenseRequest struct {
	Name         string `json:"name"`
	TargetAmount string `json:"target_amount"`
	DueDate      string `json:"due_date"`
	Frequency    string `json:"frequency"`
}

func (req periodicExpenseRequest) toPeriodicExpense(accountID, id string) (core.PeriodicExpense, error) {
	target, err := parseAmount(req.TargetAmount)
	if err != nil {
		return core.PeriodicExpense{}, err
	}
	due := time.Time{}
	if req.DueDate != "" {
		due, err = parseDate(req.DueDate)
		if err != nil {
			return core.PeriodicExpense{}, err
		}
	}
	return core.PeriodicExpense{
		ID:           id,
		AccountID:    accountID,
		Name:         req.Name,
		TargetAmount: target,
		DueDate:      due,
		Frequency:    core.PeriodicFrequency(req.Frequency),
	}, nil
}

func (s *Server) handleAddPeriodicExpense(w http.ResponseWriter, r *http.Request) {
	var req periodicExpenseRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	p, err := req.toPeriodicExpense(s.accountID(r), "")
	if err != nil {
		badRequest(w, err)
		return
	}

	p, err = s.ledger.AddPeriodicExpense(r.Context(), p)
	observeCommand("add_periodic_expense", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewPeriodicExpense(p))
}

func (s *Server) handleUpdatePeriodicExpense(w http.ResponseWriter, r *http.Request) {
	var req periodicExpenseRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	p, err := req.toPeriodicExpense(s.accountID(r), chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, err)
		return
	}

	err = s.ledger.UpdatePeriodicExpense(r.Context(), p)
	observeCommand("update_periodic_expense", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeletePeriodicExpense(w http.ResponseWriter, r *http.Request) {
	err := s.ledger.DeletePeriodicExpense(r.Context(), s.accountID(r), chi.URLParam(r, "id"))
	observeCommand("delete_periodic_expense", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleFundPeriodicExpense(w http.ResponseWriter, r *http.Request) {
	var req fundRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		badRequest(w, err)
		return
	}

	err = s.ledger.FundPeriodicExpense(r.Context(), s.accountID(r), chi.URLParam(r, "id"), amount)
	observeCommand("fund_periodic_expense", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type fixedBillRequest struct {
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	Frequency string `json:"frequency"`
	Fortnight *int   `json:"fortnight"`
}

func (req fixedBillRequest) toFixedBill(accountID, id string) (core.FixedBill, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.FixedBill{}, err
	}
	return core.FixedBill{
		ID:        id,
		AccountID: accountID,
		Name:      req.Name,
		Amount:    amount,
		Frequency: core.BillFrequency(req.Frequency),
		Fortnight: req.Fortnight,
	}, nil
}

func (s *Server) handleAddFixedBill(w http.ResponseWriter, r *http.Request) {
	var req fixedBillRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	b, err := req.toFixedBill(s.accountID(r), "")
	if err != nil {
		badRequest(w, err)
		return
	}

	b, err = s.ledger.AddFixedBill(r.Context(), b)
	observeCommand("add_fixed_bill", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewFixedBill(b))
}

func (s *Server) handleUpdateFixedBill(w http.ResponseWriter, r *http.Request) {
	var req fixedBillRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	b, err := req.toFixedBill(s.accountID(r), chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, err)
		return
	}

	err = s.ledger.UpdateFixedBill(r.Context(), b)
	observeCommand("update_fixed_bill", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteFixedBill(w http.ResponseWriter, r *http.Request) {
	err := s.ledger.DeleteFixedBill(r.Context(), s.accountID(r), chi.URLParam(r, "id"))
	observeCommand("delete_fixed_bill", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Yordi314/lanomina/internal/core"
)

type loanRequest struct {
	Name          string `json:"name"`
	TotalAmount   string `json:"total_amount"`
	DurationValue int    `json:"duration_value"`
	DurationType  string `json:"duration_type"`
	StartDate     string `json:"start_date"`
}

func (req loanRequest) toLoan(accountID, id string) (core.Loan, error) {
	total, err := parseAmount(req.TotalAmount)
	if err != nil {
		return core.Loan{}, err
	}
	ln := core.Loan{
		ID:            id,
		AccountID:     accountID,
		Name:          req.Name,
		TotalAmount:   total,
		DurationValue: req.DurationValue,
		DurationType:  core.DurationType(req.DurationType),
	}
	if req.StartDate != "" {
		start, err := parseDate(req.StartDate)
		if err != nil {
			return core.Loan{}, err
		}
		ln.StartDate = start
	}
	return ln, nil
}

func (s *Server) handleAddLoan(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	ln, err := req.toLoan(s.accountID(r), "")
	if err != nil {
		badRequest(w, err)
		return
	}

	ln, err = s.ledger.AddLoan(r.Context(), ln)
	observeCommand("add_loan", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewLoan(ln))
}

func (s *Server) handleUpdateLoan(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	ln, err := req.toLoan(s.accountID(r), chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, err)
		return
	}

	err = s.ledger.UpdateLoan(r.Context(), ln)
	observeCommand("update_loan", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteLoan(w http.ResponseWriter, r *http.Request) {
	err := s.ledger.DeleteLoan(r.Context(), s.accountID(r), chi.URLParam(r, "id"))
	observeCommand("delete_loan", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type loanStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleToggleLoanStatus(w http.ResponseWriter, r *http.Request) {
	var req loanStatusRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	err := s.ledger.ToggleLoanStatus(r.Context(), s.accountID(r), chi.URLParam(r, "id"), core.LoanStatus(req.Status))
	observeCommand("toggle_loan_status", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type payLoanRequest struct {
	SourceCategoryID string `json:"source_category_id"`
	Amount           string `json:"amount"`
}

func (s *Server) handlePayLoan(w http.ResponseWriter, r *http.Request) {
	var req payLoanRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		badRequest(w, err)
		return
	}

	e, err := s.ledger.PayLoan(r.Context(), s.accountID(r), chi.URLParam(r, "id"), req.SourceCategoryID, amount)
	observeCommand("pay_loan", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewExpense(e))
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

// handleResetAllData wipes every collection except the categories themselves,
// whose balances are zeroed. The body must carry an explicit confirm flag.
func (s *Server) handleResetAllData(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if !req.Confirm {
		badRequest(w, errors.New("reset requires confirm=true"))
		return
	}

	err := s.ledger.ResetAllData(r.Context(), s.accountID(r))
	observeCommand("reset_all_data", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

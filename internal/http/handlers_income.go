package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Yordi314/lanomina/internal/core"
	"github.com/Yordi314/lanomina/internal/metrics"
)

// observeCommand records the outcome of a mutating operation.
func observeCommand(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.CommandsTotal.WithLabelValues(operation, outcome).Inc()
}

type recordIncomeRequest struct {
	Concept      string `json:"concept"`
	Date         string `json:"date"`
	Amount       string `json:"amount"`
	IncludesGas  bool   `json:"includes_gas"`
	Distribution struct {
		Fixed    string `json:"fixed"`
		Savings  string `json:"savings"`
		Variable string `json:"variable"`
	} `json:"distribution"`
}

func (s *Server) handleRecordIncome(w http.ResponseWriter, r *http.Request) {
	var req recordIncomeRequest
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

	var dist core.Distribution
	for _, share := range []struct {
		raw string
		dst *core.Money
	}{
		{req.Distribution.Fixed, &dist.Fixed},
		{req.Distribution.Savings, &dist.Savings},
		{req.Distribution.Variable, &dist.Variable},
	} {
		if share.raw == "" {
			continue
		}
		cents, err := core.ParseDecimalToCents(share.raw)
		if err != nil {
			badRequest(w, err)
			return
		}
		share.dst.Cents = cents
	}

	in, err := s.ledger.RecordIncome(r.Context(), core.Income{
		AccountID:   s.accountID(r),
		Date:        date,
		Concept:     req.Concept,
		Amount:      amount,
		IncludesGas: req.IncludesGas,
	}, dist)
	observeCommand("record_income", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewIncome(in))
}

type externalIncomeRequest struct {
	Concept    string `json:"concept"`
	Date       string `json:"date"`
	Amount     string `json:"amount"`
	CategoryID string `json:"category_id"`
}

func (s *Server) handleRecordExternalIncome(w http.ResponseWriter, r *http.Request) {
	var req externalIncomeRequest
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

	in, err := s.ledger.RecordExternalIncome(r.Context(), core.Income{
		AccountID: s.accountID(r),
		Date:      date,
		Concept:   req.Concept,
		Amount:    amount,
	}, req.CategoryID)
	observeCommand("record_external_income", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewIncome(in))
}

type updateIncomeRequest struct {
	Concept *string `json:"concept"`
	Date    *string `json:"date"`
	Amount  *string `json:"amount"`
}

type updateIncomeResponse struct {
	Income           incomeView `json:"income"`
	BalancesAdjusted bool       `json:"balances_adjusted"`
}

// handleUpdateIncome edits the history record only. The response carries an
// explicit balances_adjusted=false so clients can tell the user the original
// split was not re-applied.
func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	accountID := s.accountID(r)
	id := chi.URLParam(r, "id")

	var req updateIncomeRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	existing, err := s.findIncome(r, accountID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.Concept != nil {
		existing.Concept = *req.Concept
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

	err = s.ledger.UpdateIncome(r.Context(), existing)
	observeCommand("update_income", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updateIncomeResponse{
		Income:           viewIncome(existing),
		BalancesAdjusted: false,
	})
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	err := s.ledger.DeleteIncome(r.Context(), s.accountID(r), chi.URLParam(r, "id"))
	observeCommand("delete_income", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	incomes, err := s.projector.Incomes(r.Context(), s.accountID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]incomeView, 0, len(incomes))
	for _, in := range incomes {
		views = append(views, viewIncome(in))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) findIncome(r *http.Request, accountID, id string) (core.Income, error) {
	incomes, err := s.projector.Incomes(r.Context(), accountID)
	if err != nil {
		return core.Income{}, err
	}
	for _, in := range incomes {
		if in.ID == id {
			return in, nil
		}
	}
	return core.Income{}, core.ErrNotFound
}

type transferRequest struct {
	FromCategoryID string `json:"from_category_id"`
	ToCategoryID   string `json:"to_category_id"`
	Amount         string `json:"amount"`
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		badRequest(w, err)
		return
	}

	err = s.ledger.Transfer(r.Context(), s.accountID(r), req.FromCategoryID, req.ToCategoryID, amount)
	observeCommand("transfer", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// This file maps core entities onto their JSON wire shapes. Money is
// rendered as both raw cents and a display string so clients never have to
// re-implement formatting.

package http

import (
	"time"

	"github.com/Yordi314/lanomina/internal/core"
)

type moneyView struct {
	Cents     int64  `json:"cents"`
	Formatted string `json:"formatted"`
}

func viewMoney(m core.Money) moneyView {
	return moneyView{Cents: m.Cents, Formatted: core.FormatCents(m.Cents)}
}

type categoryView struct {
	ID                   string    `json:"id"`
	Slug                 string    `json:"slug"`
	Name                 string    `json:"name"`
	AllocationPercentage int       `json:"allocation_percentage"`
	Balance              moneyView `json:"balance"`
}

func viewCategory(c core.Category) categoryView {
	return categoryView{
		ID:                   c.ID,
		Slug:                 string(c.Slug),
		Name:                 c.Name,
		AllocationPercentage: c.AllocationPercentage,
		Balance:              viewMoney(c.Balance),
	}
}

// progressPercent reports how far current has come toward target, capped
// at 100. A zero target reads as fully funded.
func progressPercent(current, target core.Money) float64 {
	if target.Cents <= 0 {
		return 100
	}
	pct := float64(current.Cents) / float64(target.Cents) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

type goalView struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	TargetAmount         moneyView  `json:"target_amount"`
	CurrentAmount        moneyView  `json:"current_amount"`
	ProgressPercent      float64    `json:"progress_percent"`
	AllocationPercentage int        `json:"allocation_percentage"`
	DueDate              *time.Time `json:"due_date,omitempty"`
}

func viewGoal(g core.Goal) goalView {
	return goalView{
		ID:                   g.ID,
		Name:                 g.Name,
		TargetAmount:         viewMoney(g.TargetAmount),
		CurrentAmount:        viewMoney(g.CurrentAmount),
		ProgressPercent:      progressPercent(g.CurrentAmount, g.TargetAmount),
		AllocationPercentage: g.AllocationPercentage,
		DueDate:              g.DueDate,
	}
}

type periodicExpenseView struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	TargetAmount    moneyView `json:"target_amount"`
	CurrentAmount   moneyView `json:"current_amount"`
	ProgressPercent float64   `json:"progress_percent"`
	DueDate         time.Time `json:"due_date"`
	Frequency       string    `json:"frequency"`
}

func viewPeriodicExpense(p core.PeriodicExpense) periodicExpenseView {
	return periodicExpenseView{
		ID:              p.ID,
		Name:            p.Name,
		TargetAmount:    viewMoney(p.TargetAmount),
		CurrentAmount:   viewMoney(p.CurrentAmount),
		ProgressPercent: progressPercent(p.CurrentAmount, p.TargetAmount),
		DueDate:         p.DueDate,
		Frequency:       string(p.Frequency),
	}
}

type fixedBillView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Amount    moneyView `json:"amount"`
	Frequency string    `json:"frequency"`
	Fortnight *int      `json:"fortnight,omitempty"`
}

func viewFixedBill(b core.FixedBill) fixedBillView {
	return fixedBillView{
		ID:        b.ID,
		Name:      b.Name,
		Amount:    viewMoney(b.Amount),
		Frequency: string(b.Frequency),
		Fortnight: b.Fortnight,
	}
}

type loanView struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	TotalAmount         moneyView `json:"total_amount"`
	DurationValue       int       `json:"duration_value"`
	DurationType        string    `json:"duration_type"`
	PaymentPerFortnight moneyView `json:"payment_per_fortnight"`
	StartDate           time.Time `json:"start_date"`
	Status              string    `json:"status"`
}

func viewLoan(ln core.Loan) loanView {
	return loanView{
		ID:                  ln.ID,
		Name:                ln.Name,
		TotalAmount:         viewMoney(ln.TotalAmount),
		DurationValue:       ln.DurationValue,
		DurationType:        string(ln.DurationType),
		PaymentPerFortnight: viewMoney(ln.PaymentPerFortnight),
		StartDate:           ln.StartDate,
		Status:              string(ln.Status),
	}
}

type loanProgressView struct {
	loanView
	PaidAmount moneyView `json:"paid_amount"`
	Remaining  moneyView `json:"remaining"`
}

func viewLoanProgress(lp core.LoanProgress) loanProgressView {
	return loanProgressView{
		loanView:   viewLoan(lp.Loan),
		PaidAmount: viewMoney(lp.PaidAmount),
		Remaining:  viewMoney(lp.Remaining),
	}
}

type incomeView struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Concept     string    `json:"concept"`
	Amount      moneyView `json:"amount"`
	IncludesGas bool      `json:"includes_gas"`
}

func viewIncome(in core.Income) incomeView {
	return incomeView{
		ID:          in.ID,
		Date:        in.Date,
		Concept:     in.Concept,
		Amount:      viewMoney(in.Amount),
		IncludesGas: in.IncludesGas,
	}
}

type expenseView struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	Amount       moneyView `json:"amount"`
	CategoryID   string    `json:"category_id"`
	CategoryType string    `json:"category_type"`
	Description  string    `json:"description"`
	IsGas        bool      `json:"is_gas"`
}

func viewExpense(e core.Expense) expenseView {
	return expenseView{
		ID:           e.ID,
		Date:         e.Date,
		Amount:       viewMoney(e.Amount),
		CategoryID:   e.CategoryID,
		CategoryType: string(e.CategoryType),
		Description:  e.Description,
		IsGas:        e.IsGas,
	}
}

type gasLedgerView struct {
	TotalIncome  moneyView `json:"total_income"`
	TotalExpense moneyView `json:"total_expense"`
	Available    moneyView `json:"available"`
}

type snapshotView struct {
	AccountID        string    `json:"account_id"`
	AsOf             time.Time `json:"as_of"`
	CurrentFortnight int       `json:"current_fortnight"`

	Categories   []categoryView `json:"categories"`
	TotalBalance moneyView      `json:"total_balance"`

	Goals            []goalView            `json:"goals"`
	PeriodicExpenses []periodicExpenseView `json:"periodic_expenses"`
	FixedBills       []fixedBillView       `json:"fixed_bills"`
	Loans            []loanProgressView    `json:"loans"`

	Gas gasLedgerView `json:"gas"`

	FortnightBillTotal moneyView `json:"fortnight_bill_total"`
	FortnightLoanTotal moneyView `json:"fortnight_loan_total"`
	FixedSurplus       moneyView `json:"fixed_surplus"`
}

func viewSnapshot(s core.Snapshot) snapshotView {
	out := snapshotView{
		AccountID:        s.AccountID,
		AsOf:             s.AsOf,
		CurrentFortnight: s.CurrentFortnight,
		TotalBalance:     viewMoney(s.TotalBalance),
		Gas: gasLedgerView{
			TotalIncome:  viewMoney(s.Gas.TotalIncome),
			TotalExpense: viewMoney(s.Gas.TotalExpense),
			Available:    viewMoney(s.Gas.Available),
		},
		FortnightBillTotal: viewMoney(s.FortnightBillTotal),
		FortnightLoanTotal: viewMoney(s.FortnightLoanTotal),
		FixedSurplus:       viewMoney(s.FixedSurplus),
		Categories:         make([]categoryView, 0, len(s.Categories)),
		Goals:              make([]goalView, 0, len(s.Goals)),
		PeriodicExpenses:   make([]periodicExpenseView, 0, len(s.PeriodicExpenses)),
		FixedBills:         make([]fixedBillView, 0, len(s.FixedBills)),
		Loans:              make([]loanProgressView, 0, len(s.Loans)),
	}
	for _, c := range s.Categories {
		out.Categories = append(out.Categories, viewCategory(c))
	}
	for _, g := range s.Goals {
		out.Goals = append(out.Goals, viewGoal(g))
	}
	for _, p := range s.PeriodicExpenses {
		out.PeriodicExpenses = append(out.PeriodicExpenses, viewPeriodicExpense(p))
	}
	for _, b := range s.FixedBills {
		out.FixedBills = append(out.FixedBills, viewFixedBill(b))
	}
	for _, lp := range s.Loans {
		out.Loans = append(out.Loans, viewLoanProgress(lp))
	}
	return out
}

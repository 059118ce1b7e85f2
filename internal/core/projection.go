package core

import "time"

// LoanProgress pairs a loan with its derived repayment state.
type LoanProgress struct {
	Loan
	PaidAmount Money
	Remaining  Money
}

// GasLedger is the isolated fuel tally, recomputed from full history.
type GasLedger struct {
	TotalIncome  Money
	TotalExpense Money
	Available    Money
}

// Snapshot is the full derived view of an account, recomputed from the live
// entity collections on every read.
type Snapshot struct {
	AccountID        string
	AsOf             time.Time
	CurrentFortnight int

	Categories   []Category
	TotalBalance Money

	Goals            []Goal
	PeriodicExpenses []PeriodicExpense
	FixedBills       []FixedBill
	Loans            []LoanProgress

	Gas GasLedger

	FortnightBillTotal Money
	FortnightLoanTotal Money
	FixedSurplus       Money
}

// ProjectLoans folds the expense stream into per-loan progress. The expense
// history is the source of truth; no stored repayment figure exists to drift
// from it.
func ProjectLoans(loans []Loan, expenses []Expense) []LoanProgress {
	paid := make(map[string]int64, len(loans))
	for _, e := range expenses {
		if e.CategoryType == TargetLoan {
			paid[e.CategoryID] += e.Amount.Cents
		}
	}
	out := make([]LoanProgress, len(loans))
	for i, l := range loans {
		p := Money{Cents: paid[l.ID]}
		remaining := l.TotalAmount.Cents - p.Cents
		if remaining < 0 {
			remaining = 0
		}
		out[i] = LoanProgress{Loan: l, PaidAmount: p, Remaining: Money{Cents: remaining}}
	}
	return out
}

// ProjectGas tallies the gas sub-ledger from full history. Availability is
// floored at zero; overspending fuel does not create debt against any
// category.
func ProjectGas(incomes []Income, expenses []Expense) GasLedger {
	var g GasLedger
	for _, i := range incomes {
		if i.IncludesGas {
			g.TotalIncome = g.TotalIncome.Add(i.Amount)
		}
	}
	for _, e := range expenses {
		if e.IsGas {
			g.TotalExpense = g.TotalExpense.Add(e.Amount)
		}
	}
	avail := g.TotalIncome.Cents - g.TotalExpense.Cents
	if avail < 0 {
		avail = 0
	}
	g.Available = Money{Cents: avail}
	return g
}

// TotalBalance sums the category balances.
func TotalBalance(categories []Category) Money {
	var total Money
	for _, c := range categories {
		total = total.Add(c.Balance)
	}
	return total
}

// BuildSnapshot assembles the derived account view for a point in time.
func BuildSnapshot(accountID string, now time.Time, categories []Category, goals []Goal, periodic []PeriodicExpense, bills []FixedBill, loans []Loan, incomes []Income, expenses []Expense) Snapshot {
	fortnight := FortnightOf(now)
	billTotal := FortnightBillTotal(bills, fortnight)

	activeTotal := FortnightLoanTotal(loans)

	var fixedBalance Money
	for _, c := range categories {
		if c.Slug == SlugFixed {
			fixedBalance = c.Balance
		}
	}

	return Snapshot{
		AccountID:          accountID,
		AsOf:               now,
		CurrentFortnight:   fortnight,
		Categories:         categories,
		TotalBalance:       TotalBalance(categories),
		Goals:              goals,
		PeriodicExpenses:   periodic,
		FixedBills:         bills,
		Loans:              ProjectLoans(loans, expenses),
		Gas:                ProjectGas(incomes, expenses),
		FortnightBillTotal: billTotal,
		FortnightLoanTotal: activeTotal,
		FixedSurplus:       FixedSurplus(fixedBalance, billTotal, activeTotal),
	}
}

package core

import (
	"testing"
	"time"
)

func TestProjectLoans(t *testing.T) {
	loans := []Loan{
		{ID: "car", TotalAmount: Money{Cents: 6000000}},
		{ID: "phone", TotalAmount: Money{Cents: 500000}},
	}
	expenses := []Expense{
		{CategoryType: TargetLoan, CategoryID: "car", Amount: Money{Cents: 250000}},
		{CategoryType: TargetLoan, CategoryID: "car", Amount: Money{Cents: 250000}},
		{CategoryType: TargetFixed, CategoryID: "cat-1", Amount: Money{Cents: 99999}},
		{CategoryType: TargetLoan, CategoryID: "other", Amount: Money{Cents: 11111}},
	}
	got := ProjectLoans(loans, expenses)
	if got[0].PaidAmount.Cents != 500000 {
		t.Errorf("car paid = %d, want 500000", got[0].PaidAmount.Cents)
	}
	if got[0].Remaining.Cents != 5500000 {
		t.Errorf("car remaining = %d, want 5500000", got[0].Remaining.Cents)
	}
	if got[1].PaidAmount.Cents != 0 {
		t.Errorf("phone paid = %d, want 0", got[1].PaidAmount.Cents)
	}
}

func TestProjectLoansRemainingFloorsAtZero(t *testing.T) {
	loans := []Loan{{ID: "l", TotalAmount: Money{Cents: 1000}}}
	expenses := []Expense{{CategoryType: TargetLoan, CategoryID: "l", Amount: Money{Cents: 1500}}}
	got := ProjectLoans(loans, expenses)
	if got[0].Remaining.Cents != 0 {
		t.Errorf("overpaid loan remaining = %d, want 0", got[0].Remaining.Cents)
	}
}

func TestProjectGas(t *testing.T) {
	incomes := []Income{
		{Amount: Money{Cents: 200000}, IncludesGas: true},
		{Amount: Money{Cents: 999999}, IncludesGas: false},
		{Amount: Money{Cents: 100000}, IncludesGas: true},
	}
	expenses := []Expense{
		{Amount: Money{Cents: 80000}, IsGas: true},
		{Amount: Money{Cents: 50000}, IsGas: false},
	}
	g := ProjectGas(incomes, expenses)
	if g.TotalIncome.Cents != 300000 {
		t.Errorf("gas income = %d, want 300000", g.TotalIncome.Cents)
	}
	if g.TotalExpense.Cents != 80000 {
		t.Errorf("gas expense = %d, want 80000", g.TotalExpense.Cents)
	}
	if g.Available.Cents != 220000 {
		t.Errorf("gas available = %d, want 220000", g.Available.Cents)
	}
}

func TestProjectGasAvailabilityFloorsAtZero(t *testing.T) {
	incomes := []Income{{Amount: Money{Cents: 100}, IncludesGas: true}}
	expenses := []Expense{{Amount: Money{Cents: 500}, IsGas: true}}
	if g := ProjectGas(incomes, expenses); g.Available.Cents != 0 {
		t.Errorf("available = %d, want 0", g.Available.Cents)
	}
}

func TestBuildSnapshot(t *testing.T) {
	now := time.Date(2025, time.June, 20, 12, 0, 0, 0, time.UTC) // fortnight 1
	categories := []Category{
		{Slug: SlugFixed, Balance: Money{Cents: 500000}},
		{Slug: SlugSavings, Balance: Money{Cents: 300000}},
		{Slug: SlugVariable, Balance: Money{Cents: 200000}},
	}
	bills := []FixedBill{{Amount: Money{Cents: 200000}, Frequency: BillMonthly}}
	loans := []Loan{{ID: "l", Status: LoanActive, TotalAmount: Money{Cents: 1200000}, PaymentPerFortnight: Money{Cents: 100000}}}
	expenses := []Expense{{CategoryType: TargetLoan, CategoryID: "l", Amount: Money{Cents: 100000}}}

	snap := BuildSnapshot("acct", now, categories, nil, nil, bills, loans, nil, expenses)

	if snap.CurrentFortnight != Fortnight1 {
		t.Errorf("fortnight = %d, want 1", snap.CurrentFortnight)
	}
	if snap.TotalBalance.Cents != 1000000 {
		t.Errorf("total balance = %d, want 1000000", snap.TotalBalance.Cents)
	}
	if snap.FortnightBillTotal.Cents != 100000 {
		t.Errorf("bill total = %d, want 100000", snap.FortnightBillTotal.Cents)
	}
	if snap.FortnightLoanTotal.Cents != 100000 {
		t.Errorf("loan total = %d, want 100000", snap.FortnightLoanTotal.Cents)
	}
	// 5000.00 - 1000.00 bills - 1000.00 loans
	if snap.FixedSurplus.Cents != 300000 {
		t.Errorf("surplus = %d, want 300000", snap.FixedSurplus.Cents)
	}
	if snap.Loans[0].PaidAmount.Cents != 100000 {
		t.Errorf("loan progress = %d, want 100000", snap.Loans[0].PaidAmount.Cents)
	}
}

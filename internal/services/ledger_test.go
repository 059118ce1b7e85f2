package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Yordi314/lanomina/internal/core"
	"github.com/Yordi314/lanomina/internal/storage"
)

const testAccount = "acct-test"

func newTestLedger(t *testing.T, policy core.GasPolicy) (*Ledger, *Projector) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	l := NewLedger(store, nil, policy)
	if err := l.EnsureCategories(context.Background(), testAccount); err != nil {
		t.Fatalf("ensure categories: %v", err)
	}
	return l, NewProjector(store)
}

func snapshot(t *testing.T, p *Projector) core.Snapshot {
	t.Helper()
	s, err := p.Snapshot(context.Background(), testAccount, time.Now().UTC())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return s
}

func balanceOf(t *testing.T, s core.Snapshot, slug core.CategorySlug) core.Money {
	t.Helper()
	for _, c := range s.Categories {
		if c.Slug == slug {
			return c.Balance
		}
	}
	t.Fatalf("category %s not in snapshot", slug)
	return core.Money{}
}

func categoryID(t *testing.T, s core.Snapshot, slug core.CategorySlug) string {
	t.Helper()
	for _, c := range s.Categories {
		if c.Slug == slug {
			return c.ID
		}
	}
	t.Fatalf("category %s not in snapshot", slug)
	return ""
}

func mustRecordIncome(t *testing.T, l *Ledger, cents int64, gas bool, dist core.Distribution) core.Income {
	t.Helper()
	in, err := l.RecordIncome(context.Background(), core.Income{
		AccountID:   testAccount,
		Concept:     "Quincena",
		Amount:      core.Money{Cents: cents},
		IncludesGas: gas,
	}, dist)
	if err != nil {
		t.Fatalf("record income: %v", err)
	}
	return in
}

func TestEnsureCategoriesIdempotent(t *testing.T) {
	l, p := newTestLedger(t, core.GasIsolated)

	if err := l.EnsureCategories(context.Background(), testAccount); err != nil {
		t.Fatalf("second ensure: %v", err)
	}

	s := snapshot(t, p)
	if len(s.Categories) != 3 {
		t.Fatalf("got %d categories, want 3", len(s.Categories))
	}
	pct := map[core.CategorySlug]int{}
	for _, c := range s.Categories {
		pct[c.Slug] = c.AllocationPercentage
	}
	if pct[core.SlugFixed] != 50 || pct[core.SlugSavings] != 30 || pct[core.SlugVariable] != 20 {
		t.Errorf("default allocations = %v", pct)
	}
}

func TestRecordIncomeDistributesAndConserves(t *testing.T) {
	l, p := newTestLedger(t, core.GasIsolated)

	mustRecordIncome(t, l, 1_000_000, false, core.Distribution{
		Fixed:    core.Money{Cents: 500_000},
		Savings:  core.Money{Cents: 300_000},
		Variable: core.Money{Cents: 200_000},
	})

	s := snapshot(t, p)
	if got := balanceOf(t, s, core.SlugFixed).Cents; got != 500_000 {
		t.Errorf("fixed = %d", got)
	}
	if got := balanceOf(t, s, core.SlugSavings).Cents; got != 300_000 {
		t.Errorf("savings = %d", got)
	}
	if got := balanceOf(t, s, core.SlugVariable).Cents; got != 200_000 {
		t.Errorf("variable = %d", got)
	}
	if s.TotalBalance.Cents != 1_000_000 {
		t.Errorf("total = %d, want full income", s.TotalBalance.Cents)
	}
}

func TestGasIncomeIsolatedPolicy(t *testing.T) {
	l, p := newTestLedger(t, core.GasIsolated)

	mustRecordIncome(t, l, 150_000, true, core.Distribution{})

	s := snapshot(t, p)
	if s.TotalBalance.Cents != 0 {
		t.Errorf("gas income leaked into categories: total = %d", s.TotalBalance.Cents)
	}
	if s.Gas.Available.Cents != 150_000 {
		t.Errorf("gas available = %d, want 150000", s.Gas.Available.Cents)
	}
}

func TestGasIncomeToFixedPolicy(t *testing.T) {
	l, p := newTestLedger(t, core.GasToFixed)

	mustRecordIncome(t, l, 150_000, true, core.Distribution{})

	s := snapshot(t, p)
	if got := balanceOf(t, s, core.SlugFixed).Cents; got != 150_000 {
		t.Errorf("fixed = %d, want full gas deposit", got)
	}
	if s.Gas.Available.Cents != 150_000 {
		t.Errorf("gas available = %d, want 150000", s.Gas.Available.Cents)
	}
}

func TestGasExpenseNeverTouchesBalances(t *testing.T) {
	l, p := newTestLedger(t, core.GasIsolated)
	ctx := context.Background()

	mustRecordIncome(t, l, 500_000, false, core.Distribution{Variable: core.Money{Cents: 500_000}})
	mustRecordIncome(t, l, 100_000, true, core.Distribution{})

	s := snapshot(t, p)
	varID := categoryID(t, s, core.SlugVariable)

	if _, err := l.AddExpense(ctx, core.Expense{
		AccountID:    testAccount,
		Amount:       core.Money{Cents: 40_000},
		CategoryID:   varID,
		CategoryType: core.TargetVariable,
		Description:  "Gasolina",
		IsGas:        true,
	}); err != nil {
		t.Fatalf("add gas expense: %v", err)
	}

	s = snapshot(t, p)
	if got := balanceOf(t, s, core.SlugVariable).Cents; got != 500_000 {
		t.Errorf("variable = %d, gas expense must not debit", got)
	}
	if s.Gas.Available.Cents != 60_000 {
		t.Errorf("gas available = %d, want 60000", s.Gas.Available.Cents)
	}
}

func TestExpenseDebitFloorsAtZero(t *testing.T) {
	l, p := newTestLedger(t, core.GasIsolated)
	ctx := context.Background()

	mustRecordIncome(t, l, 10_000, false, core.Distribution{Variable: core.Money{Cents: 10_000}})
	s := snapshot(t, p)
	varID := categoryID(t, s, core.SlugVariable)

	if _, err := l.AddExpense(ctx, core.Expense{
		AccountID:    testAccount,
		Amount:       core.Money{Cents: 30_000},
		CategoryID:   varID,
		CategoryType: core.TargetVariable,
		Description:  "Compra grande",
	}); err != nil {
		t.Fatalf("add expense: %v", err)
	}

	s = snapshot(t, p)
	if got := balanceOf(t, s, core.SlugVariable).Cents; got != 0 {
		t.Errorf("variable = %d, want floored 0", got)
	}
}

func TestDeleteExpenseRefundsExactly(t *testing.T) {
	l, p := newTestLedger(t, core.GasIsolated)
	ctx := context.Background()

	mustRecordIncome(t, l, 100_000, false, core.Distribution{Fixed: core.Money{Cents: 100_000}})
	s := snapshot(t, p)
	fixedID := categoryID(t, s, core.SlugFixed)

	e, err := l.AddExpense(ctx, core.Expense{
		AccountID:    testAccount,
		Amount:       core.Money{Cents: 30_000},
		CategoryID:   fixedID,
		CategoryType: core.TargetFixed,
		Description:  "Luz",
	})
	if err != nil {
		t.Fatalf("add expense: %v", err)
	}

	if err := l.DeleteExpense(ctx, testAccount, e.ID); err != nil {
		t.Fatalf("delete expense: %v", err)
	}

	s = snapshot(t, p)
	if got := balanceOf(t, s, core.SlugFixed).Cents; got != 100_000 {
		t.Errorf("fixed = %d, want balance restored", got)
	}
	if len(s.Categories) == 0 {
		t.Fatal("snapshot empty")
	}
}

func TestUpdateExpenseReappliesAgainstSameTarget(t *testing.T) {
	l, p := newTestLedger(t, core.GasIsolated)
	ctx := context.Background()

	mustRecordIncome(t, l, 100_000, false, core.Distribution{Variable: core.Money{Cents: 100_000}})
	s := snapshot(t, p)
	varID := categoryID(t, s, core.SlugVariable)

	e, err := l.AddExpense(ctx, core.Expense{
		AccountID:    testAccount,
		Amount:       core.Money{Cents: 30_000},
		CategoryID:   varID,
		CategoryType: core.TargetVariable,
		Description:  "Comida",
	})
	if err != nil {
		t.Fatalf("add expense: %v", err)
	}

	e.Amount = core.Money{Cents: 50_000}
	if err := l.UpdateExpense(ctx, e); err != nil {
		t.Fatalf("update expense: %v", err)
	}

	// 100000 - 30000, +30000 reverted, -50000 reapplied
	s = snapshot(t, p)
	if got := balanceOf(t, s, core.SlugVariable).Cents; got != 50_000 {
		t.Errorf("variable = %d, want 50000", got)
	}
}

func TestUpdateExpenseRetargets(t *testing.T) {
	l, p := newTestLedger(t, core.GasIsolated)
	ctx := context.Background()

	mustRecordIncome(t, l, 200_000, false, core.Distribution{
		Fixed:    core.Money{Cents: 100_000},
		Variable: core.Money{Cents: 100_000},
	})
	s := snapshot(t, p)
	fixedID := categoryID(t, s, core.SlugFixed)
	varID := categoryID(t, s, core.SlugVariable)

	e, err := l.AddExpense(ctx, core.Expense{
		AccountID:    testAccount,
		Amount:       core.Money{Cents: 40_000},
		CategoryID:   varID,
		CategoryType: core.TargetVariable,
		Description:  "Factura",
	})
	if err != nil {
		t.Fatalf("add expense: %v", err)
	}

	e.CategoryID = fixedID
	e.CategoryType = core.TargetFixed
	if err := l.UpdateExpense(ctx, e); err != nil {
		t.Fatalf("retarget expense: %v", err)
	}

	s = snapshot(t, p)
	if got := balanceOf(t, s, core.SlugVariable).Cents; got != 100_000 {
		t.Errorf("variable = %d, want refund in full", got)
	}
	if got := balanceOf(t, s, core.SlugFixed).Cents; got != 60_000 {
		t.Errorf("fixed = %d, want new debit applied", got)
	}
}

func TestTransferHasNoFloor(t *testing.T) {
	l, p := newTestLedger(t, core.GasIsolated)
	ctx := context.Background()

	mustRecordIncome(t, l, 10_000, false, core.Distribution{Variable: core.Money{Cents: 10_000}})
	s := snapshot(t, p)

	err := l.Transfer(ctx, testAccount,
		categoryID(t, s, core.SlugVariable), categoryID(t, s, core.SlugSavings),
		core.Money{Cents: 25_000})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	s = snapshot(t, p)
	if got := balanceOf(t, s, core.SlugVariable).Cents; got != -15_000 {
		t.Errorf("variable = %d, want -15000 (no floor on transfers)", got)
	}
	if got := balanceOf(t, s, core.SlugSavings).Cents; got != 25_000 {
		t.Errorf("savings = %d, want 25000", got)
	}
}

func TestIncomeEditLeavesBalancesAlone(t *testing.T) {
	l, p := newTestLedger(t, core.GasIsolated)
	ctx := context.Background()

	in := mustRecordIncome(t, l, 100_000, false, core.Distribution{Fixed: core.Money{Cents: 100_000}})

	in.Amount = core.Money{Cents: 999_900}
	in.Concept = "Quincena corregida"
	if err := l.UpdateIncome(ctx, in); err != nil {
		t.Fatalf("update income: %v", err)
	}

	s := snapshot(t, p)
	if got := balanceOf(t, s, core.SlugFixed).Cents; got != 100_000 {
		t.Errorf("fixed = %d, income edits must not adjust balances", got)
	}

	if err := l.DeleteIncome(ctx, testAccount, in.ID); err != nil {
		t.Fatalf("delete income: %v", err)
	}
	s = snapshot(t, p)
	if got := balanceOf(t, s, core.SlugFixed).Cents; got != 100_000 {
		t.Errorf("fixed = %d after delete, want untouched", got)
	}
}

func TestFundGoalMovesSavingsIntoGoal(t *testing.T) {
	l, p := newTestLedger(t, core.GasIsolated)
	ctx := context.Background()

	mustRecordIncome(t, l, 100_000, false, core.Distribution{Savings: core.Money{Cents: 100_000}})

	g, err := l.AddGoal(ctx, core.Goal{
		AccountID:    testAccount,
		Name:         "Viaje",
		TargetAmount: core.Money{Cents: 500_000},
	})
	if err != nil {
		t.Fatalf("add goal: %v", err)
	}

	if err := l.FundGoal(ctx, testAccount, g.ID, core.Money{Cents: 40_000}); err != nil {
		t.Fatalf("fund goal: %v", err)
	}

	s := snapshot(t, p)
	if got := balanceOf(t, s, core.SlugSavings).Cents; got != 60_000 {
		t.Errorf("savings = %d, want 60000", got)
	}
	if len(s.Goals) != 1 || s.Goals[0].CurrentAmount.Cents != 40_000 {
		t.Errorf("goal progress = %+v", s.Goals)
	}
}

func TestOrphanedReversalIsSkipped(t *testing.T) {
	l, _ := newTestLedger(t, core.GasIsolated)
	ctx := context.Background()

	g, err := l.AddGoal(ctx, core.Goal{
		AccountID:    testAccount,
		Name:         "Fondo",
		TargetAmount: core.Money{Cents: 100_000},
	})
	if err != nil {
		t.Fatalf("add goal: %v", err)
	}

	e, err := l.AddExpense(ctx, core.Expense{
		AccountID:    testAccount,
		Amount:       core.Money{Cents: 10_000},
		CategoryID:   g.ID,
		CategoryType: core.TargetGoal,
		Description:  "Retiro",
	})
	if err != nil {
		t.Fatalf("add goal expense: %v", err)
	}

	if err := l.DeleteGoal(ctx, testAccount, g.ID); err != nil {
		t.Fatalf("delete goal: %v", err)
	}

	// the refund target is gone; the delete must still succeed
	if err := l.DeleteExpense(ctx, testAccount, e.ID); err != nil {
		t.Errorf("delete expense with orphaned target: %v", err)
	}
}

func TestAddExpenseMissingTargetFails(t *testing.T) {
	l, _ := newTestLedger(t, core.GasIsolated)

	_, err := l.AddExpense(context.Background(), core.Expense{
		AccountID:    testAccount,
		Amount:       core.Money{Cents: 10_000},
		CategoryID:   "no-such-goal",
		CategoryType: core.TargetGoal,
		Description:  "Fantasma",
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestPayLoanDerivesProgressFromExpenses(t *testing.T) {
	l, p := newTestLedger(t, core.GasIsolated)
	ctx := context.Background()

	mustRecordIncome(t, l, 2_000_000, false, core.Distribution{Fixed: core.Money{Cents: 2_000_000}})
	s := snapshot(t, p)
	fixedID := categoryID(t, s, core.SlugFixed)

	ln, err := l.AddLoan(ctx, core.Loan{
		AccountID:     testAccount,
		Name:          "Préstamo moto",
		TotalAmount:   core.Money{Cents: 6_000_000},
		DurationValue: 12,
		DurationType:  core.DurationMonths,
	})
	if err != nil {
		t.Fatalf("add loan: %v", err)
	}
	if ln.PaymentPerFortnight.Cents != 250_000 {
		t.Fatalf("schedule = %d, want 250000", ln.PaymentPerFortnight.Cents)
	}

	for i := 0; i < 4; i++ {
		if _, err := l.PayLoan(ctx, testAccount, ln.ID, fixedID, core.Money{Cents: 250_000}); err != nil {
			t.Fatalf("pay loan %d: %v", i, err)
		}
	}

	s = snapshot(t, p)
	if got := balanceOf(t, s, core.SlugFixed).Cents; got != 1_000_000 {
		t.Errorf("fixed = %d, want 1000000 after four payments", got)
	}
	if len(s.Loans) != 1 {
		t.Fatalf("loans = %d", len(s.Loans))
	}
	lp := s.Loans[0]
	if lp.PaidAmount.Cents != 1_000_000 {
		t.Errorf("paid = %d, want 1000000", lp.PaidAmount.Cents)
	}
	if lp.Remaining.Cents != 5_000_000 {
		t.Errorf("remaining = %d, want 5000000", lp.Remaining.Cents)
	}
}

func TestPaidLoanLeavesCommittedTotal(t *testing.T) {
	l, p := newTestLedger(t, core.GasIsolated)
	ctx := context.Background()

	ln, err := l.AddLoan(ctx, core.Loan{
		AccountID:     testAccount,
		Name:          "Préstamo",
		TotalAmount:   core.Money{Cents: 100_000},
		DurationValue: 4,
		DurationType:  core.DurationFortnights,
	})
	if err != nil {
		t.Fatalf("add loan: %v", err)
	}

	s := snapshot(t, p)
	if s.FortnightLoanTotal.Cents != 25_000 {
		t.Fatalf("committed = %d, want 25000", s.FortnightLoanTotal.Cents)
	}

	if err := l.ToggleLoanStatus(ctx, testAccount, ln.ID, core.LoanPaid); err != nil {
		t.Fatalf("toggle status: %v", err)
	}

	s = snapshot(t, p)
	if s.FortnightLoanTotal.Cents != 0 {
		t.Errorf("committed = %d, paid loans must not commit", s.FortnightLoanTotal.Cents)
	}
	if len(s.Loans) != 1 {
		t.Errorf("paid loan dropped from list")
	}
}

func TestFixedSurplusInSnapshot(t *testing.T) {
	l, p := newTestLedger(t, core.GasIsolated)
	ctx := context.Background()

	mustRecordIncome(t, l, 500_000, false, core.Distribution{Fixed: core.Money{Cents: 500_000}})

	if _, err := l.AddFixedBill(ctx, core.FixedBill{
		AccountID: testAccount,
		Name:      "Renta",
		Amount:    core.Money{Cents: 200_000},
		Frequency: core.BillBiweekly,
	}); err != nil {
		t.Fatalf("add bill: %v", err)
	}

	s := snapshot(t, p)
	if s.FortnightBillTotal.Cents != 200_000 {
		t.Errorf("bill total = %d", s.FortnightBillTotal.Cents)
	}
	if s.FixedSurplus.Cents != 300_000 {
		t.Errorf("surplus = %d, want 300000", s.FixedSurplus.Cents)
	}
}

func TestResetAllDataKeepsCategories(t *testing.T) {
	l, p := newTestLedger(t, core.GasIsolated)
	ctx := context.Background()

	mustRecordIncome(t, l, 100_000, false, core.Distribution{Fixed: core.Money{Cents: 100_000}})
	if _, err := l.AddGoal(ctx, core.Goal{AccountID: testAccount, Name: "G", TargetAmount: core.Money{Cents: 1_000}}); err != nil {
		t.Fatal(err)
	}

	if err := l.ResetAllData(ctx, testAccount); err != nil {
		t.Fatalf("reset: %v", err)
	}

	s := snapshot(t, p)
	if len(s.Categories) != 3 {
		t.Errorf("categories = %d, reset must not delete them", len(s.Categories))
	}
	if s.TotalBalance.Cents != 0 {
		t.Errorf("total = %d, want 0", s.TotalBalance.Cents)
	}
	if len(s.Goals) != 0 {
		t.Errorf("goals survived reset: %+v", s.Goals)
	}

	incomes, err := p.Incomes(ctx, testAccount)
	if err != nil {
		t.Fatal(err)
	}
	if len(incomes) != 0 {
		t.Errorf("incomes survived reset")
	}
}

func TestEndToEndFortnightScenario(t *testing.T) {
	l, p := newTestLedger(t, core.GasIsolated)
	ctx := context.Background()

	mustRecordIncome(t, l, 1_000_000, false, core.Distribution{
		Fixed:    core.Money{Cents: 500_000},
		Savings:  core.Money{Cents: 300_000},
		Variable: core.Money{Cents: 200_000},
	})
	s := snapshot(t, p)
	varID := categoryID(t, s, core.SlugVariable)
	savID := categoryID(t, s, core.SlugSavings)
	fixedID := categoryID(t, s, core.SlugFixed)

	if err := l.Transfer(ctx, testAccount, varID, savID, core.Money{Cents: 50_000}); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	e, err := l.AddExpense(ctx, core.Expense{
		AccountID:    testAccount,
		Amount:       core.Money{Cents: 30_000},
		CategoryID:   fixedID,
		CategoryType: core.TargetFixed,
		Description:  "Luz",
	})
	if err != nil {
		t.Fatalf("expense: %v", err)
	}

	s = snapshot(t, p)
	if got := balanceOf(t, s, core.SlugFixed).Cents; got != 470_000 {
		t.Errorf("fixed = %d", got)
	}
	if got := balanceOf(t, s, core.SlugSavings).Cents; got != 350_000 {
		t.Errorf("savings = %d", got)
	}
	if got := balanceOf(t, s, core.SlugVariable).Cents; got != 150_000 {
		t.Errorf("variable = %d", got)
	}
	if s.TotalBalance.Cents != 970_000 {
		t.Errorf("total = %d, want income minus expense", s.TotalBalance.Cents)
	}

	if err := l.DeleteExpense(ctx, testAccount, e.ID); err != nil {
		t.Fatalf("delete expense: %v", err)
	}
	s = snapshot(t, p)
	if s.TotalBalance.Cents != 1_000_000 {
		t.Errorf("total = %d, want full income after refund", s.TotalBalance.Cents)
	}
}

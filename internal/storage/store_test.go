package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Yordi314/lanomina/internal/core"
)

const testAccount = "acct-test"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCategoryCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	q := s.Queries()

	cat := core.Category{
		ID:                   "cat-1",
		AccountID:            testAccount,
		Slug:                 core.SlugFixed,
		Name:                 "Gastos Fijos",
		AllocationPercentage: 50,
		Balance:              core.Money{Cents: 10_000},
	}
	if err := q.CreateCategory(ctx, cat); err != nil {
		t.Fatalf("create category: %v", err)
	}

	got, err := q.GetCategoryBySlug(ctx, testAccount, core.SlugFixed)
	if err != nil {
		t.Fatalf("get category by slug: %v", err)
	}
	if got.Name != "Gastos Fijos" || got.Balance.Cents != 10_000 {
		t.Errorf("got %+v", got)
	}

	if err := q.UpdateCategoryBalance(ctx, testAccount, cat.ID, 7_500); err != nil {
		t.Fatalf("update balance: %v", err)
	}
	got, err = q.GetCategory(ctx, testAccount, cat.ID)
	if err != nil {
		t.Fatalf("get category: %v", err)
	}
	if got.Balance.Cents != 7_500 {
		t.Errorf("balance = %d, want 7500", got.Balance.Cents)
	}

	if err := q.UpdateCategoryBalance(ctx, testAccount, "missing", 0); !errors.Is(err, ErrNoRows) {
		t.Errorf("update missing category: err = %v, want ErrNoRows", err)
	}
}

func TestGoalCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	q := s.Queries()

	due := time.Date(2026, 12, 15, 0, 0, 0, 0, time.UTC)
	g := core.Goal{
		ID:        "goal-1",
		AccountID: testAccount,
		Name:      "Viaje",
		TargetAmount: core.Money{Cents: 100_000},
		CurrentAmount: core.Money{Cents: 25_000},
		DueDate:   &due,
	}
	if err := q.CreateGoal(ctx, g); err != nil {
		t.Fatalf("create goal: %v", err)
	}

	got, err := q.GetGoal(ctx, testAccount, g.ID)
	if err != nil {
		t.Fatalf("get goal: %v", err)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("due date = %v, want %v", got.DueDate, due)
	}

	if err := q.UpdateGoalCurrent(ctx, testAccount, g.ID, 40_000); err != nil {
		t.Fatalf("update goal current: %v", err)
	}
	got, _ = q.GetGoal(ctx, testAccount, g.ID)
	if got.CurrentAmount.Cents != 40_000 {
		t.Errorf("current = %d, want 40000", got.CurrentAmount.Cents)
	}

	if err := q.DeleteGoal(ctx, testAccount, g.ID); err != nil {
		t.Fatalf("delete goal: %v", err)
	}
	if _, err := q.GetGoal(ctx, testAccount, g.ID); !errors.Is(err, ErrNoRows) {
		t.Errorf("get deleted goal: err = %v, want ErrNoRows", err)
	}
}

func TestFixedBillFortnightRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	q := s.Queries()

	pin := 2
	bills := []core.FixedBill{
		{ID: "b-1", AccountID: testAccount, Name: "Renta", Amount: core.Money{Cents: 80_000}, Frequency: core.BillMonthly, Fortnight: &pin},
		{ID: "b-2", AccountID: testAccount, Name: "Internet", Amount: core.Money{Cents: 20_000}, Frequency: core.BillBiweekly},
	}
	for _, b := range bills {
		if err := q.CreateFixedBill(ctx, b); err != nil {
			t.Fatalf("create bill %s: %v", b.Name, err)
		}
	}

	got, err := q.ListFixedBills(ctx, testAccount)
	if err != nil {
		t.Fatalf("list bills: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d bills, want 2", len(got))
	}
	byID := map[string]core.FixedBill{}
	for _, b := range got {
		byID[b.ID] = b
	}
	if byID["b-1"].Fortnight == nil || *byID["b-1"].Fortnight != 2 {
		t.Errorf("pinned fortnight not round-tripped: %+v", byID["b-1"])
	}
	if byID["b-2"].Fortnight != nil {
		t.Errorf("unpinned bill has fortnight %v", *byID["b-2"].Fortnight)
	}
}

func TestLoanStatusUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	q := s.Queries()

	l := core.Loan{
		ID:                  "loan-1",
		AccountID:           testAccount,
		Name:                "Moto",
		TotalAmount:         core.Money{Cents: 6_000_000},
		DurationValue:       12,
		DurationType:        core.DurationMonths,
		PaymentPerFortnight: core.Money{Cents: 250_000},
		StartDate:           time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:              core.LoanActive,
	}
	if err := q.CreateLoan(ctx, l); err != nil {
		t.Fatalf("create loan: %v", err)
	}
	if err := q.UpdateLoanStatus(ctx, testAccount, l.ID, core.LoanPaid); err != nil {
		t.Fatalf("update loan status: %v", err)
	}
	got, err := q.GetLoan(ctx, testAccount, l.ID)
	if err != nil {
		t.Fatalf("get loan: %v", err)
	}
	if got.Status != core.LoanPaid {
		t.Errorf("status = %s, want paid", got.Status)
	}
}

func TestIncomeExportFlow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	q := s.Queries()

	i := core.Income{
		ID:        "inc-1",
		AccountID: testAccount,
		Date:      time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Concept:   "Quincena",
		Amount:    core.Money{Cents: 1_000_000},
	}
	if err := q.CreateIncome(ctx, i); err != nil {
		t.Fatalf("create income: %v", err)
	}

	pending, err := q.ListUnexportedIncomes(ctx, 10)
	if err != nil {
		t.Fatalf("list unexported: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "inc-1" {
		t.Fatalf("pending = %+v", pending)
	}

	if err := q.MarkIncomeExported(ctx, "inc-1"); err != nil {
		t.Fatalf("mark exported: %v", err)
	}
	pending, err = q.ListUnexportedIncomes(ctx, 10)
	if err != nil {
		t.Fatalf("list unexported after mark: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("still pending after mark: %+v", pending)
	}
}

func TestExpensesByTarget(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	q := s.Queries()

	mk := func(id, targetID string, kind core.TargetKind, cents int64) core.Expense {
		return core.Expense{
			ID:           id,
			AccountID:    testAccount,
			Date:         time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			Amount:       core.Money{Cents: cents},
			CategoryID:   targetID,
			CategoryType: kind,
			Description:  "pago",
		}
	}
	for _, e := range []core.Expense{
		mk("e-1", "loan-1", core.TargetLoan, 250_000),
		mk("e-2", "loan-1", core.TargetLoan, 250_000),
		mk("e-3", "cat-var", core.TargetVariable, 5_000),
	} {
		if err := q.CreateExpense(ctx, e); err != nil {
			t.Fatalf("create expense %s: %v", e.ID, err)
		}
	}

	got, err := q.ListExpensesByTarget(ctx, testAccount, core.TargetLoan, "loan-1")
	if err != nil {
		t.Fatalf("list by target: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d loan expenses, want 2", len(got))
	}
	var sum int64
	for _, e := range got {
		sum += e.Amount.Cents
	}
	if sum != 500_000 {
		t.Errorf("loan payments sum = %d, want 500000", sum)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	wantErr := errors.New("boom")
	err := s.WithTx(ctx, func(q *Queries) error {
		if err := q.CreateGoal(ctx, core.Goal{
			ID: "goal-tx", AccountID: testAccount, Name: "Temp",
			TargetAmount: core.Money{Cents: 100},
		}); err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("WithTx err = %v, want boom", err)
	}

	if _, err := s.Queries().GetGoal(ctx, testAccount, "goal-tx"); !errors.Is(err, ErrNoRows) {
		t.Errorf("goal visible after rollback: err = %v", err)
	}
}

func TestResetDeletesEverything(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	q := s.Queries()

	if err := q.CreateGoal(ctx, core.Goal{ID: "g", AccountID: testAccount, Name: "G", TargetAmount: core.Money{Cents: 1}}); err != nil {
		t.Fatal(err)
	}
	if err := q.CreateIncome(ctx, core.Income{ID: "i", AccountID: testAccount, Date: time.Now().UTC(), Concept: "c", Amount: core.Money{Cents: 1}}); err != nil {
		t.Fatal(err)
	}

	if err := q.DeleteAllGoals(ctx, testAccount); err != nil {
		t.Fatal(err)
	}
	if err := q.DeleteAllIncomes(ctx, testAccount); err != nil {
		t.Fatal(err)
	}

	goals, _ := q.ListGoals(ctx, testAccount)
	incomes, _ := q.ListIncomes(ctx, testAccount)
	if len(goals) != 0 || len(incomes) != 0 {
		t.Errorf("leftovers after reset: goals=%d incomes=%d", len(goals), len(incomes))
	}
}

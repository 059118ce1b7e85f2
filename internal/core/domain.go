package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category slugs. Exactly one category per slug exists for an account.
const (
	SlugFixed    CategorySlug = "fixed"
	SlugSavings  CategorySlug = "savings"
	SlugVariable CategorySlug = "variable"
)

// Fixed-bill frequencies.
const (
	BillMonthly  BillFrequency = "monthly"
	BillBiweekly BillFrequency = "biweekly"
)

// Sinking-fund frequencies.
const (
	PeriodicMonthly   PeriodicFrequency = "monthly"
	PeriodicQuarterly PeriodicFrequency = "quarterly"
	PeriodicYearly    PeriodicFrequency = "yearly"
)

// Loan duration units.
const (
	DurationFortnights DurationType = "fortnights"
	DurationMonths     DurationType = "months"
)

// Loan lifecycle.
const (
	LoanActive LoanStatus = "active"
	LoanPaid   LoanStatus = "paid"
)

// Expense targets. The first three address a category; the rest address a
// goal, a sinking fund, or a loan.
const (
	TargetFixed    TargetKind = "fixed"
	TargetSavings  TargetKind = "savings"
	TargetVariable TargetKind = "variable"
	TargetGoal     TargetKind = "goal"
	TargetPeriodic TargetKind = "periodic"
	TargetLoan     TargetKind = "loan"
)

type (
	CategorySlug      string
	BillFrequency     string
	PeriodicFrequency string
	DurationType      string
	LoanStatus        string
	TargetKind        string

	// Category is one of the three top-level budget buckets. Balance is
	// mutated only by income, transfer, expense, and loan-payment commands.
	Category struct {
		ID                   string
		AccountID            string
		Slug                 CategorySlug
		Name                 string
		AllocationPercentage int
		Balance              Money
	}

	// Goal is a savings target. CurrentAmount is a stored ledger value:
	// it grows only through explicit funding and shrinks only through
	// goal-targeted expenses. AllocationPercentage is planning metadata
	// consumed by SuggestSavingsSplit, never a balance formula.
	Goal struct {
		ID                   string
		AccountID            string
		Name                 string
		TargetAmount         Money
		CurrentAmount        Money
		AllocationPercentage int
		DueDate              *time.Time
	}

	// PeriodicExpense is a sinking fund for a large recurring cost.
	PeriodicExpense struct {
		ID            string
		AccountID     string
		Name          string
		TargetAmount  Money
		CurrentAmount Money
		DueDate       time.Time
		Frequency     PeriodicFrequency
	}

	// FixedBill is a recurring obligation charged against the fixed
	// category's ceiling. It is never debited itself; it only participates
	// in the fortnight surplus calculation.
	FixedBill struct {
		ID        string
		AccountID string
		Name      string
		Amount    Money
		Frequency BillFrequency
		// Fortnight pins the bill to pay period 1 or 2, overriding
		// Frequency. Nil means "follow Frequency".
		Fortnight *int
	}

	// Loan is an immutable amortization schedule. Progress is never stored:
	// it is derived by folding expenses with CategoryType == TargetLoan.
	Loan struct {
		ID                  string
		AccountID           string
		Name                string
		TotalAmount         Money
		DurationValue       int
		DurationType        DurationType
		PaymentPerFortnight Money
		StartDate           time.Time
		Status              LoanStatus
	}

	// Income is an immutable history record. Editing or deleting one does
	// not adjust category balances: the original split is not retained.
	Income struct {
		ID          string
		AccountID   string
		Date        time.Time
		Concept     string
		Amount      Money
		IncludesGas bool
	}

	// Expense is a claim against exactly one target entity's balance.
	Expense struct {
		ID           string
		AccountID    string
		Date         time.Time
		Amount       Money
		CategoryID   string
		CategoryType TargetKind
		Description  string
		IsGas        bool
	}

	// Distribution is the caller-provided split of an income deposit.
	// The engine trusts it: shares that do not sum to the deposit amount
	// under- or over-allocate silently.
	Distribution struct {
		Fixed    Money
		Savings  Money
		Variable Money
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyConcept     = errors.New("empty concept")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidEnum      = errors.New("invalid enum value")
	ErrInvalidDuration  = errors.New("loan duration must cover at least one fortnight")
	ErrNotFound         = errors.New("not found")
)

func (d Distribution) Total() Money {
	return Money{Cents: d.Fixed.Cents + d.Savings.Cents + d.Variable.Cents}
}

func (s CategorySlug) Valid() bool {
	switch s {
	case SlugFixed, SlugSavings, SlugVariable:
		return true
	}
	return false
}

func (k TargetKind) Valid() bool {
	switch k {
	case TargetFixed, TargetSavings, TargetVariable, TargetGoal, TargetPeriodic, TargetLoan:
		return true
	}
	return false
}

// IsCategory reports whether the target kind addresses one of the three
// budget categories rather than a goal, sinking fund, or loan.
func (k TargetKind) IsCategory() bool {
	switch k {
	case TargetFixed, TargetSavings, TargetVariable:
		return true
	}
	return false
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if err := g.TargetAmount.Validate(); err != nil {
		return fmt.Errorf("target amount: %w", err)
	}
	if g.AllocationPercentage < 0 || g.AllocationPercentage > 100 {
		return fmt.Errorf("%w: allocation percentage %d", ErrInvalidEnum, g.AllocationPercentage)
	}
	return nil
}

func (p PeriodicExpense) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if err := p.TargetAmount.Validate(); err != nil {
		return fmt.Errorf("target amount: %w", err)
	}
	if p.DueDate.IsZero() {
		return errors.New("due date cannot be zero")
	}
	switch p.Frequency {
	case PeriodicMonthly, PeriodicQuarterly, PeriodicYearly:
	default:
		return fmt.Errorf("%w: frequency %q", ErrInvalidEnum, p.Frequency)
	}
	return nil
}

func (b FixedBill) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if err := b.Amount.Validate(); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	switch b.Frequency {
	case BillMonthly, BillBiweekly:
	default:
		return fmt.Errorf("%w: frequency %q", ErrInvalidEnum, b.Frequency)
	}
	if b.Fortnight != nil && *b.Fortnight != 1 && *b.Fortnight != 2 {
		return fmt.Errorf("%w: fortnight %d", ErrInvalidEnum, *b.Fortnight)
	}
	return nil
}

func (l Loan) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrEmptyName
	}
	if err := l.TotalAmount.Validate(); err != nil {
		return fmt.Errorf("total amount: %w", err)
	}
	switch l.DurationType {
	case DurationFortnights, DurationMonths:
	default:
		return fmt.Errorf("%w: duration type %q", ErrInvalidEnum, l.DurationType)
	}
	if l.TotalFortnights() <= 0 {
		return ErrInvalidDuration
	}
	switch l.Status {
	case LoanActive, LoanPaid, "":
	default:
		return fmt.Errorf("%w: status %q", ErrInvalidEnum, l.Status)
	}
	if l.StartDate.IsZero() {
		return errors.New("start date cannot be zero")
	}
	return nil
}

func (i Income) Validate() error {
	if strings.TrimSpace(i.Concept) == "" {
		return ErrEmptyConcept
	}
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	if i.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if !e.CategoryType.Valid() {
		return fmt.Errorf("%w: category type %q", ErrInvalidEnum, e.CategoryType)
	}
	if strings.TrimSpace(e.CategoryID) == "" {
		return errors.New("missing category id")
	}
	if e.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

package core

import "fmt"

// GasPolicy decides what an income deposit flagged includesGas does to the
// category balances. Two policies exist in this ledger's history and the
// choice is deliberately explicit rather than baked in.
type GasPolicy string

const (
	// GasIsolated keeps gas deposits out of every category: they exist only
	// as history records feeding the gas sub-ledger.
	GasIsolated GasPolicy = "isolated"
	// GasToFixed routes the full gas deposit into the fixed category while
	// still feeding the gas sub-ledger.
	GasToFixed GasPolicy = "to-fixed"
)

func ParseGasPolicy(s string) (GasPolicy, error) {
	switch GasPolicy(s) {
	case GasIsolated, GasToFixed:
		return GasPolicy(s), nil
	case "":
		return GasIsolated, nil
	}
	return "", fmt.Errorf("%w: gas policy %q", ErrInvalidEnum, s)
}

// CategoryCredits maps a category slug to the amount it gains from a deposit.
type CategoryCredits map[CategorySlug]Money

// AllocateIncome computes the per-category credits for a deposit. The split
// is the caller's: the engine does not check that the three shares sum to
// the amount, and will happily under- or over-allocate if they don't.
func AllocateIncome(amount Money, includesGas bool, dist Distribution, policy GasPolicy) CategoryCredits {
	if includesGas {
		if policy == GasToFixed {
			return CategoryCredits{SlugFixed: amount}
		}
		return CategoryCredits{}
	}
	return CategoryCredits{
		SlugFixed:    dist.Fixed,
		SlugSavings:  dist.Savings,
		SlugVariable: dist.Variable,
	}
}

// TotalFortnights converts the loan duration into fortnights.
func (l Loan) TotalFortnights() int {
	if l.DurationType == DurationMonths {
		return l.DurationValue * 2
	}
	return l.DurationValue
}

// Schedule derives the flat per-fortnight payment, rounding half-up on the
// centavo. Callers must have validated the loan first: a duration of zero
// fortnights has no schedule.
func (l Loan) Schedule() Money {
	n := int64(l.TotalFortnights())
	if n <= 0 {
		return Money{}
	}
	return Money{Cents: (l.TotalAmount.Cents + n/2) / n}
}

// FortnightLoanTotal sums the committed payments of active loans. Paid-off
// loans are retained for history but commit nothing.
func FortnightLoanTotal(loans []Loan) Money {
	var total Money
	for _, l := range loans {
		if l.Status != LoanActive {
			continue
		}
		total = total.Add(l.PaymentPerFortnight)
	}
	return total
}

// FixedSurplus is the part of the fixed bucket not already earmarked for the
// current fortnight's bills and loan payments. Never negative.
func FixedSurplus(fixedBalance Money, billTotal Money, loanTotal Money) Money {
	c := fixedBalance.Cents - billTotal.Cents - loanTotal.Cents
	if c < 0 {
		c = 0
	}
	return Money{Cents: c}
}

// SuggestSavingsSplit proposes how to divide a savings-bound deposit across
// goals by their allocation percentages. It is advice for the caller, not a
// mutation: goal balances change only through explicit funding.
func SuggestSavingsSplit(amount Money, goals []Goal) map[string]Money {
	out := make(map[string]Money, len(goals))
	for _, g := range goals {
		if g.AllocationPercentage <= 0 {
			continue
		}
		out[g.ID] = Money{Cents: amount.Cents * int64(g.AllocationPercentage) / 100}
	}
	return out
}

package core

import (
	"testing"
	"time"
)

func TestAllocateIncome(t *testing.T) {
	dist := Distribution{
		Fixed:    Money{Cents: 500000},
		Savings:  Money{Cents: 300000},
		Variable: Money{Cents: 200000},
	}

	t.Run("regular deposit credits each share", func(t *testing.T) {
		credits := AllocateIncome(Money{Cents: 1000000}, false, dist, GasIsolated)
		if credits[SlugFixed].Cents != 500000 || credits[SlugSavings].Cents != 300000 || credits[SlugVariable].Cents != 200000 {
			t.Errorf("unexpected credits: %+v", credits)
		}
	})

	t.Run("gas deposit is isolated under the default policy", func(t *testing.T) {
		credits := AllocateIncome(Money{Cents: 1000000}, true, dist, GasIsolated)
		if len(credits) != 0 {
			t.Errorf("expected no category credits, got %+v", credits)
		}
	})

	t.Run("gas deposit feeds fixed under the to-fixed policy", func(t *testing.T) {
		credits := AllocateIncome(Money{Cents: 1000000}, true, dist, GasToFixed)
		if len(credits) != 1 || credits[SlugFixed].Cents != 1000000 {
			t.Errorf("expected full amount on fixed, got %+v", credits)
		}
	})

	t.Run("engine does not police the split sum", func(t *testing.T) {
		short := Distribution{Fixed: Money{Cents: 100}}
		credits := AllocateIncome(Money{Cents: 1000000}, false, short, GasIsolated)
		if credits[SlugFixed].Cents != 100 || credits[SlugSavings].Cents != 0 {
			t.Errorf("under-allocation should pass through untouched: %+v", credits)
		}
	})
}

func TestParseGasPolicy(t *testing.T) {
	cases := []struct {
		in   string
		want GasPolicy
		ok   bool
	}{
		{"isolated", GasIsolated, true},
		{"to-fixed", GasToFixed, true},
		{"", GasIsolated, true},
		{"fixed", "", false},
	}
	for _, tc := range cases {
		got, err := ParseGasPolicy(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Errorf("ParseGasPolicy(%q) = %q, %v", tc.in, got, err)
			}
		} else if err == nil {
			t.Errorf("ParseGasPolicy(%q) expected error", tc.in)
		}
	}
}

func TestLoanSchedule(t *testing.T) {
	tests := []struct {
		name           string
		loan           Loan
		wantFortnights int
		wantPayment    int64
	}{
		{
			name:           "twelve months amortize over 24 fortnights",
			loan:           Loan{TotalAmount: Money{Cents: 6000000}, DurationValue: 12, DurationType: DurationMonths},
			wantFortnights: 24,
			wantPayment:    250000, // 60000.00 / 24 = 2500.00
		},
		{
			name:           "fortnight duration taken as-is",
			loan:           Loan{TotalAmount: Money{Cents: 100000}, DurationValue: 4, DurationType: DurationFortnights},
			wantFortnights: 4,
			wantPayment:    25000,
		},
		{
			name:           "uneven division rounds half-up",
			loan:           Loan{TotalAmount: Money{Cents: 1000}, DurationValue: 3, DurationType: DurationFortnights},
			wantFortnights: 3,
			wantPayment:    334, // 333.33… rounds to 334
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loan.TotalFortnights(); got != tt.wantFortnights {
				t.Errorf("TotalFortnights() = %d, want %d", got, tt.wantFortnights)
			}
			if got := tt.loan.Schedule(); got.Cents != tt.wantPayment {
				t.Errorf("Schedule() = %d, want %d", got.Cents, tt.wantPayment)
			}
		})
	}
}

func TestLoanValidateRejectsZeroDuration(t *testing.T) {
	l := Loan{
		Name:          "moto",
		TotalAmount:   Money{Cents: 100000},
		DurationValue: 0,
		DurationType:  DurationFortnights,
		StartDate:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := l.Validate(); err != ErrInvalidDuration {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestFortnightLoanTotalSkipsPaidLoans(t *testing.T) {
	loans := []Loan{
		{Status: LoanActive, PaymentPerFortnight: Money{Cents: 250000}},
		{Status: LoanPaid, PaymentPerFortnight: Money{Cents: 100000}},
		{Status: LoanActive, PaymentPerFortnight: Money{Cents: 50000}},
	}
	if got := FortnightLoanTotal(loans); got.Cents != 300000 {
		t.Errorf("FortnightLoanTotal = %d, want 300000", got.Cents)
	}
}

func TestFixedSurplusNeverNegative(t *testing.T) {
	tests := []struct {
		name                      string
		balance, bills, loans int64
		want                      int64
	}{
		{"plenty left", 1000000, 300000, 200000, 500000},
		{"exactly committed", 500000, 300000, 200000, 0},
		{"over-committed floors at zero", 400000, 300000, 200000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FixedSurplus(Money{Cents: tt.balance}, Money{Cents: tt.bills}, Money{Cents: tt.loans})
			if got.Cents != tt.want {
				t.Errorf("FixedSurplus = %d, want %d", got.Cents, tt.want)
			}
		})
	}
}

func TestSuggestSavingsSplit(t *testing.T) {
	goals := []Goal{
		{ID: "a", AllocationPercentage: 60},
		{ID: "b", AllocationPercentage: 40},
		{ID: "c", AllocationPercentage: 0},
	}
	split := SuggestSavingsSplit(Money{Cents: 100000}, goals)
	if split["a"].Cents != 60000 || split["b"].Cents != 40000 {
		t.Errorf("unexpected split: %+v", split)
	}
	if _, ok := split["c"]; ok {
		t.Error("zero-percentage goal should not appear in the suggestion")
	}
}

package core

import "time"

// The pay calendar has two fortnights per month: fortnight 1 runs from the
// 15th through the 29th, fortnight 2 covers the rest (the 30th/31st and the
// 1st through the 14th).
const (
	Fortnight1 = 1
	Fortnight2 = 2
)

// FortnightOf returns the pay period the given date falls in.
func FortnightOf(t time.Time) int {
	day := t.Day()
	if day >= 15 && day <= 29 {
		return Fortnight1
	}
	return Fortnight2
}

// Contribution returns what the bill commits against the fixed budget in the
// given fortnight:
//
//  1. An explicit fortnight pin wins over frequency: full amount on a match,
//     nothing otherwise.
//  2. Biweekly bills commit their full amount every fortnight.
//  3. Monthly bills amortize evenly, half per fortnight. An odd centavo
//     lands on fortnight 1 so the two halves still sum to the bill.
func (b FixedBill) Contribution(fortnight int) Money {
	if b.Fortnight != nil && (*b.Fortnight == Fortnight1 || *b.Fortnight == Fortnight2) {
		if *b.Fortnight == fortnight {
			return b.Amount
		}
		return Money{}
	}
	if b.Frequency == BillBiweekly {
		return b.Amount
	}
	half := b.Amount.Cents / 2
	if fortnight == Fortnight1 {
		half += b.Amount.Cents % 2
	}
	return Money{Cents: half}
}

// FortnightBillTotal sums every bill's contribution for the fortnight.
func FortnightBillTotal(bills []FixedBill, fortnight int) Money {
	var total Money
	for _, b := range bills {
		total = total.Add(b.Contribution(fortnight))
	}
	return total
}

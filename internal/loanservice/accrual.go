package loanservice

import (
	"time"

	"github.com/go-petr/microlend/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	day = 24 * time.Hour

	// accrualPlaces is the scale accrued interest is rounded to.
	accrualPlaces = 8
)

// daysPerYearPercent turns a percent-per-annum rate into a daily fraction.
var daysPerYearPercent = decimal.NewFromInt(365 * 100)

// ElapsedDays returns the number of whole days between approval and now.
// A clock behind the approval date yields zero.
func ElapsedDays(approved, now time.Time) int64 {
	if now.Before(approved) {
		return 0
	}

	return int64(now.Sub(approved) / day)
}

// Accrue recomputes the simple interest accrued by the loan up to now and
// reports whether the accrued or due amount moved.
//
// Accrued interest never decreases, so a stale clock cannot undo an earlier
// recomputation.
func Accrue(ln domain.Loan, now time.Time) (domain.Loan, bool) {
	days := decimal.NewFromInt(ElapsedDays(ln.DateApproved, now))

	total := ln.PrincipalAmount.
		Mul(ln.InterestRate).
		Mul(days).
		Div(daysPerYearPercent).
		Round(accrualPlaces)

	accrued := decimal.Max(ln.AmountAccrued, total)
	due := ln.PrincipalAmount.Add(accrued).Sub(ln.AmountPaid)

	changed := !accrued.Equal(ln.AmountAccrued) || !due.Equal(ln.AmountDue)

	ln.AmountAccrued = accrued
	ln.AmountDue = due

	return ln, changed
}

// accrueAll applies Accrue to every loan and returns the full list along with
// the subset that changed.
func accrueAll(loans []domain.Loan, now time.Time) (all, changed []domain.Loan) {
	all = make([]domain.Loan, 0, len(loans))

	for _, ln := range loans {
		ln, ok := Accrue(ln, now)
		if ok {
			changed = append(changed, ln)
		}

		all = append(all, ln)
	}

	return all, changed
}

package loanservice

import (
	"testing"
	"time"

	"github.com/go-petr/microlend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newLoan(principal, rate string, approved time.Time) domain.Loan {
	p := decimal.RequireFromString(principal)

	return domain.Loan{
		ID:              1,
		UserID:          1,
		PoolID:          1,
		PrincipalAmount: p,
		AmountAccrued:   decimal.Zero,
		AmountPaid:      decimal.Zero,
		AmountDue:       p,
		InterestRate:    decimal.RequireFromString(rate),
		DateApproved:    approved,
		DateDue:         approved.AddDate(1, 0, 0),
	}
}

func TestElapsedDays(t *testing.T) {
	t.Parallel()

	approved := time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC)

	testCases := []struct {
		name string
		now  time.Time
		want int64
	}{
		{"SameMoment", approved, 0},
		{"AlmostADay", approved.Add(day - time.Second), 0},
		{"OneDay", approved.Add(day), 1},
		{"TenDaysAndChange", approved.Add(10*day + 5*time.Hour), 10},
		{"ClockBehind", approved.Add(-3 * day), 0},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, ElapsedDays(approved, tc.now))
		})
	}
}

func TestAccrue(t *testing.T) {
	t.Parallel()

	approved := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	t.Run("TenDays", func(t *testing.T) {
		t.Parallel()

		ln := newLoan("1000", "7.3", approved)

		got, changed := Accrue(ln, approved.Add(10*day))
		require.True(t, changed)

		// 1000 * (7.3/365/100) * 10
		require.True(t, decimal.RequireFromString("2").Equal(got.AmountAccrued), got.AmountAccrued.String())
		require.True(t, decimal.RequireFromString("1002").Equal(got.AmountDue), got.AmountDue.String())
	})

	t.Run("SeventyThreeDaysAtFivePercent", func(t *testing.T) {
		t.Parallel()

		ln := newLoan("1200", "5", approved)

		got, changed := Accrue(ln, approved.Add(73*day))
		require.True(t, changed)
		require.Equal(t, "12.00", got.AmountAccrued.StringFixed(2))
		require.Equal(t, "1212.00", got.AmountDue.StringFixed(2))
	})

	t.Run("RoundedToEightPlaces", func(t *testing.T) {
		t.Parallel()

		ln := newLoan("100", "2", approved)

		got, _ := Accrue(ln, approved.Add(day))

		// 100 * 2 / 36500 = 0.0054794520...
		require.Equal(t, "0.00547945", got.AmountAccrued.String())
	})

	t.Run("SameDayIsIdempotent", func(t *testing.T) {
		t.Parallel()

		ln := newLoan("500", "10", approved)

		first, changed := Accrue(ln, approved.Add(3*day+time.Hour))
		require.True(t, changed)

		second, changed := Accrue(first, approved.Add(3*day+20*time.Hour))
		require.False(t, changed)
		require.True(t, first.AmountAccrued.Equal(second.AmountAccrued))
		require.True(t, first.AmountDue.Equal(second.AmountDue))
	})

	t.Run("FreshLoanUnchanged", func(t *testing.T) {
		t.Parallel()

		ln := newLoan("500", "10", approved)

		got, changed := Accrue(ln, approved.Add(time.Hour))
		require.False(t, changed)
		require.True(t, got.AmountAccrued.IsZero())
		require.True(t, got.AmountDue.Equal(ln.PrincipalAmount))
	})

	t.Run("ClockSkewNeverDecreases", func(t *testing.T) {
		t.Parallel()

		ln := newLoan("1000", "7.3", approved)

		later, _ := Accrue(ln, approved.Add(20*day))

		got, changed := Accrue(later, approved.Add(5*day))
		require.False(t, changed)
		require.True(t, later.AmountAccrued.Equal(got.AmountAccrued))

		got, changed = Accrue(later, approved.Add(-day))
		require.False(t, changed)
		require.True(t, later.AmountAccrued.Equal(got.AmountAccrued))
	})

	t.Run("PaidReducesDue", func(t *testing.T) {
		t.Parallel()

		ln := newLoan("1000", "7.3", approved)
		ln.AmountPaid = decimal.NewFromInt(300)
		ln.AmountDue = decimal.NewFromInt(700)

		got, changed := Accrue(ln, approved.Add(10*day))
		require.True(t, changed)
		require.True(t, decimal.NewFromInt(702).Equal(got.AmountDue), got.AmountDue.String())
	})

	t.Run("ZeroRate", func(t *testing.T) {
		t.Parallel()

		ln := newLoan("1000", "0", approved)

		got, changed := Accrue(ln, approved.Add(400*day))
		require.False(t, changed)
		require.True(t, got.AmountAccrued.IsZero())
	})

	t.Run("MonotonicOverTime", func(t *testing.T) {
		t.Parallel()

		ln := newLoan("999.99", "13.5", approved)
		prev := ln.AmountAccrued

		for d := 0; d <= 60; d++ {
			ln, _ = Accrue(ln, approved.Add(time.Duration(d)*day))
			require.False(t, ln.AmountAccrued.LessThan(prev), "day %d", d)
			require.True(t, ln.AmountDue.Equal(ln.PrincipalAmount.Add(ln.AmountAccrued).Sub(ln.AmountPaid)))
			prev = ln.AmountAccrued
		}
	})
}

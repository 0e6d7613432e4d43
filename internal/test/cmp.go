package test

import (
	"fmt"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// EquateDecimal compares decimals by value, so 12 equals 12.00.
var EquateDecimal = cmp.Comparer(func(x, y decimal.Decimal) bool {
	return x.Equal(y)
})

type eqDecimalMatcher struct {
	want decimal.Decimal
}

func (e eqDecimalMatcher) Matches(x interface{}) bool {
	d, ok := x.(decimal.Decimal)
	if !ok {
		return false
	}

	return d.Equal(e.want)
}

func (e eqDecimalMatcher) String() string {
	return fmt.Sprintf("is decimal equal to %v", e.want)
}

// EqDecimal returns gomock matcher comparing decimals by value.
func EqDecimal(want decimal.Decimal) gomock.Matcher {
	return eqDecimalMatcher{want}
}

type eqCmpMatcher struct {
	want interface{}
}

func (e eqCmpMatcher) Matches(x interface{}) bool {
	return cmp.Equal(e.want, x, EquateDecimal)
}

func (e eqCmpMatcher) String() string {
	return fmt.Sprintf("is equal to %+v", e.want)
}

// EqCmp returns gomock matcher that compares with cmp.Equal and decimals by value.
func EqCmp(want interface{}) gomock.Matcher {
	return eqCmpMatcher{want}
}

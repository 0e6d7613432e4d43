// Package randompkg provides random test fixtures and account numbers.
package randompkg

import (
	"crypto/rand"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Account numbers are ten digits starting with 5.
const (
	MinAccountNumber int64 = 5_000_000_000
	MaxAccountNumber int64 = 5_999_999_999
)

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int64) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// Float64 is a shortcut for generating a random float between 0 and 1 using crypto/rand.
func Float64() float64 {
	return float64(Intn(1<<32)) / (1 << 32)
}

// IntBetween generates a random integer between min and max inclusive.
func IntBetween(min, max int32) int32 {
	return min + int32(Intn(int64(max-min)+1))
}

// FloatBetween generates a random decimal number between min and max rounded to 2 decimals.
func FloatBetween(min, max float64) float64 {
	numInRange := min + Float64()*(max-min)
	return math.Floor(numInRange*100) / 100
}

// String generates a random string of length n.
func String(n int) string {
	var sb strings.Builder

	k := int64(len(alphabet))

	for i := 0; i < n; i++ {
		c := alphabet[Intn(k)]

		_ = sb.WriteByte(c) // The returned err is always nil.
	}

	return sb.String()
}

// Username generates a random username.
func Username() string {
	return String(8)
}

// MoneyBetween generates a random amount of money between min and max with cents precision.
func MoneyBetween(min, max float64) decimal.Decimal {
	return decimal.NewFromFloat(FloatBetween(min, max)).Round(2)
}

// AccountNumber generates a random bank account number.
func AccountNumber() int64 {
	return MinAccountNumber + Intn(MaxAccountNumber-MinAccountNumber+1)
}

// Category generates a random pool category.
func Category() string {
	categories := []string{"Housing", "Education", "Business", "Medical"}
	return categories[Intn(int64(len(categories)))]
}

package moneypkg

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "Integer", input: "500", want: "500"},
		{name: "Cents", input: "12.34", want: "12.34"},
		{name: "TrailingZeros", input: "1.500", want: "1.5"},
		{name: "Spaces", input: " 7.5 ", want: "7.5"},
		{name: "Negative", input: "-3", want: "-3"},
		{name: "Blank", input: "", wantErr: ErrBlank},
		{name: "OnlySpaces", input: "   ", wantErr: ErrBlank},
		{name: "Letters", input: "abc", wantErr: ErrNotNumeric},
		{name: "Exponent", input: "1e3", wantErr: ErrNotNumeric},
		{name: "Separators", input: "1,000", wantErr: ErrNotNumeric},
		{name: "TooPrecise", input: "0.001", wantErr: ErrTooPrecise},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tc.input)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.True(t, got.Equal(decimal.RequireFromString(tc.want)), "Parse(%q) = %v, want %v", tc.input, got, tc.want)
		})
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		amount string
		want   string
	}{
		{"0", "$0.00"},
		{"5", "$5.00"},
		{"999.999", "$1,000.00"},
		{"1500", "$1,500.00"},
		{"1234567.8", "$1,234,567.80"},
		{"-42.1", "-$42.10"},
	}

	for _, tc := range testCases {
		got := Format(decimal.RequireFromString(tc.amount))
		if got != tc.want {
			t.Errorf("Format(%v) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

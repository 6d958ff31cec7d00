package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		amount decimal.Decimal
		want   string
	}{
		{decimal.NewFromFloat(35.25), "$35.25"},
		{decimal.NewFromFloat(5), "$5.00"},
		{decimal.NewFromFloat(0.5), "$0.50"},
		{decimal.Zero, "$0.00"},
	}

	for _, tc := range cases {
		if got := Format(tc.amount); got != tc.want {
			t.Fatalf("Format(%s) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := Parse("not-a-price"); err == nil {
		t.Fatal("expected error for invalid amount")
	}
	amount, err := Parse("10.25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !amount.Equal(decimal.NewFromFloat(10.25)) {
		t.Fatalf("unexpected amount: %s", amount)
	}
}

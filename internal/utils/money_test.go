package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSplitCommission(t *testing.T) {
	cases := []struct {
		total, commission, provider string
	}{
		{"150.00", "30.00", "120.00"},
		{"100.00", "20.00", "80.00"},
		{"99.99", "20.00", "79.99"},
		{"0.01", "0.00", "0.01"},
		{"0.00", "0.00", "0.00"},
	}
	for _, c := range cases {
		total := decimal.RequireFromString(c.total)
		commission, provider := SplitCommission(total)
		if !commission.Equal(decimal.RequireFromString(c.commission)) {
			t.Fatalf("total %s: commission got %s want %s", c.total, commission, c.commission)
		}
		if !provider.Equal(decimal.RequireFromString(c.provider)) {
			t.Fatalf("total %s: provider got %s want %s", c.total, provider, c.provider)
		}
	}
}

func TestSplitCommission_SumsBackExactly(t *testing.T) {
	for _, s := range []string{"150.00", "99.99", "33.33", "0.05", "1234.56"} {
		total := decimal.RequireFromString(s)
		commission, provider := SplitCommission(total)
		if !commission.Add(provider).Equal(total) {
			t.Fatalf("total %s: %s + %s does not sum back", s, commission, provider)
		}
	}
}

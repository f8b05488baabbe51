package utils

import "github.com/shopspring/decimal"

// commissionRate is the platform share of every settlement.
var commissionRate = decimal.RequireFromString("0.20")

// SplitCommission divides a total into platform commission and provider
// share. The commission is rounded to currency precision; the provider
// share is derived by subtraction so the two always sum back to the total
// exactly.
func SplitCommission(total decimal.Decimal) (commission, provider decimal.Decimal) {
	commission = total.Mul(commissionRate).Round(2)
	provider = total.Sub(commission)
	return commission, provider
}

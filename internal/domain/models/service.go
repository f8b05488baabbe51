package models

import "github.com/shopspring/decimal"

// Service is read-only catalog data; the catalog itself is maintained by
// an external collaborator.
type Service struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

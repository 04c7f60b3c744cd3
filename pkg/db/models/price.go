package models

import "time"

// Price is one snapshot of a token's price and pool liquidity.
type Price struct {
	ContractPrincipal string     `db:"contract_principal"`
	Price             *float64   `db:"price"`
	TVL               *float64   `db:"tvl"`
	UpdatedAt         *time.Time `db:"updated_at"`
	CreatedAt         *time.Time `db:"created_at"`
}

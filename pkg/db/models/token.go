package models

// Token is token metadata discovered from contracts.
type Token struct {
	ContractPrincipal string   `db:"contract_principal"`
	AssetIdentifier   *string  `db:"asset_identifier"`
	Name              *string  `db:"name"`
	Symbol            *string  `db:"symbol"`
	ImageURI          *string  `db:"image_uri"`
	Decimals          *float64 `db:"decimals_from_contract"`
	TotalSupply       *float64 `db:"total_supply_from_contract"`
}

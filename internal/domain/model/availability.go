package model

// AvailableCredit is one row of a user's spendable balance view, computed on
// demand from the credit and its consumption records.
type AvailableCredit struct {
	CreditID          string  `json:"credit_id"`
	SKU               string  `json:"sku"`
	Name              string  `json:"name"`
	Expirable         bool    `json:"expirable"`
	IsPaid            bool    `json:"is_paid"`
	QuantityAvailable float64 `json:"quantity_available"`
}

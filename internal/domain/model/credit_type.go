package model

import (
	"time"

	"listing-credit-ledger/internal/domain"
)

// MonthlyFreeSKU is the well-known SKU of the recurring free allotment.
// Credits of this type are surfaced to the user even when fully consumed,
// because their quantity refreshes out-of-band (see sched.RefillWorker).
const MonthlyFreeSKU = "monthly-free"

// CreditType is reference data describing a purchasable credit SKU.
type CreditType struct {
	SKU             string
	Name            string
	DefaultQuantity float64
	IsMonthlyFree   bool
	CreatedAt       time.Time
}

func (t *CreditType) IsZero() bool { return t == nil || t.SKU == "" }

// NewCreditType validates and constructs a credit type.
func NewCreditType(sku, name string, defaultQuantity float64, isMonthlyFree bool) (*CreditType, error) {
	if sku == "" || name == "" || defaultQuantity <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &CreditType{
		SKU:             sku,
		Name:            name,
		DefaultQuantity: defaultQuantity,
		IsMonthlyFree:   isMonthlyFree,
		CreatedAt:       time.Now(),
	}, nil
}

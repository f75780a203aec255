package model

import (
	"time"

	"github.com/google/uuid"

	"listing-credit-ledger/internal/domain"
)

// Credit is a granted quota of a service unit. The row is immutable after
// issuance; balance is always derived from consumption_records, never stored.
type Credit struct {
	ID         string // UUID
	TypeSKU    string
	UserID     string
	Quantity   float64    // total granted at issuance, fixed
	Expiration *time.Time // nil means the credit never expires
	PaymentID  *string    // nil for unpaid grants
	IsPaid     bool
	IssuedAt   time.Time
}

// NewCredit constructs a grant against a type. Quantity is always taken from
// the type's default so callers cannot over-grant, and IsPaid is derived from
// payment presence rather than supplied.
func NewCredit(id string, t *CreditType, userID string, expiration *time.Time, paymentID *string) (*Credit, error) {
	if t.IsZero() || userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if paymentID != nil && *paymentID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if id == "" {
		id = uuid.NewString()
	}
	return &Credit{
		ID:         id,
		TypeSKU:    t.SKU,
		UserID:     userID,
		Quantity:   t.DefaultQuantity,
		Expiration: expiration,
		PaymentID:  paymentID,
		IsPaid:     paymentID != nil,
		IssuedAt:   time.Now(),
	}, nil
}

// Expired reports whether the credit's expiration has passed as of now.
// A credit without an expiration never expires.
func (c *Credit) Expired(now time.Time) bool {
	return c.Expiration != nil && c.Expiration.Before(now)
}

// Expirable reports whether the credit carries an expiration at all.
func (c *Credit) Expirable() bool { return c.Expiration != nil }

package model

import (
	"time"

	"github.com/oklog/ulid/v2"

	"listing-credit-ledger/internal/domain"
)

// ConsumptionRecord is an append-only ledger entry debiting part of a
// credit's quantity for a specific consuming action (e.g. a listing).
// Records are never mutated or deleted; corrections are appended as new
// entries with a negative quantity.
type ConsumptionRecord struct {
	ID               string // ULID, lexically ordered by creation time
	CreditID         string
	ConsumerID       string
	QuantityConsumed float64
	Metadata         map[string]string
	RecordedAt       time.Time
}

// NewConsumptionRecord validates and constructs a ledger entry. Quantity may
// be negative for adjustment entries but never zero.
func NewConsumptionRecord(creditID, consumerID string, quantity float64, metadata map[string]string) (*ConsumptionRecord, error) {
	if creditID == "" || consumerID == "" || quantity == 0 {
		return nil, domain.ErrInvalidArgument
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	return &ConsumptionRecord{
		ID:               ulid.Make().String(),
		CreditID:         creditID,
		ConsumerID:       consumerID,
		QuantityConsumed: quantity,
		Metadata:         metadata,
		RecordedAt:       time.Now(),
	}, nil
}

package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jmfarina/payments-backend/pkg/enums"
)

// PaymentIntent is the persisted shape of an intent: one row per intent with
// a nullable timestamp column per lifecycle event. Legal column combinations
// are enforced by the intents service, which routes every write through its
// transition table.
type PaymentIntent struct {
	ID          string             `gorm:"column:id;primaryKey;size:100"`
	Seq         int64              `gorm:"column:seq;->"`
	Status      enums.IntentStatus `gorm:"column:status;size:32;not null"`
	Amount      decimal.Decimal    `gorm:"column:amount;type:decimal(18,2);not null"`
	Currency    enums.Currency     `gorm:"column:currency;size:3;not null"`
	Description *string            `gorm:"column:description;size:500"`
	CreatedAt   time.Time          `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;not null"`
	ConfirmedAt *time.Time         `gorm:"column:confirmed_at"`
	ExpiresAt   *time.Time         `gorm:"column:expires_at"`
	CapturedAt  *time.Time         `gorm:"column:captured_at"`
	ReversedAt  *time.Time         `gorm:"column:reversed_at"`
	ExpiredAt   *time.Time         `gorm:"column:expired_at"`
}

// TableName implements the GORM naming override.
func (PaymentIntent) TableName() string {
	return "payment_intents"
}

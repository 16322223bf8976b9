package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an append-mostly payment event against one loan.
// AsalAmount is the principal portion ("asal"), InterestAmount the
// interest portion; Amount is the total and is derived from the two
// when not supplied. Creating, amending or deleting a transaction
// mutates the owning loan through the ledger service in the same
// database transaction.
type Transaction struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
	LoanID    uint `gorm:"index;not null"`
	Loan      Loan `gorm:"foreignKey:LoanID;references:ID"`

	Amount         decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	AsalAmount     *decimal.Decimal `gorm:"type:numeric(12,2)"`
	InterestAmount *decimal.Decimal `gorm:"type:numeric(12,2)"`
	PaymentMethod  string           `gorm:"size:20;not null;default:cash"`
	Description    string           `gorm:"size:512"`

	// Reference is a server-generated identifier handed back to clients.
	Reference string `gorm:"size:36;not null;uniqueIndex"`
	// IdempotencyKey dedupes retried creates: a second create with the
	// same key returns the original transaction instead of reapplying
	// the payment.
	IdempotencyKey *string `gorm:"size:64;uniqueIndex"`

	CreatedByID uint `gorm:"index;not null"`
	CreatedBy   User `gorm:"foreignKey:CreatedByID;references:ID"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a business expense. Expenses reduce net income in the
// period reports but never touch loan balances.
type Expense struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
	Description string          `gorm:"size:512;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedByID uint            `gorm:"index;not null"`
	CreatedBy   User            `gorm:"foreignKey:CreatedByID;references:ID"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan type codes stored in the loan_type column.
const (
	LoanTypeDailyCollection = "DC Loan"
	LoanTypeMonthlyInterest = "Monthly Interest Loan"
	LoanTypeDailyLoan       = "DL Loan"
)

// Loan statuses. Settled is reached when the remaining amount hits zero
// and is reversible: deleting or shrinking a payment reactivates the loan.
const (
	LoanStatusActive  = "active"
	LoanStatusSettled = "settled"
	LoanStatusOverdue = "overdue"
)

// Disbursement / payment channels.
const (
	PaymentMethodCash   = "cash"
	PaymentMethodOnline = "online"
)

// Loan is the central mutable entity. RemainingAmount, PendingInterest,
// Status and LastInterestPaymentDate are server-controlled: they change
// only through the ledger service, never from client input.
//
// Exactly one parameter group must be populated, matching LoanType:
//
//	Monthly Interest Loan: MonthlyInterestRate + InterestCycleDay
//	DC Loan:               DailyCollectionAmount (+ ExpectedTotalDays)
//	DL Loan:               DailyInterestRate (+ MaxDays)
type Loan struct {
	ID         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	CustomerID uint     `gorm:"index;not null"`
	Customer   Customer `gorm:"foreignKey:CustomerID;references:ID"`
	LoanType   string   `gorm:"size:25;not null"`

	PrincipalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	RemainingAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	StartDate       time.Time       `gorm:"type:date;not null"`
	Status          string          `gorm:"size:20;not null;default:active"`
	// PendingInterest is interest billed but not collected, carried into
	// the next cycle after an underpayment.
	PendingInterest decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`

	// Monthly Interest Loan fields
	MonthlyInterestRate *decimal.Decimal `gorm:"type:numeric(5,2)"`
	InterestCycleDay    *int             // day of month interest is due (1-31)

	// DC Loan fields
	DailyCollectionAmount *decimal.Decimal `gorm:"type:numeric(12,2)"`
	ExpectedTotalDays     *int

	// DL Loan fields
	DailyInterestRate       *decimal.Decimal `gorm:"type:numeric(5,2)"`
	MaxDays                 *int
	LastInterestPaymentDate *time.Time `gorm:"type:date"` // re-anchors the DL day count once interest is fully paid

	PaymentMethod string `gorm:"size:10;not null;default:cash"`
	CreatedByID   uint   `gorm:"index;not null"`
	CreatedBy     User   `gorm:"foreignKey:CreatedByID;references:ID"`

	Transactions []Transaction `gorm:"foreignKey:LoanID"`
}

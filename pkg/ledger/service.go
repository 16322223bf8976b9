package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lendbook/models"
	"lendbook/pkg/money"
)

// Service executes the reconciliation rules against the persisted
// store. Every write that touches a loan's balance runs inside one
// database transaction with the loan row locked FOR UPDATE, so
// concurrent payments against the same loan serialize while payments
// against different loans proceed in parallel.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateLoan validates the type-specific parameter group and persists
// the loan with server-computed balance state.
func (s *Service) CreateLoan(loan *models.Loan) error {
	if loan.PrincipalAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: principal amount must be positive", ErrValidation)
	}
	if _, err := TermsOf(loan); err != nil {
		return err
	}
	loan.RemainingAmount = loan.PrincipalAmount
	loan.PendingInterest = decimal.Zero
	loan.Status = models.LoanStatusActive
	if loan.StartDate.IsZero() {
		now := time.Now().UTC()
		loan.StartDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	if err := s.db.Create(loan).Error; err != nil {
		return fmt.Errorf("create loan: %w", err)
	}
	return nil
}

// LoanUpdate carries the editable loan fields. Nil means unchanged.
type LoanUpdate struct {
	LoanType              *string
	PrincipalAmount       *decimal.Decimal
	StartDate             *time.Time
	PaymentMethod         *string
	MonthlyInterestRate   *decimal.Decimal
	InterestCycleDay      *int
	DailyCollectionAmount *decimal.Decimal
	ExpectedTotalDays     *int
	DailyInterestRate     *decimal.Decimal
	MaxDays               *int
}

// UpdateLoan edits a loan's structural fields. Rejected once any
// transaction references the loan: edits are only for virgin records.
// A principal change re-derives the remaining balance from what has
// been paid so far.
func (s *Service) UpdateLoan(id uint, upd LoanUpdate) (*models.Loan, error) {
	var loan models.Loan
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&loan, id).Error; err != nil {
			return loanLookupErr(id, err)
		}
		var count int64
		if err := tx.Model(&models.Transaction{}).Where("loan_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: cannot edit loan with existing transactions", ErrConflict)
		}

		oldPrincipal := loan.PrincipalAmount
		if upd.LoanType != nil && *upd.LoanType != loan.LoanType {
			// changing the product drops the old type's parameter group;
			// the request must supply the new group's fields
			clearTermsGroup(&loan)
			loan.LoanType = *upd.LoanType
		}
		if upd.PrincipalAmount != nil {
			loan.PrincipalAmount = *upd.PrincipalAmount
		}
		if upd.StartDate != nil {
			loan.StartDate = *upd.StartDate
		}
		if upd.PaymentMethod != nil {
			loan.PaymentMethod = *upd.PaymentMethod
		}
		if upd.MonthlyInterestRate != nil {
			loan.MonthlyInterestRate = upd.MonthlyInterestRate
		}
		if upd.InterestCycleDay != nil {
			loan.InterestCycleDay = upd.InterestCycleDay
		}
		if upd.DailyCollectionAmount != nil {
			loan.DailyCollectionAmount = upd.DailyCollectionAmount
		}
		if upd.ExpectedTotalDays != nil {
			loan.ExpectedTotalDays = upd.ExpectedTotalDays
		}
		if upd.DailyInterestRate != nil {
			loan.DailyInterestRate = upd.DailyInterestRate
		}
		if upd.MaxDays != nil {
			loan.MaxDays = upd.MaxDays
		}

		if _, err := TermsOf(&loan); err != nil {
			return err
		}
		if upd.PrincipalAmount != nil && !upd.PrincipalAmount.Equal(oldPrincipal) {
			loan.RemainingAmount = RecomputeRemaining(oldPrincipal, loan.PrincipalAmount, loan.RemainingAmount)
			loan = settle(loan)
		}
		return tx.Save(&loan).Error
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// DeleteLoan removes a loan, guarded the same way as edits.
func (s *Service) DeleteLoan(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var loan models.Loan
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&loan, id).Error; err != nil {
			return loanLookupErr(id, err)
		}
		var count int64
		if err := tx.Model(&models.Transaction{}).Where("loan_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: cannot delete loan with existing transactions", ErrConflict)
		}
		return tx.Delete(&loan).Error
	})
}

// RecordPayment applies a new payment to its loan and persists both
// atomically. On success txn is replaced with the persisted record.
// A repeated idempotency key short-circuits to the original
// transaction without reapplying the payment.
func (s *Service) RecordPayment(txn *models.Transaction) error {
	if txn.IdempotencyKey != nil && *txn.IdempotencyKey != "" {
		var existing models.Transaction
		if err := s.db.Where("idempotency_key = ?", *txn.IdempotencyKey).First(&existing).Error; err == nil {
			*txn = existing
			return nil
		}
	}
	if txn.Reference == "" {
		txn.Reference = uuid.NewString()
	}
	at := txn.CreatedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var loan models.Loan
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&loan, txn.LoanID).Error; err != nil {
			return loanLookupErr(txn.LoanID, err)
		}
		updatedLoan, updatedTxn, err := Apply(loan, *txn, at)
		if err != nil {
			return err
		}
		if err := tx.Save(&updatedLoan).Error; err != nil {
			return fmt.Errorf("update loan balance: %w", err)
		}
		if err := tx.Create(&updatedTxn).Error; err != nil {
			return fmt.Errorf("store transaction: %w", err)
		}
		*txn = updatedTxn
		return nil
	})
}

// TransactionUpdate carries the editable transaction fields. Nil means
// unchanged.
type TransactionUpdate struct {
	Amount         *decimal.Decimal
	AsalAmount     *decimal.Decimal
	InterestAmount *decimal.Decimal
	PaymentMethod  *string
	Description    *string
}

// AmendTransaction edits a payment record and applies the principal
// delta to the loan. The interest policy is not re-run on amendment,
// matching the reconciliation rules.
func (s *Service) AmendTransaction(id uint, upd TransactionUpdate) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&txn, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: transaction %d", ErrNotFound, id)
			}
			return err
		}
		var loan models.Loan
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&loan, txn.LoanID).Error; err != nil {
			return loanLookupErr(txn.LoanID, err)
		}

		oldAsal := EffectivePrincipalPortion(txn)

		if upd.AsalAmount != nil {
			txn.AsalAmount = upd.AsalAmount
		}
		if upd.InterestAmount != nil {
			txn.InterestAmount = upd.InterestAmount
		}
		switch {
		case upd.Amount != nil:
			txn.Amount = *upd.Amount
		case upd.AsalAmount != nil || upd.InterestAmount != nil:
			txn.Amount = money.FromPtr(txn.AsalAmount).Add(money.FromPtr(txn.InterestAmount))
		}
		if upd.PaymentMethod != nil {
			txn.PaymentMethod = *upd.PaymentMethod
		}
		if upd.Description != nil {
			txn.Description = *upd.Description
		}

		newAsal := EffectivePrincipalPortion(txn)
		if !newAsal.Equal(oldAsal) {
			loan = AdjustPrincipalPortion(loan, oldAsal, newAsal)
			if err := tx.Save(&loan).Error; err != nil {
				return fmt.Errorf("update loan balance: %w", err)
			}
		}
		return tx.Save(&txn).Error
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// DeleteTransaction removes a payment record and reverses its
// principal effect on the loan.
func (s *Service) DeleteTransaction(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var txn models.Transaction
		if err := tx.First(&txn, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: transaction %d", ErrNotFound, id)
			}
			return err
		}
		var loan models.Loan
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&loan, txn.LoanID).Error; err != nil {
			return loanLookupErr(txn.LoanID, err)
		}
		loan = Reverse(loan, txn)
		if err := tx.Save(&loan).Error; err != nil {
			return fmt.Errorf("update loan balance: %w", err)
		}
		return tx.Delete(&txn).Error
	})
}

func clearTermsGroup(loan *models.Loan) {
	loan.MonthlyInterestRate = nil
	loan.InterestCycleDay = nil
	loan.DailyCollectionAmount = nil
	loan.ExpectedTotalDays = nil
	loan.DailyInterestRate = nil
	loan.MaxDays = nil
}

func loanLookupErr(id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: loan %d", ErrNotFound, id)
	}
	return err
}

package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"lendbook/models"
	"lendbook/pkg/money"
)

// Apply runs the payment-application state machine for a new
// transaction and returns updated copies of both records. It never
// touches the database: the caller persists both inside one
// transaction or neither.
//
// Steps, in order:
//  1. Derive the total amount from asal+interest when absent; reject
//     an all-zero payment.
//  2. Reduce the principal by the asal portion. An interest-only
//     payment reduces nothing; the full-amount fallback applies only
//     to lump payments recorded with no split at all.
//  3. For interest-bearing types, compare the interest paid against
//     the expected interest (current cycle + carried pending) and
//     carry any shortfall forward as pending interest.
//  4. A DL loan whose interest is fully cleared re-anchors its day
//     count at the payment date.
//  5. Clamp the remaining amount at zero and settle; reactivate a
//     settled loan that ends up with a positive balance.
func Apply(loan models.Loan, txn models.Transaction, asOf time.Time) (models.Loan, models.Transaction, error) {
	if txn.Amount.IsZero() {
		txn.Amount = money.FromPtr(txn.AsalAmount).Add(money.FromPtr(txn.InterestAmount))
	}
	if txn.Amount.IsZero() && money.FromPtr(txn.AsalAmount).IsZero() && money.FromPtr(txn.InterestAmount).IsZero() {
		return loan, txn, fmt.Errorf("%w: either amount or asal_amount/interest_amount is required", ErrValidation)
	}

	loan.RemainingAmount = loan.RemainingAmount.Sub(EffectivePrincipalPortion(txn))

	switch loan.LoanType {
	case models.LoanTypeMonthlyInterest:
		expected := MonthlyInterest(&loan).Add(loan.PendingInterest)
		paid := money.FromPtr(txn.InterestAmount)
		if paid.LessThan(expected) {
			loan.PendingInterest = expected.Sub(paid)
		} else {
			loan.PendingInterest = decimal.Zero
		}

	case models.LoanTypeDailyLoan:
		interest, _ := DailyLoanInterest(&loan, asOf)
		expected := interest.Add(loan.PendingInterest)
		paid := money.FromPtr(txn.InterestAmount)
		if paid.LessThan(expected) {
			loan.PendingInterest = expected.Sub(paid)
		} else {
			loan.PendingInterest = decimal.Zero
			at := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
			loan.LastInterestPaymentDate = &at
		}
	}

	loan = settle(loan)
	return loan, txn, nil
}

// Reverse undoes a deleted transaction's principal effect: the asal
// portion (or the full amount when no split was recorded) goes back
// onto the loan, and a settled loan reactivates. Pending interest is
// deliberately left untouched; see the ledger notes in DESIGN.md.
func Reverse(loan models.Loan, txn models.Transaction) models.Loan {
	loan.RemainingAmount = loan.RemainingAmount.Add(EffectivePrincipalPortion(txn))
	return settle(loan)
}

// EffectivePrincipalPortion is the amount by which a transaction
// reduces its loan's principal: the asal portion when a split was
// recorded (an interest-only payment counts as asal 0), or the full
// amount when no split was recorded at all.
func EffectivePrincipalPortion(txn models.Transaction) decimal.Decimal {
	if txn.AsalAmount != nil {
		return *txn.AsalAmount
	}
	if txn.InterestAmount != nil {
		return decimal.Zero
	}
	return txn.Amount
}

// AdjustPrincipalPortion applies the signed principal delta of an
// amended transaction to the loan. Interest and pending interest are
// not recomputed on amendment.
func AdjustPrincipalPortion(loan models.Loan, oldAsal, newAsal decimal.Decimal) models.Loan {
	loan.RemainingAmount = loan.RemainingAmount.Sub(newAsal.Sub(oldAsal))
	return settle(loan)
}

// RecomputeRemaining reconciles the remaining balance after a
// principal edit: what was already paid stays paid, the rest follows
// the new principal, floored at zero.
func RecomputeRemaining(oldPrincipal, newPrincipal, remaining decimal.Decimal) decimal.Decimal {
	paid := oldPrincipal.Sub(remaining)
	newRemaining := newPrincipal.Sub(paid)
	if newRemaining.IsNegative() {
		return decimal.Zero
	}
	return newRemaining
}

// settle enforces the remaining/status invariant: remaining <= 0 means
// clamped to zero and settled; a settled loan with a positive balance
// flips back to active.
func settle(loan models.Loan) models.Loan {
	if loan.RemainingAmount.LessThanOrEqual(decimal.Zero) {
		loan.RemainingAmount = decimal.Zero
		loan.Status = models.LoanStatusSettled
	} else if loan.Status == models.LoanStatusSettled {
		loan.Status = models.LoanStatusActive
	}
	return loan
}

package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"lendbook/models"
)

var lowBalanceRatio = decimal.NewFromFloat(0.2)

// DueToday reports whether a Monthly Interest Loan's cycle day matches
// the evaluation date.
func DueToday(loan *models.Loan, today time.Time) bool {
	return loan.LoanType == models.LoanTypeMonthlyInterest &&
		loan.InterestCycleDay != nil &&
		*loan.InterestCycleDay == today.Day()
}

// DaysOverdue is how many days past the cycle day the evaluation date
// is within the current month, 0 when not yet due. Whether the cycle
// was actually paid is the caller's check against the transactions of
// the month.
func DaysOverdue(loan *models.Loan, today time.Time) int {
	if loan.LoanType != models.LoanTypeMonthlyInterest || loan.InterestCycleDay == nil {
		return 0
	}
	d := today.Day() - *loan.InterestCycleDay
	if d < 0 {
		return 0
	}
	return d
}

// IsLowBalance reports whether less than 20% of the principal remains.
func IsLowBalance(loan *models.Loan) bool {
	if loan.PrincipalAmount.IsZero() {
		return false
	}
	return loan.RemainingAmount.LessThan(loan.PrincipalAmount.Mul(lowBalanceRatio))
}

// CycleStart is the first day of the evaluation date's month, the
// window in which a monthly cycle's interest payment counts.
func CycleStart(today time.Time) time.Time {
	return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
}

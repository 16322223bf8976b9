package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"lendbook/models"
	"lendbook/pkg/money"
)

// DaysBetween counts whole calendar days from one date to another,
// ignoring the time-of-day components. Never negative: if to precedes
// from the count clamps to 0.
func DaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	days := int(t.Sub(f).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// MonthlyInterest is the interest due for the current cycle of a
// Monthly Interest Loan: remaining * rate / 100. Zero for other types.
func MonthlyInterest(loan *models.Loan) decimal.Decimal {
	if loan.LoanType != models.LoanTypeMonthlyInterest || loan.MonthlyInterestRate == nil {
		return decimal.Zero
	}
	return money.Percent(loan.RemainingAmount, *loan.MonthlyInterestRate)
}

// DailyLoanInterest is the interest accrued on a DL Loan as of the
// given date: remaining * rate / 100 * days. The day count is anchored
// at the last full interest payment, or the start date before any.
// Returns the interest and the day count used.
func DailyLoanInterest(loan *models.Loan, asOf time.Time) (decimal.Decimal, int) {
	if loan.LoanType != models.LoanTypeDailyLoan || loan.DailyInterestRate == nil {
		return decimal.Zero, 0
	}
	anchor := loan.StartDate
	if loan.LastInterestPaymentDate != nil {
		anchor = *loan.LastInterestPaymentDate
	}
	days := DaysBetween(anchor, asOf)
	interest := money.Round2(loan.RemainingAmount.
		Mul(*loan.DailyInterestRate).
		Div(decimal.NewFromInt(100)).
		Mul(decimal.NewFromInt(int64(days))))
	return interest, days
}

// TotalPendingInterest is the carried-over pending interest plus the
// current cycle's interest. For DC loans it is just the carried value,
// which stays zero in practice.
func TotalPendingInterest(loan *models.Loan, asOf time.Time) decimal.Decimal {
	switch loan.LoanType {
	case models.LoanTypeMonthlyInterest:
		return loan.PendingInterest.Add(MonthlyInterest(loan))
	case models.LoanTypeDailyLoan:
		interest, _ := DailyLoanInterest(loan, asOf)
		return loan.PendingInterest.Add(interest)
	}
	return loan.PendingInterest
}

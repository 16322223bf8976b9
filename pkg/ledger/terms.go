package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"lendbook/models"
)

// Terms is the closed set of per-product parameter groups. Exactly one
// variant applies to a loan, decided by its loan_type code; TermsOf
// rejects loans whose populated fields do not match their type.
type Terms interface {
	LoanType() string
}

// MonthlyTerms: a fixed percentage of the remaining principal falls due
// on CycleDay of every month.
type MonthlyTerms struct {
	Rate     decimal.Decimal // percent per month
	CycleDay int             // 1-31
}

func (MonthlyTerms) LoanType() string { return models.LoanTypeMonthlyInterest }

// DailyCollectionTerms: pure principal amortization via a fixed daily
// installment. DC loans carry no interest model.
type DailyCollectionTerms struct {
	Amount    decimal.Decimal // fixed daily installment
	TotalDays int             // expected days to completion, 0 if unset
}

func (DailyCollectionTerms) LoanType() string { return models.LoanTypeDailyCollection }

// DailyLoanTerms: interest accrues per day on the outstanding balance.
type DailyLoanTerms struct {
	Rate    decimal.Decimal // percent per day
	MaxDays int             // maximum days to completion, 0 if unset
}

func (DailyLoanTerms) LoanType() string { return models.LoanTypeDailyLoan }

// TermsOf extracts and validates the parameter group matching the
// loan's type. It is the single place the "wrong fields populated"
// invariant is enforced: the matching group must be populated and
// valid, and every other group's fields must be empty.
func TermsOf(loan *models.Loan) (Terms, error) {
	switch loan.LoanType {
	case models.LoanTypeMonthlyInterest:
		if loan.MonthlyInterestRate == nil || loan.MonthlyInterestRate.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: monthly interest rate is required for %s", ErrValidation, loan.LoanType)
		}
		if loan.InterestCycleDay == nil {
			return nil, fmt.Errorf("%w: interest cycle day is required for %s", ErrValidation, loan.LoanType)
		}
		if *loan.InterestCycleDay < 1 || *loan.InterestCycleDay > 31 {
			return nil, fmt.Errorf("%w: interest cycle day must be between 1 and 31", ErrValidation)
		}
		if loan.DailyCollectionAmount != nil || loan.ExpectedTotalDays != nil ||
			loan.DailyInterestRate != nil || loan.MaxDays != nil {
			return nil, foreignGroupErr(loan.LoanType)
		}
		return MonthlyTerms{Rate: *loan.MonthlyInterestRate, CycleDay: *loan.InterestCycleDay}, nil

	case models.LoanTypeDailyCollection:
		if loan.DailyCollectionAmount == nil || loan.DailyCollectionAmount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: daily collection amount is required for %s", ErrValidation, loan.LoanType)
		}
		if loan.MonthlyInterestRate != nil || loan.InterestCycleDay != nil ||
			loan.DailyInterestRate != nil || loan.MaxDays != nil {
			return nil, foreignGroupErr(loan.LoanType)
		}
		t := DailyCollectionTerms{Amount: *loan.DailyCollectionAmount}
		if loan.ExpectedTotalDays != nil {
			t.TotalDays = *loan.ExpectedTotalDays
		}
		return t, nil

	case models.LoanTypeDailyLoan:
		if loan.DailyInterestRate == nil || loan.DailyInterestRate.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: daily interest rate is required for %s", ErrValidation, loan.LoanType)
		}
		if loan.MonthlyInterestRate != nil || loan.InterestCycleDay != nil ||
			loan.DailyCollectionAmount != nil || loan.ExpectedTotalDays != nil {
			return nil, foreignGroupErr(loan.LoanType)
		}
		t := DailyLoanTerms{Rate: *loan.DailyInterestRate}
		if loan.MaxDays != nil {
			t.MaxDays = *loan.MaxDays
		}
		return t, nil
	}
	return nil, fmt.Errorf("%w: unknown loan type %q", ErrValidation, loan.LoanType)
}

func foreignGroupErr(loanType string) error {
	return fmt.Errorf("%w: fields of another loan type's parameter group are set on a %s", ErrValidation, loanType)
}

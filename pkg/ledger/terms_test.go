package ledger

import (
	"errors"
	"testing"

	"lendbook/models"
)

func TestTermsOfMonthlyValid(t *testing.T) {
	loan := monthlyLoan("10000", "5", 1)
	terms, err := TermsOf(&loan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mt, ok := terms.(MonthlyTerms)
	if !ok {
		t.Fatalf("terms = %T, want MonthlyTerms", terms)
	}
	if mt.CycleDay != 1 {
		t.Fatalf("cycle day = %d, want 1", mt.CycleDay)
	}
}

func TestTermsOfCycleDayRange(t *testing.T) {
	for _, day := range []int{1, 15, 31} {
		loan := monthlyLoan("10000", "5", day)
		if _, err := TermsOf(&loan); err != nil {
			t.Fatalf("cycle day %d rejected: %v", day, err)
		}
	}
	for _, day := range []int{0, 32, 35, -1} {
		loan := monthlyLoan("10000", "5", day)
		if _, err := TermsOf(&loan); !errors.Is(err, ErrValidation) {
			t.Fatalf("cycle day %d: expected ErrValidation, got %v", day, err)
		}
	}
}

func TestTermsOfMonthlyMissingRate(t *testing.T) {
	loan := monthlyLoan("10000", "5", 5)
	loan.MonthlyInterestRate = nil
	if _, err := TermsOf(&loan); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestTermsOfDailyCollection(t *testing.T) {
	loan := models.Loan{
		LoanType:              models.LoanTypeDailyCollection,
		DailyCollectionAmount: dp("100"),
		ExpectedTotalDays:     ip(100),
	}
	terms, err := TermsOf(&loan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := terms.(DailyCollectionTerms); !ok {
		t.Fatalf("terms = %T, want DailyCollectionTerms", terms)
	}

	loan.DailyCollectionAmount = nil
	if _, err := TermsOf(&loan); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing collection amount, got %v", err)
	}
}

func TestTermsOfDailyLoanMissingRate(t *testing.T) {
	loan := models.Loan{LoanType: models.LoanTypeDailyLoan}
	if _, err := TermsOf(&loan); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestTermsOfRejectsForeignGroupFields(t *testing.T) {
	monthlyWithDL := monthlyLoan("10000", "5", 5)
	monthlyWithDL.DailyInterestRate = dp("1")
	monthlyWithDL.MaxDays = ip(100)

	dcWithMonthly := models.Loan{
		LoanType:              models.LoanTypeDailyCollection,
		DailyCollectionAmount: dp("100"),
		MonthlyInterestRate:   dp("5"),
		InterestCycleDay:      ip(5),
	}

	dlWithDC := models.Loan{
		LoanType:              models.LoanTypeDailyLoan,
		DailyInterestRate:     dp("1"),
		DailyCollectionAmount: dp("100"),
	}

	for _, loan := range []models.Loan{monthlyWithDL, dcWithMonthly, dlWithDC} {
		if _, err := TermsOf(&loan); !errors.Is(err, ErrValidation) {
			t.Fatalf("%s with another group's fields: expected ErrValidation, got %v", loan.LoanType, err)
		}
	}
}

func TestTermsOfUnknownType(t *testing.T) {
	loan := models.Loan{LoanType: "Balloon Loan"}
	if _, err := TermsOf(&loan); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

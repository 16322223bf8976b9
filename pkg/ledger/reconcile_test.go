package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"lendbook/models"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func ip(i int) *int { return &i }

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func monthlyLoan(principal, rate string, cycleDay int) models.Loan {
	return models.Loan{
		LoanType:            models.LoanTypeMonthlyInterest,
		PrincipalAmount:     d(principal),
		RemainingAmount:     d(principal),
		PendingInterest:     decimal.Zero,
		Status:              models.LoanStatusActive,
		MonthlyInterestRate: dp(rate),
		InterestCycleDay:    ip(cycleDay),
		StartDate:           date(2024, 1, 1),
	}
}

func dailyLoan(principal, rate string, start time.Time) models.Loan {
	return models.Loan{
		LoanType:          models.LoanTypeDailyLoan,
		PrincipalAmount:   d(principal),
		RemainingAmount:   d(principal),
		PendingInterest:   decimal.Zero,
		Status:            models.LoanStatusActive,
		DailyInterestRate: dp(rate),
		StartDate:         start,
	}
}

func TestMonthlyInterestFormula(t *testing.T) {
	loan := monthlyLoan("10000", "5", 5)
	got := MonthlyInterest(&loan)
	if got.StringFixed(2) != "500.00" {
		t.Fatalf("monthly interest = %s, want 500.00", got)
	}
}

func TestDailyLoanInterestFromStartDate(t *testing.T) {
	loan := dailyLoan("1000", "1", date(2024, 1, 1))
	interest, days := DailyLoanInterest(&loan, date(2024, 1, 11))
	if days != 10 {
		t.Fatalf("days = %d, want 10", days)
	}
	if interest.StringFixed(2) != "100.00" {
		t.Fatalf("interest = %s, want 100.00", interest)
	}
}

func TestDailyLoanInterestClampsNegativeDays(t *testing.T) {
	loan := dailyLoan("1000", "1", date(2024, 6, 1))
	interest, days := DailyLoanInterest(&loan, date(2024, 5, 1))
	if days != 0 || !interest.IsZero() {
		t.Fatalf("got days=%d interest=%s, want 0 and 0", days, interest)
	}
}

func TestApplyLumpAmountReducesPrincipalInFull(t *testing.T) {
	loan := monthlyLoan("1000", "5", 5)
	txn := models.Transaction{Amount: d("300")}
	updated, _, err := Apply(loan, txn, date(2024, 2, 5))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if updated.RemainingAmount.StringFixed(2) != "700.00" {
		t.Fatalf("remaining = %s, want 700.00", updated.RemainingAmount)
	}
}

func TestApplyDerivesAmountFromSplit(t *testing.T) {
	loan := monthlyLoan("1000", "5", 5)
	txn := models.Transaction{AsalAmount: dp("200"), InterestAmount: dp("50")}
	_, updatedTxn, err := Apply(loan, txn, date(2024, 2, 5))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if updatedTxn.Amount.StringFixed(2) != "250.00" {
		t.Fatalf("derived amount = %s, want 250.00", updatedTxn.Amount)
	}
}

func TestApplyInterestOnlyPaymentKeepsPrincipal(t *testing.T) {
	loan := monthlyLoan("10000", "5", 5)
	// interest recorded without an asal portion pays down nothing
	txn := models.Transaction{InterestAmount: dp("500")}
	updated, updatedTxn, err := Apply(loan, txn, date(2024, 2, 5))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if updated.RemainingAmount.StringFixed(2) != "10000.00" {
		t.Fatalf("remaining = %s, want 10000.00", updated.RemainingAmount)
	}
	if !updated.PendingInterest.IsZero() {
		t.Fatalf("pending = %s, want 0", updated.PendingInterest)
	}
	if updatedTxn.Amount.StringFixed(2) != "500.00" {
		t.Fatalf("derived amount = %s, want 500.00", updatedTxn.Amount)
	}
}

func TestEffectivePrincipalPortion(t *testing.T) {
	cases := []struct {
		name string
		txn  models.Transaction
		want string
	}{
		{"lump amount without split", models.Transaction{Amount: d("300")}, "300.00"},
		{"explicit asal", models.Transaction{Amount: d("300"), AsalAmount: dp("200"), InterestAmount: dp("100")}, "200.00"},
		{"interest only", models.Transaction{Amount: d("500"), InterestAmount: dp("500")}, "0.00"},
	}
	for _, c := range cases {
		if got := EffectivePrincipalPortion(c.txn); got.StringFixed(2) != c.want {
			t.Fatalf("%s: portion = %s, want %s", c.name, got, c.want)
		}
	}
}

func TestApplyRejectsEmptyPayment(t *testing.T) {
	loan := monthlyLoan("1000", "5", 5)
	_, _, err := Apply(loan, models.Transaction{}, date(2024, 2, 5))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestApplyUnderpaymentCarriesPendingInterest(t *testing.T) {
	loan := monthlyLoan("10000", "5", 5)
	// expected interest 500, customer pays 200
	txn := models.Transaction{AsalAmount: dp("0"), InterestAmount: dp("200")}
	updated, _, err := Apply(loan, txn, date(2024, 2, 5))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if updated.PendingInterest.StringFixed(2) != "300.00" {
		t.Fatalf("pending = %s, want 300.00", updated.PendingInterest)
	}
	// next cycle expected = newly computed interest + carried 300
	total := TotalPendingInterest(&updated, date(2024, 3, 5))
	if total.StringFixed(2) != "800.00" {
		t.Fatalf("total pending = %s, want 800.00", total)
	}
}

func TestApplyFullInterestClearsPending(t *testing.T) {
	loan := monthlyLoan("10000", "5", 5)
	loan.PendingInterest = d("300")
	txn := models.Transaction{AsalAmount: dp("0"), InterestAmount: dp("800")}
	updated, _, err := Apply(loan, txn, date(2024, 2, 5))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !updated.PendingInterest.IsZero() {
		t.Fatalf("pending = %s, want 0", updated.PendingInterest)
	}
}

func TestApplyFullDLInterestReanchorsDayCount(t *testing.T) {
	loan := dailyLoan("1000", "1", date(2024, 1, 1))
	// 10 days accrued = 100.00
	txn := models.Transaction{AsalAmount: dp("0"), InterestAmount: dp("100")}
	updated, _, err := Apply(loan, txn, date(2024, 1, 11))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if updated.LastInterestPaymentDate == nil {
		t.Fatal("last interest payment date not set after full interest payment")
	}
	if !updated.LastInterestPaymentDate.Equal(date(2024, 1, 11)) {
		t.Fatalf("anchor = %s, want 2024-01-11", updated.LastInterestPaymentDate)
	}
	// subsequent accrual counts from the new anchor, not the start date
	interest, days := DailyLoanInterest(&updated, date(2024, 1, 16))
	if days != 5 {
		t.Fatalf("days after re-anchor = %d, want 5", days)
	}
	if interest.StringFixed(2) != "50.00" {
		t.Fatalf("interest after re-anchor = %s, want 50.00", interest)
	}
}

func TestApplyPartialDLInterestKeepsAnchor(t *testing.T) {
	loan := dailyLoan("1000", "1", date(2024, 1, 1))
	txn := models.Transaction{AsalAmount: dp("0"), InterestAmount: dp("40")}
	updated, _, err := Apply(loan, txn, date(2024, 1, 11))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if updated.LastInterestPaymentDate != nil {
		t.Fatal("partial interest payment must not re-anchor the day count")
	}
	if updated.PendingInterest.StringFixed(2) != "60.00" {
		t.Fatalf("pending = %s, want 60.00", updated.PendingInterest)
	}
}

func TestApplySettlesOnZeroRemaining(t *testing.T) {
	loan := monthlyLoan("1000", "5", 5)
	txn := models.Transaction{AsalAmount: dp("1000"), InterestAmount: dp("50")}
	updated, _, err := Apply(loan, txn, date(2024, 2, 5))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if updated.Status != models.LoanStatusSettled {
		t.Fatalf("status = %s, want settled", updated.Status)
	}
	if !updated.RemainingAmount.IsZero() {
		t.Fatalf("remaining = %s, want 0", updated.RemainingAmount)
	}
}

func TestApplyClampsOverpaymentToZero(t *testing.T) {
	loan := monthlyLoan("1000", "5", 5)
	txn := models.Transaction{AsalAmount: dp("1200")}
	updated, _, err := Apply(loan, txn, date(2024, 2, 5))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !updated.RemainingAmount.IsZero() || updated.Status != models.LoanStatusSettled {
		t.Fatalf("remaining=%s status=%s, want 0/settled", updated.RemainingAmount, updated.Status)
	}
}

func TestApplySequenceTracksPrincipalSum(t *testing.T) {
	loan := monthlyLoan("1000", "5", 5)
	payments := []string{"100", "250", "400"}
	asOf := date(2024, 2, 5)
	for _, p := range payments {
		var err error
		loan, _, err = Apply(loan, models.Transaction{AsalAmount: dp(p)}, asOf)
		if err != nil {
			t.Fatalf("apply %s: %v", p, err)
		}
	}
	if loan.RemainingAmount.StringFixed(2) != "250.00" {
		t.Fatalf("remaining = %s, want 250.00", loan.RemainingAmount)
	}
	if loan.Status != models.LoanStatusActive {
		t.Fatalf("status = %s, want active", loan.Status)
	}
}

func TestReverseRestoresPrincipalOnly(t *testing.T) {
	loan := monthlyLoan("1000", "5", 5)
	txn := models.Transaction{AsalAmount: dp("300")}
	updated, applied, err := Apply(loan, txn, date(2024, 2, 5))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	reversed := Reverse(updated, applied)
	if reversed.RemainingAmount.StringFixed(2) != "1000.00" {
		t.Fatalf("remaining = %s, want 1000.00", reversed.RemainingAmount)
	}
	if reversed.Status != models.LoanStatusActive {
		t.Fatalf("status = %s, want active", reversed.Status)
	}
}

func TestReverseReactivatesSettledLoan(t *testing.T) {
	loan := monthlyLoan("1000", "5", 5)
	txn := models.Transaction{AsalAmount: dp("1000")}
	updated, applied, _ := Apply(loan, txn, date(2024, 2, 5))
	if updated.Status != models.LoanStatusSettled {
		t.Fatalf("precondition failed: status = %s", updated.Status)
	}
	reversed := Reverse(updated, applied)
	if reversed.Status != models.LoanStatusActive {
		t.Fatalf("status = %s, want active", reversed.Status)
	}
}

func TestReverseInterestOnlyPaymentLeavesPrincipal(t *testing.T) {
	loan := monthlyLoan("10000", "5", 5)
	txn := models.Transaction{InterestAmount: dp("500")}
	updated, applied, err := Apply(loan, txn, date(2024, 2, 5))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	reversed := Reverse(updated, applied)
	if reversed.RemainingAmount.StringFixed(2) != "10000.00" {
		t.Fatalf("remaining = %s, want 10000.00", reversed.RemainingAmount)
	}
}

func TestAdjustPrincipalPortionAppliesDelta(t *testing.T) {
	loan := monthlyLoan("1000", "5", 5)
	loan.RemainingAmount = d("700") // after a 300 asal payment
	adjusted := AdjustPrincipalPortion(loan, d("300"), d("500"))
	if adjusted.RemainingAmount.StringFixed(2) != "500.00" {
		t.Fatalf("remaining = %s, want 500.00", adjusted.RemainingAmount)
	}
}

func TestAdjustPrincipalPortionSettlesAndReactivates(t *testing.T) {
	loan := monthlyLoan("1000", "5", 5)
	loan.RemainingAmount = d("200")
	settled := AdjustPrincipalPortion(loan, d("0"), d("200"))
	if settled.Status != models.LoanStatusSettled {
		t.Fatalf("status = %s, want settled", settled.Status)
	}
	reactivated := AdjustPrincipalPortion(settled, d("200"), d("100"))
	if reactivated.Status != models.LoanStatusActive {
		t.Fatalf("status = %s, want active", reactivated.Status)
	}
	if reactivated.RemainingAmount.StringFixed(2) != "100.00" {
		t.Fatalf("remaining = %s, want 100.00", reactivated.RemainingAmount)
	}
}

func TestRecomputeRemaining(t *testing.T) {
	// paid 300 of 1000; principal edited to 1500 -> remaining 1200
	got := RecomputeRemaining(d("1000"), d("1500"), d("700"))
	if got.StringFixed(2) != "1200.00" {
		t.Fatalf("remaining = %s, want 1200.00", got)
	}
	// principal shrunk below what was paid -> floored at 0
	got = RecomputeRemaining(d("1000"), d("200"), d("700"))
	if !got.IsZero() {
		t.Fatalf("remaining = %s, want 0", got)
	}
}

func TestDaysBetweenIgnoresTimeOfDay(t *testing.T) {
	from := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)
	to := time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC)
	if got := DaysBetween(from, to); got != 1 {
		t.Fatalf("days = %d, want 1", got)
	}
}

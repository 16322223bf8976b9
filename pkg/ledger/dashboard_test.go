package ledger

import (
	"testing"

	"lendbook/models"
)

func TestDueToday(t *testing.T) {
	loan := monthlyLoan("10000", "5", 15)
	if !DueToday(&loan, date(2024, 3, 15)) {
		t.Fatal("loan with cycle day 15 should be due on the 15th")
	}
	if DueToday(&loan, date(2024, 3, 14)) {
		t.Fatal("loan with cycle day 15 should not be due on the 14th")
	}
	dc := models.Loan{LoanType: models.LoanTypeDailyCollection}
	if DueToday(&dc, date(2024, 3, 15)) {
		t.Fatal("DC loans have no interest cycle")
	}
}

func TestDaysOverdue(t *testing.T) {
	loan := monthlyLoan("10000", "5", 10)
	if got := DaysOverdue(&loan, date(2024, 3, 14)); got != 4 {
		t.Fatalf("days overdue = %d, want 4", got)
	}
	if got := DaysOverdue(&loan, date(2024, 3, 5)); got != 0 {
		t.Fatalf("days overdue before cycle day = %d, want 0", got)
	}
}

func TestIsLowBalance(t *testing.T) {
	loan := monthlyLoan("1000", "5", 1)
	loan.RemainingAmount = d("199")
	if !IsLowBalance(&loan) {
		t.Fatal("remaining 199 of 1000 is below 20%")
	}
	loan.RemainingAmount = d("200")
	if IsLowBalance(&loan) {
		t.Fatal("remaining 200 of 1000 is exactly 20%, not below")
	}
}

package report

import (
	"bytes"
	"strings"
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

func txn(loanID uint, area, loanType, amount, asal, interest, method string, day int) models.Transaction {
	return models.Transaction{
		LoanID:         loanID,
		Amount:         d(amount),
		AsalAmount:     dp(asal),
		InterestAmount: dp(interest),
		PaymentMethod:  method,
		CreatedAt:      time.Date(2024, 3, day, 10, 0, 0, 0, time.UTC),
		Loan: models.Loan{
			LoanType: loanType,
			Customer: models.Customer{Area: area},
		},
	}
}

func sampleData(reportType string) Data {
	loans := []models.Loan{
		{PrincipalAmount: d("10000")},
		{PrincipalAmount: d("5000")},
	}
	txns := []models.Transaction{
		txn(1, "North", models.LoanTypeMonthlyInterest, "700", "500", "200", "cash", 1),
		txn(1, "North", models.LoanTypeMonthlyInterest, "300", "250", "50", "online", 2),
		txn(2, "South", models.LoanTypeDailyLoan, "150", "100", "50", "cash", 2),
	}
	expenses := []models.Expense{{Amount: d("80")}}
	f := Filters{StartDate: "2024-03-01", EndDate: "2024-03-31", ReportType: reportType}
	return Build(f, loans, txns, expenses, []string{"North", "South"})
}

func TestBuildSummaryTotals(t *testing.T) {
	data := sampleData(TypeSummary)
	s := data.Summary
	if s.TotalDisbursed.StringFixed(2) != "15000.00" {
		t.Fatalf("disbursed = %s", s.TotalDisbursed)
	}
	if s.TotalCollected.StringFixed(2) != "1150.00" {
		t.Fatalf("collected = %s", s.TotalCollected)
	}
	if s.TotalExpenses.StringFixed(2) != "80.00" {
		t.Fatalf("expenses = %s", s.TotalExpenses)
	}
	// net income = interest collected - expenses
	if s.NetIncome.StringFixed(2) != "220.00" {
		t.Fatalf("net income = %s, want 220.00", s.NetIncome)
	}
	if s.CashCollected.StringFixed(2) != "850.00" || s.OnlineCollected.StringFixed(2) != "300.00" {
		t.Fatalf("method split = %s cash / %s online", s.CashCollected, s.OnlineCollected)
	}
}

func TestPrincipalPlusInterestMatchesTotal(t *testing.T) {
	data := sampleData(TypeAreaWise)
	tolerance := d("0.01")
	for _, r := range data.AreaRows {
		diff := r.PrincipalCollected.Add(r.InterestCollected).Sub(r.TotalCollected).Abs()
		// rows built from consistent splits reconcile within a cent
		if diff.GreaterThan(tolerance.Mul(decimal.NewFromInt(int64(r.Transactions)))) {
			t.Fatalf("area %s: principal+interest drifts from total by %s", r.Area, diff)
		}
	}
	s := data.Summary
	diff := s.TotalPrincipalCollected.Add(s.TotalInterestCollected).Sub(s.TotalCollected).Abs()
	if diff.GreaterThan(tolerance.Mul(decimal.NewFromInt(int64(s.TotalTransactions)))) {
		t.Fatalf("summary: principal+interest drifts from total by %s", diff)
	}
}

func TestAreaBreakdownGrouping(t *testing.T) {
	data := sampleData(TypeAreaWise)
	if len(data.AreaRows) != 2 {
		t.Fatalf("rows = %d, want 2", len(data.AreaRows))
	}
	// sorted by total collected descending
	if data.AreaRows[0].Area != "North" {
		t.Fatalf("first row = %s, want North", data.AreaRows[0].Area)
	}
	north := data.AreaRows[0]
	if north.Transactions != 2 || north.Loans != 1 || north.Customers != 1 {
		t.Fatalf("north row = %+v", north)
	}
	if north.TotalCollected.StringFixed(2) != "1000.00" {
		t.Fatalf("north collected = %s", north.TotalCollected)
	}
}

func TestAreaBreakdownTiesSortByName(t *testing.T) {
	// equal totals must come out in a stable alphabetical order
	txns := []models.Transaction{
		txn(3, "Zanzibar", models.LoanTypeMonthlyInterest, "100", "50", "50", "cash", 1),
		txn(1, "Alpha", models.LoanTypeMonthlyInterest, "100", "50", "50", "cash", 1),
		txn(2, "Mid", models.LoanTypeMonthlyInterest, "100", "50", "50", "cash", 1),
	}
	f := Filters{StartDate: "2024-03-01", EndDate: "2024-03-31", ReportType: TypeAreaWise}
	data := Build(f, nil, txns, nil, nil)
	want := []string{"Alpha", "Mid", "Zanzibar"}
	for i, r := range data.AreaRows {
		if r.Area != want[i] {
			t.Fatalf("row %d = %s, want %s", i, r.Area, want[i])
		}
	}
}

func TestLoanTypeBreakdown(t *testing.T) {
	data := sampleData(TypeLoanWise)
	if len(data.LoanTypeRows) != 2 {
		t.Fatalf("rows = %d, want 2", len(data.LoanTypeRows))
	}
	if data.LoanTypeRows[0].LoanType != models.LoanTypeMonthlyInterest {
		t.Fatalf("first row = %s", data.LoanTypeRows[0].LoanType)
	}
}

func TestDailySeries(t *testing.T) {
	data := sampleData(TypeSummary)
	if len(data.DailySeries) != 2 {
		t.Fatalf("series length = %d, want 2", len(data.DailySeries))
	}
	if data.DailySeries[0].Date != "2024-03-01" || data.DailySeries[0].Total.StringFixed(2) != "700.00" {
		t.Fatalf("first point = %+v", data.DailySeries[0])
	}
}

func TestWriteCSV(t *testing.T) {
	data := sampleData(TypeAreaWise)
	var buf bytes.Buffer
	if err := WriteCSV(&buf, data); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"REPORT SUMMARY", "Net Income,220.00", "AREA-WISE BREAKDOWN", "North,1,1,1000.00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("csv missing %q:\n%s", want, out)
		}
	}
}

func TestWritePDF(t *testing.T) {
	data := sampleData(TypeLoanWise)
	var buf bytes.Buffer
	if err := WritePDF(&buf, data, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
}

func TestFilename(t *testing.T) {
	data := sampleData(TypeSummary)
	if got := Filename(data); got != "report_summary_2024-03-01_to_2024-03-31" {
		t.Fatalf("filename = %s", got)
	}
}

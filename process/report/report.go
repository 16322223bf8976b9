package report

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"lendbook/models"
	"lendbook/pkg/report"
)

func mustDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set in env")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	return gdb
}

// RunMonthly prints a month-bounded collection report (month in
// YYYY-MM) and optionally lists the matching transactions. Operator
// tooling for cross-checking the books without the HTTP API.
func RunMonthly(month, area string, list bool) {
	gdb := mustDBFromEnv()

	t, err := time.Parse("2006-01", month)
	if err != nil {
		log.Fatalf("invalid month format, expected YYYY-MM: %v", err)
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	f := report.Filters{
		StartDate:  start.Format("2006-01-02"),
		EndDate:    end.AddDate(0, 0, -1).Format("2006-01-02"),
		Area:       area,
		ReportType: report.TypeSummary,
	}

	loanQ := gdb.Preload("Customer").
		Joins("JOIN customers ON customers.id = loans.customer_id").
		Where("loans.created_at >= ? AND loans.created_at < ?", start, end)
	txnQ := gdb.Preload("Loan").Preload("Loan.Customer").
		Joins("JOIN loans ON loans.id = transactions.loan_id").
		Joins("JOIN customers ON customers.id = loans.customer_id").
		Where("transactions.created_at >= ? AND transactions.created_at < ?", start, end)
	if area != "" {
		loanQ = loanQ.Where("LOWER(customers.area) = LOWER(?)", area)
		txnQ = txnQ.Where("LOWER(customers.area) = LOWER(?)", area)
	}

	var loans []models.Loan
	if err := loanQ.Find(&loans).Error; err != nil {
		log.Fatalf("query loans failed: %v", err)
	}
	var txns []models.Transaction
	if err := txnQ.Order("transactions.created_at").Find(&txns).Error; err != nil {
		log.Fatalf("query transactions failed: %v", err)
	}
	var expenses []models.Expense
	if err := gdb.Where("created_at >= ? AND created_at < ?", start, end).Find(&expenses).Error; err != nil {
		log.Fatalf("query expenses failed: %v", err)
	}

	data := report.Build(f, loans, txns, expenses, nil)
	s := data.Summary

	fmt.Printf("Report for month=%s (UTC)", month)
	if area != "" {
		fmt.Printf(" area=%s", area)
	}
	fmt.Println(":")
	fmt.Printf("  loans_disbursed=%d total_disbursed=%s\n", s.TotalLoansCount, s.TotalDisbursed.StringFixed(2))
	fmt.Printf("  transactions=%d total_collected=%s (cash=%s online=%s)\n",
		s.TotalTransactions, s.TotalCollected.StringFixed(2), s.CashCollected.StringFixed(2), s.OnlineCollected.StringFixed(2))
	fmt.Printf("  principal=%s interest=%s expenses=%s net_income=%s\n",
		s.TotalPrincipalCollected.StringFixed(2), s.TotalInterestCollected.StringFixed(2),
		s.TotalExpenses.StringFixed(2), s.NetIncome.StringFixed(2))

	if list {
		for _, r := range txns {
			fmt.Printf("%d|%s|%s|%s|%s|%s\n", r.ID, r.Loan.Customer.Name, r.Loan.LoanType,
				r.Amount.StringFixed(2), r.PaymentMethod, r.CreatedAt.Format(time.RFC3339))
		}
	}
}

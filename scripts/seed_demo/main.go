package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"lendbook/models"
	"lendbook/pkg/ledger"
	"lendbook/pkg/money"
)

// Seeds a small demo book: a few customers with one loan each and a
// first payment, so the dashboard and reports have something to show.
func main() {
	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in env")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	var owner models.User
	if err := db.Where("username = ?", "admin").First(&owner).Error; err != nil {
		log.Fatalf("seed the admin user first (run the server once): %v", err)
	}
	svc := ledger.NewService(db)

	type seed struct {
		name, phone, area string
		loan              models.Loan
		interest          string
	}
	day := 5
	expected := 100
	seeds := []seed{
		{
			name: "Ravi Stores", phone: "0811000001", area: "Market Road",
			loan: models.Loan{
				LoanType:            models.LoanTypeMonthlyInterest,
				PrincipalAmount:     decimal.NewFromInt(50000),
				MonthlyInterestRate: money.Ptr(decimal.NewFromInt(5)),
				InterestCycleDay:    &day,
			},
			interest: "2500",
		},
		{
			name: "Lakshmi Textiles", phone: "0811000002", area: "Bus Stand",
			loan: models.Loan{
				LoanType:              models.LoanTypeDailyCollection,
				PrincipalAmount:       decimal.NewFromInt(10000),
				DailyCollectionAmount: money.Ptr(decimal.NewFromInt(100)),
				ExpectedTotalDays:     &expected,
			},
		},
		{
			name: "Kumar Fruits", phone: "0811000003", area: "Market Road",
			loan: models.Loan{
				LoanType:          models.LoanTypeDailyLoan,
				PrincipalAmount:   decimal.NewFromInt(20000),
				DailyInterestRate: money.Ptr(decimal.NewFromFloat(0.5)),
			},
		},
	}

	for _, s := range seeds {
		customer := models.Customer{
			Name: s.name, PhoneNumber: s.phone, Area: s.area,
			IsMonthly:   s.loan.LoanType == models.LoanTypeMonthlyInterest,
			IsDaily:     s.loan.LoanType == models.LoanTypeDailyCollection,
			IsDL:        s.loan.LoanType == models.LoanTypeDailyLoan,
			CreatedByID: owner.ID,
		}
		if err := db.Where("name = ?", s.name).FirstOrCreate(&customer).Error; err != nil {
			log.Fatalf("create customer %s: %v", s.name, err)
		}
		loan := s.loan
		loan.CustomerID = customer.ID
		loan.StartDate = time.Now().UTC().AddDate(0, -1, 0)
		loan.CreatedByID = owner.ID
		if err := svc.CreateLoan(&loan); err != nil {
			log.Fatalf("create loan for %s: %v", s.name, err)
		}
		if s.interest != "" {
			amt, _ := decimal.NewFromString(s.interest)
			txn := models.Transaction{
				LoanID:         loan.ID,
				InterestAmount: money.Ptr(amt),
				PaymentMethod:  models.PaymentMethodCash,
				CreatedByID:    owner.ID,
			}
			if err := svc.RecordPayment(&txn); err != nil {
				log.Fatalf("record payment for %s: %v", s.name, err)
			}
		}
		fmt.Printf("seeded %s: loan id=%d type=%s\n", s.name, loan.ID, loan.LoanType)
	}
}

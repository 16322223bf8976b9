package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"lendbook/models"
)

func main() {
	name := flag.String("customer", "", "customer name (exact match)")
	flag.Parse()
	if *name == "" {
		log.Fatal("--customer is required")
	}
	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in env")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	var customer models.Customer
	if err := db.Preload("Loans").Where("name = ?", *name).First(&customer).Error; err != nil {
		log.Fatalf("customer not found: %v", err)
	}
	fmt.Printf("customer=%s area=%s loans=%d\n", customer.Name, customer.Area, len(customer.Loans))
	for _, l := range customer.Loans {
		fmt.Printf("%d|%s|principal=%s|remaining=%s|pending_interest=%s|%s\n",
			l.ID, l.LoanType, l.PrincipalAmount.StringFixed(2), l.RemainingAmount.StringFixed(2),
			l.PendingInterest.StringFixed(2), l.Status)
	}
}

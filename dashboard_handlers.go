package main

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"lendbook/models"
	"lendbook/pkg/ledger"
	"lendbook/pkg/money"
)

// dashboardStatsHandler assembles the landing-page rollup: interest due
// today, overdue alerts, low-balance warnings, outstanding total,
// recent activity and quick stats. Read-only; "today" is taken once at
// this boundary.
func dashboardStatsHandler(c *gin.Context) {
	today := time.Now().UTC()
	monthStart := ledger.CycleStart(today)

	var activeLoans []models.Loan
	if err := db.Preload("Customer").Where("status = ?", models.LoanStatusActive).Find(&activeLoans).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	// loans that already collected interest in the current month
	var paidLoanIDs []uint
	db.Model(&models.Transaction{}).
		Where("created_at >= ? AND interest_amount > 0", monthStart).
		Distinct().Pluck("loan_id", &paidLoanIDs)
	interestPaidThisMonth := map[uint]bool{}
	for _, id := range paidLoanIDs {
		interestPaidThisMonth[id] = true
	}

	dueToday := []gin.H{}
	overdueAlerts := []gin.H{}
	lowBalance := []gin.H{}
	totalOutstanding := decimal.Zero
	activeCustomers := map[uint]bool{}

	for i := range activeLoans {
		loan := &activeLoans[i]
		totalOutstanding = totalOutstanding.Add(loan.RemainingAmount)
		activeCustomers[loan.CustomerID] = true

		if ledger.DueToday(loan, today) {
			dueToday = append(dueToday, gin.H{
				"loan_id":          loan.ID,
				"customer_id":      loan.CustomerID,
				"customer_name":    loan.Customer.Name,
				"customer_phone":   loan.Customer.PhoneNumber,
				"principal_amount": loan.PrincipalAmount,
				"remaining_amount": loan.RemainingAmount,
				"interest_rate":    money.FromPtr(loan.MonthlyInterestRate),
				"interest_due":     ledger.MonthlyInterest(loan),
				"is_collected":     interestPaidThisMonth[loan.ID],
			})
		}

		if days := ledger.DaysOverdue(loan, today); days > 0 && !interestPaidThisMonth[loan.ID] {
			overdueAlerts = append(overdueAlerts, gin.H{
				"loan_id":          loan.ID,
				"customer_id":      loan.CustomerID,
				"customer_name":    loan.Customer.Name,
				"loan_type":        loan.LoanType,
				"days_overdue":     days,
				"expected_amount":  ledger.MonthlyInterest(loan),
				"remaining_amount": loan.RemainingAmount,
			})
		}

		if ledger.IsLowBalance(loan) {
			pct := 0.0
			if !loan.PrincipalAmount.IsZero() {
				pct, _ = loan.RemainingAmount.Div(loan.PrincipalAmount).Mul(decimal.NewFromInt(100)).Round(1).Float64()
			}
			lowBalance = append(lowBalance, gin.H{
				"loan_id":              loan.ID,
				"customer_id":          loan.CustomerID,
				"customer_name":        loan.Customer.Name,
				"loan_type":            loan.LoanType,
				"principal_amount":     loan.PrincipalAmount,
				"remaining_amount":     loan.RemainingAmount,
				"percentage_remaining": pct,
			})
		}
	}

	sort.Slice(overdueAlerts, func(i, j int) bool {
		return overdueAlerts[i]["days_overdue"].(int) > overdueAlerts[j]["days_overdue"].(int)
	})

	// last 10 payments across all collectors
	var recent []models.Transaction
	db.Preload("Loan").Preload("Loan.Customer").Preload("CreatedBy").
		Order("created_at desc").Limit(10).Find(&recent)
	recentActivity := make([]transactionView, len(recent))
	for i, t := range recent {
		recentActivity[i] = newTransactionView(t)
	}

	// 30-day average daily collection
	var collected30 decimal.Decimal
	db.Model(&models.Transaction{}).
		Where("created_at >= ?", today.AddDate(0, 0, -30)).
		Select("COALESCE(SUM(amount), 0)").Scan(&collected30)
	avgPerDay := money.Round2(collected30.Div(decimal.NewFromInt(30)))

	var newLoans []models.Loan
	db.Preload("Customer").Where("created_at >= ?", monthStart).
		Order("created_at desc").Limit(10).Find(&newLoans)
	newLoansList := make([]gin.H, len(newLoans))
	for i, l := range newLoans {
		newLoansList[i] = gin.H{
			"loan_id":          l.ID,
			"customer_id":      l.CustomerID,
			"customer_name":    l.Customer.Name,
			"loan_type":        l.LoanType,
			"principal_amount": l.PrincipalAmount,
			"created_at":       l.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"monthly_interest_due": dueToday,
		"overdue_alerts":       overdueAlerts,
		"low_balance_warnings": lowBalance,
		"total_outstanding":    totalOutstanding,
		"recent_activity":      recentActivity,
		"quick_stats": gin.H{
			"total_active_customers": len(activeCustomers),
			"total_active_loans":     len(activeLoans),
			"avg_collection_per_day": avgPerDay,
		},
		"new_loans_this_month": newLoansList,
	})
}

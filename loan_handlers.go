package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"lendbook/models"
	"lendbook/pkg/ledger"
)

// loanView is a loan plus the computed fields the screens show.
type loanView struct {
	models.Loan
	ExpectedInterest     decimal.Decimal `json:"expected_interest"`
	TotalPendingInterest decimal.Decimal `json:"total_pending_interest"`
	DaysSinceStart       int             `json:"days_since_start"`
	HasTransactions      bool            `json:"has_transactions"`
}

// newLoanView computes the derived fields as of the given date. The
// ambient clock stays at the handler boundary; everything below takes
// an explicit date.
func newLoanView(loan models.Loan, hasTxns bool, asOf time.Time) loanView {
	v := loanView{Loan: loan, HasTransactions: hasTxns}
	v.Transactions = nil
	switch loan.LoanType {
	case models.LoanTypeMonthlyInterest:
		v.ExpectedInterest = ledger.MonthlyInterest(&loan)
	case models.LoanTypeDailyLoan:
		v.ExpectedInterest, _ = ledger.DailyLoanInterest(&loan, asOf)
		v.DaysSinceStart = ledger.DaysBetween(loan.StartDate, asOf)
	default:
		v.ExpectedInterest = decimal.Zero
	}
	v.TotalPendingInterest = ledger.TotalPendingInterest(&loan, asOf)
	return v
}

// loansWithTransactions returns the set of loan ids that have at least
// one transaction, for the given candidates.
func loansWithTransactions(ids []uint) map[uint]bool {
	out := map[uint]bool{}
	if len(ids) == 0 {
		return out
	}
	var withTxns []uint
	db.Model(&models.Transaction{}).Where("loan_id IN ?", ids).Distinct().Pluck("loan_id", &withTxns)
	for _, id := range withTxns {
		out[id] = true
	}
	return out
}

func listLoansHandler(c *gin.Context) {
	q := db.Model(&models.Loan{}).Preload("Customer")
	if v := c.Query("customer_id"); v != "" {
		q = q.Where("customer_id = ?", v)
	}
	if v := c.Query("loan_type"); v != "" {
		q = q.Where("loan_type = ?", v)
	}
	if v := c.Query("status"); v != "" {
		q = q.Where("status = ?", v)
	}
	var loans []models.Loan
	if err := q.Order("id desc").Find(&loans).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	ids := make([]uint, len(loans))
	for i, l := range loans {
		ids[i] = l.ID
	}
	hasTxns := loansWithTransactions(ids)
	today := time.Now().UTC()
	views := make([]loanView, len(loans))
	for i, l := range loans {
		views[i] = newLoanView(l, hasTxns[l.ID], today)
	}
	c.JSON(http.StatusOK, views)
}

func getLoanHandler(c *gin.Context) {
	var loan models.Loan
	if err := db.Preload("Customer").First(&loan, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "loan not found"})
		return
	}
	var txnCount int64
	db.Model(&models.Transaction{}).Where("loan_id = ?", loan.ID).Count(&txnCount)
	c.JSON(http.StatusOK, newLoanView(loan, txnCount > 0, time.Now().UTC()))
}

func createLoanHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		CustomerID      uint            `json:"customer_id" binding:"required"`
		LoanType        string          `json:"loan_type" binding:"required"`
		PrincipalAmount decimal.Decimal `json:"principal_amount" binding:"required"`
		StartDate       string          `json:"start_date"`
		PaymentMethod   string          `json:"payment_method"`

		MonthlyInterestRate   *decimal.Decimal `json:"monthly_interest_rate"`
		InterestCycleDay      *int             `json:"interest_cycle_day"`
		DailyCollectionAmount *decimal.Decimal `json:"daily_collection_amount"`
		ExpectedTotalDays     *int             `json:"expected_total_days"`
		DailyInterestRate     *decimal.Decimal `json:"daily_interest_rate"`
		MaxDays               *int             `json:"max_days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var customer models.Customer
	if err := db.First(&customer, req.CustomerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return
	}
	loan := models.Loan{
		CustomerID:            req.CustomerID,
		LoanType:              req.LoanType,
		PrincipalAmount:       req.PrincipalAmount,
		PaymentMethod:         req.PaymentMethod,
		MonthlyInterestRate:   req.MonthlyInterestRate,
		InterestCycleDay:      req.InterestCycleDay,
		DailyCollectionAmount: req.DailyCollectionAmount,
		ExpectedTotalDays:     req.ExpectedTotalDays,
		DailyInterestRate:     req.DailyInterestRate,
		MaxDays:               req.MaxDays,
		CreatedByID:           user.ID,
	}
	if loan.PaymentMethod == "" {
		loan.PaymentMethod = models.PaymentMethodCash
	}
	if req.StartDate != "" {
		t, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date, expected YYYY-MM-DD"})
			return
		}
		loan.StartDate = t
	}
	if err := ledgerSvc.CreateLoan(&loan); err != nil {
		respondLedgerError(c, err)
		return
	}
	loan.Customer = customer
	c.JSON(http.StatusCreated, newLoanView(loan, false, time.Now().UTC()))
}

func updateLoanHandler(c *gin.Context) {
	var loan models.Loan
	if err := db.First(&loan, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "loan not found"})
		return
	}
	var req struct {
		LoanType        *string          `json:"loan_type"`
		PrincipalAmount *decimal.Decimal `json:"principal_amount"`
		StartDate       *string          `json:"start_date"`
		PaymentMethod   *string          `json:"payment_method"`

		MonthlyInterestRate   *decimal.Decimal `json:"monthly_interest_rate"`
		InterestCycleDay      *int             `json:"interest_cycle_day"`
		DailyCollectionAmount *decimal.Decimal `json:"daily_collection_amount"`
		ExpectedTotalDays     *int             `json:"expected_total_days"`
		DailyInterestRate     *decimal.Decimal `json:"daily_interest_rate"`
		MaxDays               *int             `json:"max_days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	upd := ledger.LoanUpdate{
		LoanType:              req.LoanType,
		PrincipalAmount:       req.PrincipalAmount,
		PaymentMethod:         req.PaymentMethod,
		MonthlyInterestRate:   req.MonthlyInterestRate,
		InterestCycleDay:      req.InterestCycleDay,
		DailyCollectionAmount: req.DailyCollectionAmount,
		ExpectedTotalDays:     req.ExpectedTotalDays,
		DailyInterestRate:     req.DailyInterestRate,
		MaxDays:               req.MaxDays,
	}
	if req.StartDate != nil {
		t, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date, expected YYYY-MM-DD"})
			return
		}
		upd.StartDate = &t
	}
	updated, err := ledgerSvc.UpdateLoan(loan.ID, upd)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, newLoanView(*updated, false, time.Now().UTC()))
}

func deleteLoanHandler(c *gin.Context) {
	var loan models.Loan
	if err := db.First(&loan, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "loan not found"})
		return
	}
	if err := ledgerSvc.DeleteLoan(loan.ID); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

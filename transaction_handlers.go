package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"lendbook/models"
	"lendbook/pkg/ledger"
	"lendbook/pkg/money"
)

// transactionView decorates a transaction with the loan and customer
// context the record screens show.
type transactionView struct {
	ID              uint            `json:"id"`
	LoanID          uint            `json:"loan_id"`
	LoanType        string          `json:"loan_type"`
	CustomerID      uint            `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	Amount          decimal.Decimal `json:"amount"`
	AsalAmount      decimal.Decimal `json:"asal_amount"`
	InterestAmount  decimal.Decimal `json:"interest_amount"`
	PaymentMethod   string          `json:"payment_method"`
	Description     string          `json:"description,omitempty"`
	Reference       string          `json:"reference"`
	CollectedByName string          `json:"collected_by_name"`
	CreatedAt       time.Time       `json:"created_at"`
}

func newTransactionView(t models.Transaction) transactionView {
	return transactionView{
		ID:              t.ID,
		LoanID:          t.LoanID,
		LoanType:        t.Loan.LoanType,
		CustomerID:      t.Loan.CustomerID,
		CustomerName:    t.Loan.Customer.Name,
		Amount:          t.Amount,
		AsalAmount:      money.FromPtr(t.AsalAmount),
		InterestAmount:  money.FromPtr(t.InterestAmount),
		PaymentMethod:   t.PaymentMethod,
		Description:     t.Description,
		Reference:       t.Reference,
		CollectedByName: t.CreatedBy.DisplayName(),
		CreatedAt:       t.CreatedAt,
	}
}

// listTransactionsHandler lists payments, newest first. Collectors see
// only their own records unless include_all=true is passed.
func listTransactionsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	q := db.Model(&models.Transaction{}).
		Preload("Loan").Preload("Loan.Customer").Preload("CreatedBy")
	if !isOwner(c) && c.Query("include_all") != "true" {
		q = q.Where("transactions.created_by_id = ?", user.ID)
	}
	if v := c.Query("loan_id"); v != "" {
		q = q.Where("transactions.loan_id = ?", v)
	}
	if v := c.Query("customer_id"); v != "" {
		q = q.Joins("JOIN loans ON loans.id = transactions.loan_id").Where("loans.customer_id = ?", v)
	}
	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date, expected YYYY-MM-DD"})
			return
		}
		q = q.Where("transactions.created_at >= ?", t)
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date, expected YYYY-MM-DD"})
			return
		}
		q = q.Where("transactions.created_at < ?", t.AddDate(0, 0, 1))
	}
	var txns []models.Transaction
	if err := q.Order("transactions.created_at desc").Limit(500).Find(&txns).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	views := make([]transactionView, len(txns))
	for i, t := range txns {
		views[i] = newTransactionView(t)
	}
	c.JSON(http.StatusOK, views)
}

func createTransactionHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		LoanID         uint             `json:"loan_id" binding:"required"`
		Amount         *decimal.Decimal `json:"amount"`
		AsalAmount     *decimal.Decimal `json:"asal_amount"`
		InterestAmount *decimal.Decimal `json:"interest_amount"`
		PaymentMethod  string           `json:"payment_method"`
		Description    string           `json:"description"`
		IdempotencyKey string           `json:"idempotency_key"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	txn := models.Transaction{
		LoanID:         req.LoanID,
		Amount:         money.FromPtr(req.Amount),
		AsalAmount:     req.AsalAmount,
		InterestAmount: req.InterestAmount,
		PaymentMethod:  req.PaymentMethod,
		Description:    req.Description,
		CreatedByID:    user.ID,
	}
	if txn.PaymentMethod == "" {
		txn.PaymentMethod = models.PaymentMethodCash
	}
	// honor a key from either the body or the conventional header
	key := req.IdempotencyKey
	if key == "" {
		key = c.GetHeader("Idempotency-Key")
	}
	if key != "" {
		txn.IdempotencyKey = &key
	}
	if err := ledgerSvc.RecordPayment(&txn); err != nil {
		respondLedgerError(c, err)
		return
	}
	db.Preload("Loan").Preload("Loan.Customer").Preload("CreatedBy").First(&txn, txn.ID)
	c.JSON(http.StatusCreated, newTransactionView(txn))
}

func updateTransactionHandler(c *gin.Context) {
	var txn models.Transaction
	if err := db.First(&txn, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}
	var req struct {
		Amount         *decimal.Decimal `json:"amount"`
		AsalAmount     *decimal.Decimal `json:"asal_amount"`
		InterestAmount *decimal.Decimal `json:"interest_amount"`
		PaymentMethod  *string          `json:"payment_method"`
		Description    *string          `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := ledgerSvc.AmendTransaction(txn.ID, ledger.TransactionUpdate{
		Amount:         req.Amount,
		AsalAmount:     req.AsalAmount,
		InterestAmount: req.InterestAmount,
		PaymentMethod:  req.PaymentMethod,
		Description:    req.Description,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	db.Preload("Loan").Preload("Loan.Customer").Preload("CreatedBy").First(updated, updated.ID)
	c.JSON(http.StatusOK, newTransactionView(*updated))
}

func deleteTransactionHandler(c *gin.Context) {
	var txn models.Transaction
	if err := db.First(&txn, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}
	if err := ledgerSvc.DeleteTransaction(txn.ID); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

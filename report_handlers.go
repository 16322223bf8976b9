package main

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"lendbook/models"
	"lendbook/pkg/report"
)

// buildReport loads the period-filtered records and assembles the
// report. Returns a 400-worthy error message when the filters are bad.
func buildReport(c *gin.Context) (report.Data, bool) {
	f := report.Filters{
		StartDate:  c.Query("start_date"),
		EndDate:    c.Query("end_date"),
		Area:       c.Query("area"),
		LoanType:   c.Query("loan_type"),
		ReportType: c.DefaultQuery("report_type", report.TypeSummary),
	}
	if f.StartDate == "" || f.EndDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date and end_date are required"})
		return report.Data{}, false
	}
	start, err := report.ParseDate(f.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date, expected YYYY-MM-DD"})
		return report.Data{}, false
	}
	end, err := report.ParseDate(f.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date, expected YYYY-MM-DD"})
		return report.Data{}, false
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date precedes start_date"})
		return report.Data{}, false
	}
	switch f.ReportType {
	case report.TypeSummary, report.TypeAreaWise, report.TypeLoanWise:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown report_type"})
		return report.Data{}, false
	}
	endExcl := end.AddDate(0, 0, 1)

	loanQ := db.Model(&models.Loan{}).Preload("Customer").
		Joins("JOIN customers ON customers.id = loans.customer_id").
		Where("loans.created_at >= ? AND loans.created_at < ?", start, endExcl)
	txnQ := db.Model(&models.Transaction{}).
		Preload("Loan").Preload("Loan.Customer").
		Joins("JOIN loans ON loans.id = transactions.loan_id").
		Joins("JOIN customers ON customers.id = loans.customer_id").
		Where("transactions.created_at >= ? AND transactions.created_at < ?", start, endExcl)
	if f.Area != "" {
		loanQ = loanQ.Where("LOWER(customers.area) = LOWER(?)", f.Area)
		txnQ = txnQ.Where("LOWER(customers.area) = LOWER(?)", f.Area)
	}
	if f.LoanType != "" {
		loanQ = loanQ.Where("loans.loan_type = ?", f.LoanType)
		txnQ = txnQ.Where("loans.loan_type = ?", f.LoanType)
	}

	var loans []models.Loan
	if err := loanQ.Find(&loans).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return report.Data{}, false
	}
	var txns []models.Transaction
	if err := txnQ.Order("transactions.created_at").Find(&txns).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return report.Data{}, false
	}
	var expenses []models.Expense
	if err := db.Where("created_at >= ? AND created_at < ?", start, endExcl).
		Find(&expenses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return report.Data{}, false
	}
	var areas []string
	db.Model(&models.Customer{}).Distinct().Order("area").Pluck("area", &areas)

	return report.Build(f, loans, txns, expenses, areas), true
}

func reportDataHandler(c *gin.Context) {
	data, ok := buildReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, data)
}

// reportDownloadHandler streams the report as CSV or PDF. Owner only.
func reportDownloadHandler(c *gin.Context) {
	if !isOwner(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "owner role required"})
		return
	}
	format := strings.ToLower(c.Query("file_format"))
	if format == "" {
		format = strings.ToLower(c.DefaultQuery("format", "csv"))
	}
	if format != "csv" && format != "pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or pdf"})
		return
	}
	data, ok := buildReport(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	var contentType string
	switch format {
	case "pdf":
		contentType = "application/pdf"
		if err := report.WritePDF(&buf, data, time.Now().UTC()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "pdf generation failed"})
			return
		}
	default:
		contentType = "text/csv"
		if err := report.WriteCSV(&buf, data); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "csv generation failed"})
			return
		}
	}
	name := fmt.Sprintf("%s.%s", report.Filename(data), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

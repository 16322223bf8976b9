package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lendbook/models"
)

// listCustomersHandler lists customers created by the caller; ?all=true
// returns everyone (used by the collections screen).
func listCustomersHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	q := db.Model(&models.Customer{})
	if c.Query("all") != "true" {
		q = q.Where("created_by_id = ?", user.ID)
	}
	if area := c.Query("area"); area != "" {
		q = q.Where("LOWER(area) = LOWER(?)", area)
	}
	var customers []models.Customer
	if err := q.Order("id desc").Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, customers)
}

func createCustomerHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Name        string `json:"name" binding:"required"`
		PhoneNumber string `json:"phone_number" binding:"required"`
		Address     string `json:"address"`
		Area        string `json:"area"`
		IsDaily     bool   `json:"is_daily"`
		IsMonthly   bool   `json:"is_monthly"`
		IsDL        bool   `json:"is_dl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	customer := models.Customer{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Area:        req.Area,
		IsDaily:     req.IsDaily,
		IsMonthly:   req.IsMonthly,
		IsDL:        req.IsDL,
		CreatedByID: user.ID,
	}
	if err := db.Create(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func getCustomerHandler(c *gin.Context) {
	var customer models.Customer
	if err := db.Preload("Loans").First(&customer, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

// updateCustomerHandler edits a customer. Once any loan references the
// customer only the contact fields (phone, address) may change.
func updateCustomerHandler(c *gin.Context) {
	var customer models.Customer
	if err := db.First(&customer, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return
	}
	var req struct {
		Name        *string `json:"name"`
		PhoneNumber *string `json:"phone_number"`
		Address     *string `json:"address"`
		Area        *string `json:"area"`
		IsDaily     *bool   `json:"is_daily"`
		IsMonthly   *bool   `json:"is_monthly"`
		IsDL        *bool   `json:"is_dl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var loanCount int64
	db.Model(&models.Loan{}).Where("customer_id = ?", customer.ID).Count(&loanCount)
	if loanCount > 0 && (req.Name != nil || req.Area != nil || req.IsDaily != nil || req.IsMonthly != nil || req.IsDL != nil) {
		c.JSON(http.StatusConflict, gin.H{"error": "only contact fields may change once the customer has loans"})
		return
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.PhoneNumber != nil {
		customer.PhoneNumber = *req.PhoneNumber
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.Area != nil {
		customer.Area = *req.Area
	}
	if req.IsDaily != nil {
		customer.IsDaily = *req.IsDaily
	}
	if req.IsMonthly != nil {
		customer.IsMonthly = *req.IsMonthly
	}
	if req.IsDL != nil {
		customer.IsDL = *req.IsDL
	}
	if err := db.Save(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

func deleteCustomerHandler(c *gin.Context) {
	var customer models.Customer
	if err := db.First(&customer, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return
	}
	var loanCount int64
	db.Model(&models.Loan{}).Where("customer_id = ?", customer.ID).Count(&loanCount)
	if loanCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "cannot delete customer with existing loans"})
		return
	}
	if err := db.Delete(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

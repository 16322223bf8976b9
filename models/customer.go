package models

import "time"

// Customer is a borrower record. A customer can hold many loans; the
// area tag drives the area-wise reports.
type Customer struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string `gorm:"size:100;not null"`
	PhoneNumber string `gorm:"size:15;index;not null"`
	Address     string `gorm:"size:512"`
	Area        string `gorm:"size:50;index"`
	IsDaily     bool   `gorm:"default:false"`
	IsMonthly   bool   `gorm:"default:false"`
	IsDL        bool   `gorm:"default:false"`
	CreatedByID uint   `gorm:"index;not null"`
	CreatedBy   User   `gorm:"foreignKey:CreatedByID;references:ID"`
	Loans       []Loan `gorm:"foreignKey:CustomerID"`
}

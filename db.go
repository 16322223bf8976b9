package main

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"lendbook/models"
	"lendbook/pkg/ledger"
)

var db *gorm.DB
var ledgerSvc *ledger.Service

func initDB() {
	var err error
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database: ", err)
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true).
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	// Ensure the roles master table exists first and seed it so the users FK can be applied safely.
	if shouldMigrate {
		if err := db.AutoMigrate(&models.Role{}); err != nil {
			log.Warnf("migration warning (roles): %v", err)
		}
	}
	seedRoles()

	if shouldMigrate {
		// Migrate models individually so a failure on one doesn't block others
		if err := db.AutoMigrate(&models.User{}); err != nil {
			log.Warnf("migration warning (users): %v", err)
		}
		if err := db.AutoMigrate(&models.RefreshToken{}); err != nil {
			log.Warnf("migration warning (refresh_tokens): %v", err)
		}
		if err := db.AutoMigrate(&models.Customer{}); err != nil {
			log.Warnf("migration warning (customers): %v", err)
		}
		if err := db.AutoMigrate(&models.Loan{}); err != nil {
			log.Warnf("migration warning (loans): %v", err)
		}
		if err := db.AutoMigrate(&models.Transaction{}); err != nil {
			log.Warnf("migration warning (transactions): %v", err)
		}
		if err := db.AutoMigrate(&models.Expense{}); err != nil {
			log.Warnf("migration warning (expenses): %v", err)
		}
	}
	seedDB()

	ledgerSvc = ledger.NewService(db)
}

func seedRoles() {
	roles := []models.Role{
		{Name: models.RoleOwner, Description: "full access"},
		{Name: models.RoleCollector, Description: "records collections in the field"},
	}
	for _, r := range roles {
		var cnt int64
		db.Model(&models.Role{}).Where("name = ?", r.Name).Count(&cnt)
		if cnt == 0 {
			db.Create(&r)
		}
	}
}

func seedDB() {
	seedRoles()

	// Seed the owner account on first boot
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count == 0 {
		var role models.Role
		if err := db.Where("name = ?", models.RoleOwner).First(&role).Error; err != nil {
			log.Warnf("failed to find owner role: %v", err)
		}
		rid := role.ID
		admin := models.User{
			Username: "admin",
			FullName: "Administrator",
			RoleID:   &rid,
			Active:   true,
		}
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		admin.HashedPassword = hashedPassword
		db.Create(&admin)
		log.Info("Seeded owner user: username=admin, password=admin123")
	}
}

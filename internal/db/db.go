package db

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/models"
)

func Open(dsn string) (*gorm.DB, error) {
	database, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := database.AutoMigrate(
		&models.Client{},
		&models.WorkEntry{},
		&models.PaymentEntry{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.InvoiceSettings{},
	); err != nil {
		return nil, err
	}

	if err := seedInvoiceSettings(database); err != nil {
		return nil, err
	}

	return database, nil
}

// seedInvoiceSettings guarantees the singleton counter row exists so
// invoice number allocation always has a row to lock.
func seedInvoiceSettings(database *gorm.DB) error {
	var settings models.InvoiceSettings
	err := database.First(&settings, "id = ?", models.InvoiceSettingsRowID).Error
	if err == gorm.ErrRecordNotFound {
		settings = models.InvoiceSettings{ID: models.InvoiceSettingsRowID, NextNumber: 1, Currency: "BDT"}
		return database.Create(&settings).Error
	}
	return err
}

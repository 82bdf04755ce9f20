package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/models"
)

type SettingsHandler struct {
	DB *gorm.DB
}

type updateInvoiceSettingsRequest struct {
	FromText    string `json:"fromText"`
	PaymentText string `json:"paymentText"`
	Currency    string `json:"currency"`
}

func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{DB: db}
}

func (h *SettingsHandler) GetInvoiceSettings(c *gin.Context) {
	settings, err := loadInvoiceSettings(h.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateInvoiceSettings edits the default texts and currency. The
// next_number counter only moves through the invoice composer.
func (h *SettingsHandler) UpdateInvoiceSettings(c *gin.Context) {
	var req updateInvoiceSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	settings, err := loadInvoiceSettings(h.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	settings.FromText = req.FromText
	settings.PaymentText = req.PaymentText
	if currency := strings.TrimSpace(req.Currency); currency != "" {
		settings.Currency = strings.ToUpper(currency)
	}

	if err := h.DB.Save(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

func loadInvoiceSettings(db *gorm.DB) (models.InvoiceSettings, error) {
	var settings models.InvoiceSettings
	err := db.First(&settings, "id = ?", models.InvoiceSettingsRowID).Error
	if err == gorm.ErrRecordNotFound {
		settings = models.InvoiceSettings{ID: models.InvoiceSettingsRowID, NextNumber: 1, Currency: "BDT"}
		return settings, db.Create(&settings).Error
	}
	return settings, err
}

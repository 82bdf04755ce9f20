package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/ledger"
	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/models"
)

type DashboardHandler struct {
	DB *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{DB: db}
}

// Get returns the date-scoped per-client summaries plus the global
// totals. Per-client dues are clamped at zero before summing, so an
// overpaid client never offsets another client's due.
func (h *DashboardHandler) Get(c *gin.Context) {
	scope, ok := rangeFromQuery(c)
	if !ok {
		return
	}

	var clients []models.Client
	if err := h.DB.Order("name asc").Find(&clients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load clients"})
		return
	}

	summaries := make([]ledger.ClientSummary, 0, len(clients))
	rows := make([]clientWithSummary, 0, len(clients))
	for _, client := range clients {
		summary, err := summarizeClient(h.DB, client.ID, scope)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load summaries"})
			return
		}
		summaries = append(summaries, summary)
		rows = append(rows, clientWithSummary{Client: client, Summary: summary})
	}

	var settings models.InvoiceSettings
	currency := "BDT"
	if err := h.DB.First(&settings, "id = ?", models.InvoiceSettingsRowID).Error; err == nil {
		currency = settings.Currency
	}

	c.JSON(http.StatusOK, gin.H{
		"clients":  rows,
		"totals":   ledger.Summarize(summaries),
		"currency": currency,
	})
}

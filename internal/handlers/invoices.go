package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/invoicing"
	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/models"
)

type InvoiceHandler struct {
	DB       *gorm.DB
	Composer *invoicing.Composer
}

type composeInvoiceRequest struct {
	ClientID     string   `json:"clientId" binding:"required"`
	WorkEntryIDs []string `json:"workEntryIds" binding:"required"`
	Number       string   `json:"number"`
	IssueDate    string   `json:"issueDate" binding:"required"`
	BillTo       string   `json:"billTo"`
	FromText     string   `json:"fromText"`
	PaymentText  string   `json:"paymentText"`
	SaveDefaults bool     `json:"saveDefaults"`
}

func NewInvoiceHandler(db *gorm.DB) *InvoiceHandler {
	return &InvoiceHandler{DB: db, Composer: invoicing.New(db)}
}

func (h *InvoiceHandler) List(c *gin.Context) {
	var invoices []models.Invoice
	if err := h.DB.Order("created_at desc").Find(&invoices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load invoices"})
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var invoice models.Invoice
	if err := h.DB.Preload("Items").First(&invoice, "id = ?", invoiceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// Compose creates or regenerates an invoice. Regeneration (same number)
// replaces the item set and re-links work entries; it never accumulates.
func (h *InvoiceHandler) Compose(c *gin.Context) {
	var req composeInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid clientId"})
		return
	}

	entryIDs := make([]uuid.UUID, 0, len(req.WorkEntryIDs))
	for _, raw := range req.WorkEntryIDs {
		entryID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workEntryIds"})
			return
		}
		entryIDs = append(entryIDs, entryID)
	}

	issueDate, err := time.Parse(dateLayout, req.IssueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issueDate"})
		return
	}

	invoice, err := h.Composer.Compose(invoicing.Request{
		ClientID:     clientID,
		WorkEntryIDs: entryIDs,
		Number:       req.Number,
		IssueDate:    issueDate,
		BillTo:       req.BillTo,
		FromText:     req.FromText,
		PaymentText:  req.PaymentText,
		SaveDefaults: req.SaveDefaults,
	})
	switch {
	case errors.Is(err, invoicing.ErrUnknownClient):
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return
	case errors.Is(err, invoicing.ErrNoEntries), errors.Is(err, invoicing.ErrUnknownEntry):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "compose failed"})
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.WorkEntry{}).
			Where("invoice_id = ?", invoiceID).
			Update("invoice_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", invoiceID).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Invoice{}, "id = ?", invoiceID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/models"
)

type PaymentHandler struct {
	DB *gorm.DB
}

type paymentRequest struct {
	ClientID string          `json:"clientId" binding:"required"`
	Date     string          `json:"date" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Medium   string          `json:"medium"`
	Note     string          `json:"note"`
}

func NewPaymentHandler(db *gorm.DB) *PaymentHandler {
	return &PaymentHandler{DB: db}
}

func (h *PaymentHandler) List(c *gin.Context) {
	query := h.DB.Order("date desc, created_at desc")

	if raw := c.Query("client_id"); raw != "" {
		clientID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
			return
		}
		query = query.Where("client_id = ?", clientID)
	}
	scope, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	query = scope.apply(query)

	var payments []models.PaymentEntry
	if err := query.Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load payments"})
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *PaymentHandler) Create(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	payment, ok := h.paymentFromRequest(c, req)
	if !ok {
		return
	}

	if err := h.DB.Create(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *PaymentHandler) Update(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var existing models.PaymentEntry
	if err := h.DB.First(&existing, "id = ?", paymentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}

	payment, ok := h.paymentFromRequest(c, req)
	if !ok {
		return
	}

	existing.ClientID = payment.ClientID
	existing.Date = payment.Date
	existing.Amount = payment.Amount
	existing.Medium = payment.Medium
	existing.Note = payment.Note

	if err := h.DB.Save(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, existing)
}

func (h *PaymentHandler) Delete(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.DB.Delete(&models.PaymentEntry{}, "id = ?", paymentID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *PaymentHandler) paymentFromRequest(c *gin.Context, req paymentRequest) (models.PaymentEntry, bool) {
	var payment models.PaymentEntry

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid clientId"})
		return payment, false
	}
	var client models.Client
	if err := h.DB.First(&client, "id = ?", clientID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return payment, false
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return payment, false
	}

	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return payment, false
	}

	payment.ClientID = client.ID
	payment.Date = date
	payment.Amount = req.Amount
	payment.Medium = strings.TrimSpace(req.Medium)
	payment.Note = req.Note
	return payment, true
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/billing"
	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/ledger"
	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/models"
)

type ClientHandler struct {
	DB *gorm.DB
}

type clientRequest struct {
	Name      string          `json:"name" binding:"required"`
	Contact   string          `json:"contact"`
	Note      string          `json:"note"`
	ChargedBy string          `json:"chargedBy"`
	Rate      decimal.Decimal `json:"rate"`
	Status    string          `json:"status"`
}

type clientWithSummary struct {
	models.Client
	Summary ledger.ClientSummary `json:"summary"`
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{DB: db}
}

func normalizeClientStatus(value string) (string, bool) {
	status := strings.ToLower(strings.TrimSpace(value))
	if status == "" {
		return models.ClientStatusActive, true
	}
	switch status {
	case models.ClientStatusActive, models.ClientStatusClosed, models.ClientStatusPaymentExpired:
		return status, true
	}
	return "", false
}

func (h *ClientHandler) List(c *gin.Context) {
	var clients []models.Client
	if err := h.DB.Order("created_at desc").Find(&clients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load clients"})
		return
	}

	result := make([]clientWithSummary, 0, len(clients))
	for _, client := range clients {
		summary, err := summarizeClient(h.DB, client.ID, dateRange{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load client summaries"})
			return
		}
		result = append(result, clientWithSummary{Client: client, Summary: summary})
	}
	c.JSON(http.StatusOK, result)
}

func (h *ClientHandler) Get(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var client models.Client
	if err := h.DB.First(&client, "id = ?", clientID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return
	}

	// Lifetime view: no date scoping on the client detail page.
	summary, err := summarizeClient(h.DB, client.ID, dateRange{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load summary"})
		return
	}

	var entries []models.WorkEntry
	if err := h.DB.Where("client_id = ?", client.ID).Order("date desc, created_at desc").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load work entries"})
		return
	}

	var payments []models.PaymentEntry
	if err := h.DB.Where("client_id = ?", client.ID).Order("date desc, created_at desc").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"client":   client,
		"summary":  summary,
		"work":     entries,
		"payments": payments,
	})
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	var existing models.Client
	if err := h.DB.Where("name = ?", name).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "client name already exists"})
		return
	} else if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	basisValue := req.ChargedBy
	if basisValue == "" {
		basisValue = string(billing.BasisHour)
	}
	basis, err := billing.ParseChargeBasis(basisValue)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chargedBy"})
		return
	}

	status, ok := normalizeClientStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	client := models.Client{
		Name:      name,
		Contact:   strings.TrimSpace(req.Contact),
		Note:      req.Note,
		ChargedBy: string(basis),
		Rate:      req.Rate,
		Status:    status,
	}

	if err := h.DB.Create(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var client models.Client
	if err := h.DB.First(&client, "id = ?", clientID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	var duplicate models.Client
	if err := h.DB.Where("name = ? AND id <> ?", name, client.ID).First(&duplicate).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "client name already exists"})
		return
	} else if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	basisValue := req.ChargedBy
	if basisValue == "" {
		basisValue = client.ChargedBy
	}
	basis, err := billing.ParseChargeBasis(basisValue)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chargedBy"})
		return
	}

	status, ok := normalizeClientStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	// Rate and basis changes apply to future entries only; existing
	// entries keep their snapshots.
	client.Name = name
	client.Contact = strings.TrimSpace(req.Contact)
	client.Note = req.Note
	client.ChargedBy = string(basis)
	client.Rate = req.Rate
	client.Status = status

	if err := h.DB.Save(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var workCount int64
	if err := h.DB.Model(&models.WorkEntry{}).Where("client_id = ?", clientID).Count(&workCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	var paymentCount int64
	if err := h.DB.Model(&models.PaymentEntry{}).Where("client_id = ?", clientID).Count(&paymentCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if workCount > 0 || paymentCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "client has work or payment records"})
		return
	}

	if err := h.DB.Delete(&models.Client{}, "id = ?", clientID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

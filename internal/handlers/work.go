package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/billing"
	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/models"
)

type WorkHandler struct {
	DB *gorm.DB
}

type workEntryRequest struct {
	ClientID        string           `json:"clientId" binding:"required"`
	Date            string           `json:"date" binding:"required"`
	ProjectName     string           `json:"projectName" binding:"required"`
	VariantLabel    string           `json:"variantLabel"`
	Status          string           `json:"status"`
	ChargedBy       string           `json:"chargedBy"`
	PricingMode     string           `json:"pricingMode"`
	Minutes         int64            `json:"minutes"`
	Seconds         int64            `json:"seconds"`
	DurationSeconds *int64           `json:"durationSeconds"`
	Units           *decimal.Decimal `json:"units"`
	ManualRate      *decimal.Decimal `json:"manualRate"`
	ManualTotal     *decimal.Decimal `json:"manualTotal"`
	OverrideReason  string           `json:"overrideReason"`
	DeliveredAt     string           `json:"deliveredAt"`
	Note            string           `json:"note"`
	// RefreshRate re-reads the client's current rate on an auto-mode
	// edit instead of keeping the stored snapshot.
	RefreshRate bool `json:"refreshRate"`
}

type deliverRequest struct {
	DeliveredAt string `json:"deliveredAt"`
}

func NewWorkHandler(db *gorm.DB) *WorkHandler {
	return &WorkHandler{DB: db}
}

func (h *WorkHandler) List(c *gin.Context) {
	query := h.DB.Order("date desc, created_at desc")

	if raw := c.Query("client_id"); raw != "" {
		clientID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
			return
		}
		query = query.Where("client_id = ?", clientID)
	}
	if status := strings.ToLower(c.Query("status")); status != "" {
		query = query.Where("status = ?", status)
	}
	scope, ok := rangeFromQuery(c)
	if !ok {
		return
	}
	query = scope.apply(query)

	var entries []models.WorkEntry
	if err := query.Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load work entries"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *WorkHandler) Create(c *gin.Context) {
	var req workEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid clientId"})
		return
	}
	var client models.Client
	if err := h.DB.First(&client, "id = ?", clientID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return
	}

	entry := models.WorkEntry{ClientID: client.ID}
	// New entries price against the client's current rate; it is frozen
	// onto the entry from here on.
	if !h.applyRequest(c, &entry, req, client.ChargedBy, client.Rate) {
		return
	}

	if err := h.DB.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *WorkHandler) Update(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req workEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var entry models.WorkEntry
	if err := h.DB.First(&entry, "id = ?", entryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "work entry not found"})
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid clientId"})
		return
	}
	var client models.Client
	if err := h.DB.First(&client, "id = ?", clientID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return
	}
	entry.ClientID = client.ID

	// Edits re-price with the entry's own frozen rate. The client's
	// present rate is only consulted on an explicit refresh (or when no
	// snapshot exists, e.g. switching off manual_total).
	autoRate := client.Rate
	if !req.RefreshRate && entry.RateSnapshot.Valid {
		autoRate = entry.RateSnapshot.Decimal
	}

	defaultBasis := entry.ChargedBy
	if req.ChargedBy == "" && defaultBasis == "" {
		defaultBasis = client.ChargedBy
	}
	if !h.applyRequest(c, &entry, req, defaultBasis, autoRate) {
		return
	}

	if err := h.DB.Save(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// applyRequest resolves units, price, status, and timestamps onto the
// entry. Replies with the appropriate error response and returns false
// when the request cannot produce a valid entry.
func (h *WorkHandler) applyRequest(c *gin.Context, entry *models.WorkEntry, req workEntryRequest, defaultBasis string, autoRate decimal.Decimal) bool {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return false
	}

	basisValue := req.ChargedBy
	if basisValue == "" {
		basisValue = defaultBasis
	}
	basis, err := billing.ParseChargeBasis(basisValue)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chargedBy"})
		return false
	}

	modeValue := req.PricingMode
	if modeValue == "" {
		modeValue = string(billing.ModeAuto)
	}
	mode, err := billing.ParsePricingMode(modeValue)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pricingMode"})
		return false
	}

	input := billing.UnitsInput{
		Minutes:         req.Minutes,
		Seconds:         req.Seconds,
		DurationSeconds: req.DurationSeconds,
	}
	if req.Units != nil {
		input.Units = *req.Units
	}
	quantity, err := billing.ResolveUnits(basis, input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid duration"})
		return false
	}

	price, err := billing.ResolvePrice(billing.PriceInput{
		Mode:        mode,
		Basis:       basis,
		Units:       quantity.Units,
		ClientRate:  autoRate,
		ManualRate:  req.ManualRate,
		ManualTotal: req.ManualTotal,
	})
	if err != nil {
		if errors.Is(err, billing.ErrUnpriceable) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pricing input"})
		return false
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status == "" {
		status = models.WorkStatusProcessing
	}
	if status != models.WorkStatusProcessing && status != models.WorkStatusDelivered {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return false
	}

	entry.Date = date
	entry.ProjectName = strings.TrimSpace(req.ProjectName)
	entry.VariantLabel = strings.TrimSpace(req.VariantLabel)
	entry.Status = status
	entry.ChargedBy = string(basis)
	entry.PricingMode = string(mode)
	entry.DurationSeconds = quantity.DurationSeconds
	entry.Units = quantity.Units
	entry.RateSnapshot = price.RateSnapshot
	entry.AmountDue = price.AmountDue
	entry.OverrideReason = strings.TrimSpace(req.OverrideReason)
	entry.Note = req.Note

	if status == models.WorkStatusDelivered {
		if req.DeliveredAt != "" {
			deliveredAt, err := time.Parse(dateLayout, req.DeliveredAt)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deliveredAt"})
				return false
			}
			entry.DeliveredAt = &deliveredAt
		} else if entry.DeliveredAt == nil {
			now := time.Now()
			entry.DeliveredAt = &now
		}
	} else {
		entry.DeliveredAt = nil
	}

	return true
}

// Deliver marks an entry delivered without re-pricing it.
func (h *WorkHandler) Deliver(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req deliverRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var entry models.WorkEntry
	if err := h.DB.First(&entry, "id = ?", entryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "work entry not found"})
		return
	}

	deliveredAt := time.Now()
	if req.DeliveredAt != "" {
		parsed, err := time.Parse(dateLayout, req.DeliveredAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deliveredAt"})
			return
		}
		deliveredAt = parsed
	}

	entry.Status = models.WorkStatusDelivered
	entry.DeliveredAt = &deliveredAt

	if err := h.DB.Save(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *WorkHandler) Delete(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.DB.Delete(&models.WorkEntry{}, "id = ?", entryID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// rangeFromQuery reads optional from/to query params. Replies 400 and
// returns ok=false on a malformed date.
func rangeFromQuery(c *gin.Context) (dateRange, bool) {
	var scope dateRange
	var err error
	if scope.From, err = parseDateQuery(c.Query("from")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
		return scope, false
	}
	if scope.To, err = parseDateQuery(c.Query("to")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
		return scope, false
	}
	return scope, true
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	WorkStatusProcessing = "processing"
	WorkStatusDelivered  = "delivered"
)

// WorkEntry is one billed piece of work. ChargedBy and RateSnapshot are
// captured at creation time; later edits to the client never alter them.
// AmountDue is the stored result of the pricing resolver, never recomputed
// on read.
type WorkEntry struct {
	ID              uuid.UUID           `gorm:"type:char(36);primaryKey" json:"id"`
	ClientID        uuid.UUID           `gorm:"type:char(36);index;not null" json:"clientId"`
	Date            time.Time           `gorm:"type:date;not null" json:"date"`
	ProjectName     string              `gorm:"size:255;not null" json:"projectName"`
	VariantLabel    string              `gorm:"size:120" json:"variantLabel"`
	Status          string              `gorm:"size:20;not null;default:processing" json:"status"`
	ChargedBy       string              `gorm:"size:20;not null" json:"chargedBy"`
	PricingMode     string              `gorm:"size:20;not null;default:auto" json:"pricingMode"`
	DurationSeconds *int64              `json:"durationSeconds,omitempty"`
	Units           decimal.Decimal     `gorm:"type:decimal(16,6);not null;default:0" json:"units"`
	RateSnapshot    decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"rateSnapshot"`
	AmountDue       decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0" json:"amountDue"`
	OverrideReason  string              `gorm:"size:255" json:"overrideReason"`
	DeliveredAt     *time.Time          `json:"deliveredAt,omitempty"`
	InvoiceID       *uuid.UUID          `gorm:"type:char(36);index" json:"invoiceId,omitempty"`
	Note            string              `gorm:"type:text" json:"note"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

func (w *WorkEntry) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

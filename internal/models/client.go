package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ClientStatusActive         = "active"
	ClientStatusClosed         = "closed"
	ClientStatusPaymentExpired = "payment_expired"
)

type Client struct {
	ID        uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string          `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Contact   string          `gorm:"size:255" json:"contact"`
	Note      string          `gorm:"type:text" json:"note"`
	ChargedBy string          `gorm:"size:20;not null;default:hour" json:"chargedBy"`
	Rate      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"rate"`
	Status    string          `gorm:"size:30;not null;default:active" json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

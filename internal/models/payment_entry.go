package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentEntry struct {
	ID        uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	ClientID  uuid.UUID       `gorm:"type:char(36);index;not null" json:"clientId"`
	Date      time.Time       `gorm:"type:date;not null" json:"date"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Medium    string          `gorm:"size:120" json:"medium"`
	Note      string          `gorm:"type:text" json:"note"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (p *PaymentEntry) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

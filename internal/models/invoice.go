package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is keyed by its user-visible Number, not the internal id. The
// text fields and line items are point-in-time snapshots; regenerating an
// invoice replaces them wholesale.
type Invoice struct {
	ID          uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	Number      string          `gorm:"uniqueIndex;size:100;not null" json:"number"`
	ClientID    uuid.UUID       `gorm:"type:char(36);index;not null" json:"clientId"`
	BillTo      string          `gorm:"type:text" json:"billTo"`
	FromText    string          `gorm:"type:text" json:"fromText"`
	PaymentText string          `gorm:"type:text" json:"paymentText"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"subtotal"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total"`
	IssueDate   time.Time       `gorm:"type:date;not null" json:"issueDate"`
	Items       []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// InvoiceItem is a 1:1 snapshot of a work entry at composition time.
type InvoiceItem struct {
	ID          uuid.UUID           `gorm:"type:char(36);primaryKey" json:"id"`
	InvoiceID   uuid.UUID           `gorm:"type:char(36);index;not null" json:"invoiceId"`
	WorkEntryID uuid.UUID           `gorm:"type:char(36);not null" json:"workEntryId"`
	Description string              `gorm:"size:500;not null" json:"description"`
	Rate        decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"rate"`
	Amount      decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"amount"`
	CreatedAt   time.Time           `json:"createdAt"`
}

func (i *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

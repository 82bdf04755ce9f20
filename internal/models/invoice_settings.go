package models

import "time"

const InvoiceSettingsRowID = 1

// InvoiceSettings is a single-row table (id = 1). NextNumber only advances
// through the invoice composer; explicit invoice numbers never touch it.
type InvoiceSettings struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	NextNumber  int64     `gorm:"not null;default:1" json:"nextNumber"`
	FromText    string    `gorm:"type:text" json:"fromText"`
	PaymentText string    `gorm:"type:text" json:"paymentText"`
	Currency    string    `gorm:"size:10;not null;default:BDT" json:"currency"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

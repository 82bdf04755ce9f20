// Package invoicing builds invoices from already-priced work entries.
// Composition is an upsert keyed by the user-visible invoice number and
// runs as one transaction: a failing step leaves no partial invoice.
package invoicing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/models"
)

var (
	ErrUnknownClient = errors.New("client not found")
	ErrUnknownEntry  = errors.New("work entry not found for client")
	ErrNoEntries     = errors.New("invoice needs at least one work entry")
)

// Request describes one compose call. Number is optional: when empty the
// settings counter allocates the next number; an explicit number upserts
// that invoice and never advances the counter.
type Request struct {
	ClientID     uuid.UUID
	WorkEntryIDs []uuid.UUID
	Number       string
	IssueDate    time.Time
	BillTo       string
	FromText     string
	PaymentText  string
	// SaveDefaults persists FromText/PaymentText onto the settings row
	// for future invoices.
	SaveDefaults bool
}

type Composer struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Composer {
	return &Composer{DB: db}
}

// Compose upserts the invoice, replaces its line items, and re-links the
// chosen work entries. Subtotal and total are the sum of the entries'
// stored amounts; nothing is re-derived from durations or rates.
func (cp *Composer) Compose(req Request) (*models.Invoice, error) {
	entryIDs := dedupe(req.WorkEntryIDs)
	if len(entryIDs) == 0 {
		return nil, ErrNoEntries
	}

	var result models.Invoice
	err := cp.DB.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, "id = ?", req.ClientID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrUnknownClient
			}
			return err
		}

		number := strings.TrimSpace(req.Number)
		if number == "" {
			allocated, err := allocateNumber(tx)
			if err != nil {
				return err
			}
			number = strconv.FormatInt(allocated, 10)
		}

		var entries []models.WorkEntry
		if err := tx.Where("id IN ? AND client_id = ?", entryIDs, req.ClientID).Find(&entries).Error; err != nil {
			return err
		}
		if len(entries) != len(entryIDs) {
			return fmt.Errorf("%w: %d of %d resolved", ErrUnknownEntry, len(entries), len(entryIDs))
		}

		subtotal := decimal.Zero
		for _, entry := range entries {
			subtotal = subtotal.Add(entry.AmountDue)
		}
		subtotal = subtotal.Round(2)

		var invoice models.Invoice
		err := tx.Where("number = ?", number).First(&invoice).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}

		invoice.Number = number
		invoice.ClientID = req.ClientID
		invoice.BillTo = req.BillTo
		invoice.FromText = req.FromText
		invoice.PaymentText = req.PaymentText
		invoice.Subtotal = subtotal
		invoice.Total = subtotal
		invoice.IssueDate = req.IssueDate

		if invoice.ID == uuid.Nil {
			if err := tx.Create(&invoice).Error; err != nil {
				return err
			}
		} else if err := tx.Save(&invoice).Error; err != nil {
			return err
		}

		// Drop the previous rendition before linking the new selection,
		// so regeneration replaces rather than accumulates.
		if err := tx.Model(&models.WorkEntry{}).
			Where("invoice_id = ?", invoice.ID).
			Update("invoice_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}

		items := make([]models.InvoiceItem, 0, len(entries))
		for _, entry := range entries {
			items = append(items, models.InvoiceItem{
				InvoiceID:   invoice.ID,
				WorkEntryID: entry.ID,
				Description: itemDescription(entry),
				Rate:        entry.RateSnapshot,
				Amount:      entry.AmountDue,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.WorkEntry{}).
			Where("id IN ?", entryIDs).
			Update("invoice_id", invoice.ID).Error; err != nil {
			return err
		}

		if req.SaveDefaults {
			updates := map[string]any{
				"from_text":    req.FromText,
				"payment_text": req.PaymentText,
			}
			if err := tx.Model(&models.InvoiceSettings{}).
				Where("id = ?", models.InvoiceSettingsRowID).
				Updates(updates).Error; err != nil {
				return err
			}
		}

		invoice.Items = items
		result = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// allocateNumber bumps the singleton counter and returns the value it
// held. The increment runs as a single UPDATE so concurrent allocations
// serialize on the row lock instead of handing out duplicates.
func allocateNumber(tx *gorm.DB) (int64, error) {
	res := tx.Model(&models.InvoiceSettings{}).
		Where("id = ?", models.InvoiceSettingsRowID).
		UpdateColumn("next_number", gorm.Expr("next_number + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, errors.New("invoice settings row missing")
	}

	var settings models.InvoiceSettings
	if err := tx.First(&settings, "id = ?", models.InvoiceSettingsRowID).Error; err != nil {
		return 0, err
	}
	return settings.NextNumber - 1, nil
}

func itemDescription(entry models.WorkEntry) string {
	if entry.VariantLabel != "" {
		return entry.ProjectName + " - " + entry.VariantLabel
	}
	return entry.ProjectName
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	result := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

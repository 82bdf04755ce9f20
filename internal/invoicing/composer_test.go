package invoicing

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "invoicing.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Client{},
		&models.WorkEntry{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.InvoiceSettings{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	settings := models.InvoiceSettings{ID: models.InvoiceSettingsRowID, NextNumber: 1, Currency: "BDT"}
	if err := db.Create(&settings).Error; err != nil {
		t.Fatalf("seed settings: %v", err)
	}
	return db
}

func seedClient(t *testing.T, db *gorm.DB) models.Client {
	t.Helper()
	client := models.Client{
		Name:      "Acme Studio",
		ChargedBy: "minute",
		Rate:      decimal.RequireFromString("100"),
		Status:    models.ClientStatusActive,
	}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return client
}

func seedEntry(t *testing.T, db *gorm.DB, clientID uuid.UUID, project, amount string) models.WorkEntry {
	t.Helper()
	entry := models.WorkEntry{
		ClientID:    clientID,
		Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		ProjectName: project,
		Status:      models.WorkStatusDelivered,
		ChargedBy:   "minute",
		PricingMode: "manual_total",
		Units:       decimal.NewFromInt(1),
		AmountDue:   decimal.RequireFromString(amount),
	}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("seed entry: %v", err)
	}
	return entry
}

func nextNumber(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var settings models.InvoiceSettings
	if err := db.First(&settings, "id = ?", models.InvoiceSettingsRowID).Error; err != nil {
		t.Fatalf("load settings: %v", err)
	}
	return settings.NextNumber
}

func TestComposeAllocatesCounterNumber(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	entryA := seedEntry(t, db, client.ID, "Logo animation", "1500")
	entryB := seedEntry(t, db, client.ID, "Intro video", "2500")
	composer := New(db)

	invoice, err := composer.Compose(Request{
		ClientID:     client.ID,
		WorkEntryIDs: []uuid.UUID{entryA.ID, entryB.ID},
		IssueDate:    time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	if invoice.Number != "1" {
		t.Errorf("number = %q, want 1", invoice.Number)
	}
	if got := nextNumber(t, db); got != 2 {
		t.Errorf("next_number = %d, want 2", got)
	}
	if !invoice.Subtotal.Equal(decimal.RequireFromString("4000")) {
		t.Errorf("subtotal = %s, want 4000", invoice.Subtotal)
	}
	if !invoice.Total.Equal(invoice.Subtotal) {
		t.Errorf("total = %s, want %s", invoice.Total, invoice.Subtotal)
	}
	if len(invoice.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(invoice.Items))
	}

	var linked int64
	db.Model(&models.WorkEntry{}).Where("invoice_id = ?", invoice.ID).Count(&linked)
	if linked != 2 {
		t.Errorf("linked entries = %d, want 2", linked)
	}
}

func TestComposeExplicitNumberKeepsCounter(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	entry := seedEntry(t, db, client.ID, "Logo animation", "1500")
	composer := New(db)

	invoice, err := composer.Compose(Request{
		ClientID:     client.ID,
		WorkEntryIDs: []uuid.UUID{entry.ID},
		Number:       "INV-2025-07",
		IssueDate:    time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	if invoice.Number != "INV-2025-07" {
		t.Errorf("number = %q", invoice.Number)
	}
	if got := nextNumber(t, db); got != 1 {
		t.Errorf("next_number = %d, want 1 (explicit numbers never advance it)", got)
	}
}

func TestComposeRegenerationReplacesItems(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	entryA := seedEntry(t, db, client.ID, "Logo animation", "1500")
	entryB := seedEntry(t, db, client.ID, "Intro video", "2500")
	composer := New(db)

	first, err := composer.Compose(Request{
		ClientID:     client.ID,
		WorkEntryIDs: []uuid.UUID{entryA.ID, entryB.ID},
		Number:       "7",
		IssueDate:    time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("first compose: %v", err)
	}

	// Same number, narrower selection: clean replacement, not accumulation.
	second, err := composer.Compose(Request{
		ClientID:     client.ID,
		WorkEntryIDs: []uuid.UUID{entryB.ID},
		Number:       "7",
		IssueDate:    time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("second compose: %v", err)
	}

	if second.ID != first.ID {
		t.Error("regeneration created a second invoice row")
	}

	var invoiceCount int64
	db.Model(&models.Invoice{}).Count(&invoiceCount)
	if invoiceCount != 1 {
		t.Errorf("invoice rows = %d, want 1", invoiceCount)
	}

	var itemCount int64
	db.Model(&models.InvoiceItem{}).Where("invoice_id = ?", first.ID).Count(&itemCount)
	if itemCount != 1 {
		t.Errorf("items = %d, want 1", itemCount)
	}

	if !second.Subtotal.Equal(decimal.RequireFromString("2500")) {
		t.Errorf("subtotal = %s, want 2500", second.Subtotal)
	}

	var dropped models.WorkEntry
	if err := db.First(&dropped, "id = ?", entryA.ID).Error; err != nil {
		t.Fatalf("load entry: %v", err)
	}
	if dropped.InvoiceID != nil {
		t.Error("dropped entry still linked to the invoice")
	}
	var kept models.WorkEntry
	if err := db.First(&kept, "id = ?", entryB.ID).Error; err != nil {
		t.Fatalf("load entry: %v", err)
	}
	if kept.InvoiceID == nil || *kept.InvoiceID != first.ID {
		t.Error("kept entry not linked to the invoice")
	}
}

func TestComposeSameSelectionIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	entryA := seedEntry(t, db, client.ID, "Logo animation", "1500")
	entryB := seedEntry(t, db, client.ID, "Intro video", "2500")
	composer := New(db)

	req := Request{
		ClientID:     client.ID,
		WorkEntryIDs: []uuid.UUID{entryA.ID, entryB.ID},
		Number:       "42",
		IssueDate:    time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	for run := 1; run <= 2; run++ {
		if _, err := composer.Compose(req); err != nil {
			t.Fatalf("compose run %d: %v", run, err)
		}
	}

	var invoiceCount, itemCount int64
	db.Model(&models.Invoice{}).Count(&invoiceCount)
	db.Model(&models.InvoiceItem{}).Count(&itemCount)
	if invoiceCount != 1 {
		t.Errorf("invoice rows = %d, want 1", invoiceCount)
	}
	if itemCount != 2 {
		t.Errorf("items = %d, want 2", itemCount)
	}
}

func TestComposeSaveDefaults(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	entry := seedEntry(t, db, client.ID, "Logo animation", "1500")
	composer := New(db)

	_, err := composer.Compose(Request{
		ClientID:     client.ID,
		WorkEntryIDs: []uuid.UUID{entry.ID},
		IssueDate:    time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		FromText:     "Rahi, Dhaka",
		PaymentText:  "bKash 01700000000",
		SaveDefaults: true,
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	var settings models.InvoiceSettings
	if err := db.First(&settings, "id = ?", models.InvoiceSettingsRowID).Error; err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if settings.FromText != "Rahi, Dhaka" || settings.PaymentText != "bKash 01700000000" {
		t.Errorf("defaults not saved: %+v", settings)
	}
}

func TestComposeRejectsForeignEntries(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	other := models.Client{Name: "Blue Harbor", ChargedBy: "hour", Status: models.ClientStatusActive}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	foreign := seedEntry(t, db, other.ID, "Other work", "900")
	composer := New(db)

	_, err := composer.Compose(Request{
		ClientID:     client.ID,
		WorkEntryIDs: []uuid.UUID{foreign.ID},
		IssueDate:    time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrUnknownEntry) {
		t.Fatalf("err = %v, want ErrUnknownEntry", err)
	}

	// The failed compose must not leave a half-written invoice behind.
	var invoiceCount int64
	db.Model(&models.Invoice{}).Count(&invoiceCount)
	if invoiceCount != 0 {
		t.Errorf("invoice rows = %d, want 0", invoiceCount)
	}
	if got := nextNumber(t, db); got != 1 {
		t.Errorf("next_number = %d, want 1 after rollback", got)
	}
}

func TestComposeRejectsUnknownClient(t *testing.T) {
	db := newTestDB(t)
	composer := New(db)

	_, err := composer.Compose(Request{
		ClientID:     uuid.New(),
		WorkEntryIDs: []uuid.UUID{uuid.New()},
		IssueDate:    time.Now(),
	})
	if !errors.Is(err, ErrUnknownClient) {
		t.Fatalf("err = %v, want ErrUnknownClient", err)
	}
}

func TestComposeRejectsEmptySelection(t *testing.T) {
	db := newTestDB(t)
	composer := New(db)

	if _, err := composer.Compose(Request{ClientID: uuid.New()}); !errors.Is(err, ErrNoEntries) {
		t.Fatalf("err = %v, want ErrNoEntries", err)
	}
}

// Package importer ingests tabular uploads into the client, work, and
// payment collections. Rows are processed independently: a bad row is
// skipped and reported, never aborting the rest of the run.
package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/billing"
	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/models"
)

// Request is one bulk upload. Mapping is canonical field -> uploaded
// header; when empty the alias table fills it in. Rows hold the data
// cells in header order (CSV decoding happens upstream).
type Request struct {
	Target               Target            `json:"target"`
	Headers              []string          `json:"headers"`
	Rows                 [][]string        `json:"rows"`
	Mapping              map[string]string `json:"mapping"`
	CreateMissingClients bool              `json:"createMissingClients"`
}

// Report is the per-run outcome. Reasons carries one line per skipped
// row, naming the row it belongs to.
type Report struct {
	Inserted int      `json:"inserted"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Reasons  []string `json:"reasons"`
}

type Importer struct {
	DB *gorm.DB
	// MaxRows caps a single request; 0 means no cap.
	MaxRows int
}

func New(db *gorm.DB, maxRows int) *Importer {
	return &Importer{DB: db, MaxRows: maxRows}
}

var dateFormats = []string{"2006-01-02", "2006/01/02", "02 Jan 2006", "Jan 2, 2006"}

// Run ingests every row of the request. The returned error covers
// request-level problems only (unknown target, bad mapping, oversized
// upload); row-level problems land in the report.
func (im *Importer) Run(req Request) (Report, error) {
	report := Report{Reasons: []string{}}

	target, err := ParseTarget(string(req.Target))
	if err != nil {
		return report, err
	}
	if im.MaxRows > 0 && len(req.Rows) > im.MaxRows {
		return report, fmt.Errorf("upload has %d rows, limit is %d", len(req.Rows), im.MaxRows)
	}

	mapping := req.Mapping
	if len(mapping) == 0 {
		if mapping, err = SuggestMapping(target, req.Headers); err != nil {
			return report, err
		}
	}
	columns, err := resolveColumns(req.Headers, mapping)
	if err != nil {
		return report, err
	}

	for i, cells := range req.Rows {
		row := rowReader{number: i + 1, cells: cells, columns: columns}

		var outcome rowOutcome
		switch target {
		case TargetClients:
			outcome = im.importClientRow(row)
		case TargetWork:
			outcome = im.importWorkRow(row, req.CreateMissingClients)
		case TargetPayments:
			outcome = im.importPaymentRow(row, req.CreateMissingClients)
		}

		switch {
		case outcome.err != nil:
			report.Skipped++
			report.Reasons = append(report.Reasons, fmt.Sprintf("row %d (%s): %v", row.number, outcome.identity, outcome.err))
		case outcome.updated:
			report.Updated++
		default:
			report.Inserted++
		}
	}

	return report, nil
}

type rowOutcome struct {
	identity string
	updated  bool
	err      error
}

func skip(identity string, err error) rowOutcome {
	return rowOutcome{identity: identity, err: err}
}

func skipf(identity, format string, args ...any) rowOutcome {
	return rowOutcome{identity: identity, err: fmt.Errorf(format, args...)}
}

func (im *Importer) importClientRow(row rowReader) rowOutcome {
	name := row.get("name")
	if name == "" {
		return skipf("unnamed", "missing client name")
	}

	updated, err := im.upsertClient(clientFields{
		name:      name,
		contact:   row.get("contact"),
		note:      row.get("note"),
		chargedBy: strings.ToLower(row.get("charged_by")),
		status:    strings.ToLower(row.get("status")),
		rate:      row.get("rate"),
	})
	if err != nil {
		return skip(name, err)
	}
	return rowOutcome{identity: name, updated: updated}
}

func (im *Importer) importWorkRow(row rowReader, createMissing bool) rowOutcome {
	clientName := row.get("client_name")
	projectName := row.get("project_name")
	identity := strings.TrimSpace(clientName + " / " + projectName)

	if clientName == "" {
		return skipf(identity, "missing client name")
	}
	if projectName == "" {
		return skipf(identity, "missing project name")
	}

	client, err := im.resolveClient(clientName, createMissing, row)
	if err != nil {
		return skip(identity, err)
	}

	basisValue := row.get("charged_by")
	if basisValue == "" {
		basisValue = client.ChargedBy
	}
	basis, err := billing.ParseChargeBasis(basisValue)
	if err != nil {
		return skip(identity, err)
	}

	manualTotal, err := row.decimal("amount")
	if err != nil {
		return skip(identity, err)
	}
	manualRate, err := row.decimal("rate")
	if err != nil {
		return skip(identity, err)
	}

	// An explicit amount with no stated mode means the row carries its
	// own flat total; otherwise price by the client's rate.
	modeValue := row.get("pricing_mode")
	var mode billing.PricingMode
	if modeValue == "" {
		if manualTotal != nil {
			mode = billing.ModeManualTotal
		} else {
			mode = billing.ModeAuto
		}
	} else if mode, err = billing.ParsePricingMode(modeValue); err != nil {
		return skip(identity, err)
	}

	input := billing.UnitsInput{}
	if input.DurationSeconds, err = row.int64("duration_seconds"); err != nil {
		return skip(identity, err)
	}
	if minutes, err := row.int64("minutes"); err != nil {
		return skip(identity, err)
	} else if minutes != nil {
		input.Minutes = *minutes
	}
	if seconds, err := row.int64("seconds"); err != nil {
		return skip(identity, err)
	} else if seconds != nil {
		input.Seconds = *seconds
	}
	if units, err := row.decimal("units"); err != nil {
		return skip(identity, err)
	} else if units != nil {
		input.Units = *units
	}

	quantity, err := billing.ResolveUnits(basis, input)
	if err != nil {
		return skip(identity, err)
	}

	price, err := billing.ResolvePrice(billing.PriceInput{
		Mode:        mode,
		Basis:       basis,
		Units:       quantity.Units,
		ClientRate:  client.Rate,
		ManualRate:  manualRate,
		ManualTotal: manualTotal,
	})
	if err != nil {
		return skip(identity, err)
	}

	date, err := row.date("date")
	if err != nil {
		return skip(identity, err)
	}

	// Imported history defaults to delivered; the row can say otherwise.
	status := strings.ToLower(row.get("status"))
	if status == "" {
		status = models.WorkStatusDelivered
	}
	if status != models.WorkStatusDelivered && status != models.WorkStatusProcessing {
		return skipf(identity, "unknown status %q", status)
	}

	var deliveredAt *time.Time
	if status == models.WorkStatusDelivered {
		explicit, err := row.date("delivered_at")
		if err != nil {
			return skip(identity, err)
		}
		if row.get("delivered_at") != "" {
			deliveredAt = &explicit
		} else {
			deliveredAt = &date
		}
	}

	entry := models.WorkEntry{
		ClientID:        client.ID,
		Date:            date,
		ProjectName:     projectName,
		VariantLabel:    row.get("variant_label"),
		Status:          status,
		ChargedBy:       string(basis),
		PricingMode:     string(mode),
		DurationSeconds: quantity.DurationSeconds,
		Units:           quantity.Units,
		RateSnapshot:    price.RateSnapshot,
		AmountDue:       price.AmountDue,
		OverrideReason:  row.get("override_reason"),
		DeliveredAt:     deliveredAt,
		Note:            row.get("note"),
	}

	// Work rows are always inserted; there is no natural external key,
	// so re-uploading the same file duplicates them by design.
	if err := im.DB.Create(&entry).Error; err != nil {
		return skip(identity, err)
	}
	return rowOutcome{identity: identity}
}

func (im *Importer) importPaymentRow(row rowReader, createMissing bool) rowOutcome {
	clientName := row.get("client_name")
	if clientName == "" {
		return skipf("unnamed", "missing client name")
	}

	client, err := im.resolveClient(clientName, createMissing, row)
	if err != nil {
		return skip(clientName, err)
	}

	amount, err := row.decimal("amount")
	if err != nil {
		return skip(clientName, err)
	}
	if amount == nil || !amount.IsPositive() {
		return skipf(clientName, "payment amount must be positive")
	}

	date, err := row.date("date")
	if err != nil {
		return skip(clientName, err)
	}

	payment := models.PaymentEntry{
		ClientID: client.ID,
		Date:     date,
		Amount:   *amount,
		Medium:   row.get("medium"),
		Note:     row.get("note"),
	}

	if err := im.DB.Create(&payment).Error; err != nil {
		return skip(clientName, err)
	}
	return rowOutcome{identity: clientName}
}

// resolveClient finds a client by exact name. When the client is missing
// and auto-creation is allowed, it is created with defaults inferred
// from the row (basis, rate) through the same upsert path client-only
// imports use.
func (im *Importer) resolveClient(name string, createMissing bool, row rowReader) (models.Client, error) {
	var client models.Client
	err := im.DB.Where("name = ?", name).First(&client).Error
	if err == nil {
		return client, nil
	}
	if err != gorm.ErrRecordNotFound {
		return client, err
	}
	if !createMissing {
		return client, fmt.Errorf("unknown client %q", name)
	}

	if _, err := im.upsertClient(clientFields{
		name:      name,
		chargedBy: strings.ToLower(row.get("charged_by")),
		rate:      row.get("rate"),
	}); err != nil {
		return client, err
	}
	return client, im.DB.Where("name = ?", name).First(&client).Error
}

type clientFields struct {
	name      string
	contact   string
	note      string
	chargedBy string
	status    string
	rate      string
}

// upsertClient updates the client with that exact name or inserts a new
// one, which keeps client imports idempotent under re-upload. Reports
// whether an existing row was updated.
func (im *Importer) upsertClient(fields clientFields) (bool, error) {
	var client models.Client
	err := im.DB.Where("name = ?", fields.name).First(&client).Error
	found := err == nil
	if err != nil && err != gorm.ErrRecordNotFound {
		return false, err
	}

	client.Name = fields.name
	if fields.contact != "" {
		client.Contact = fields.contact
	}
	if fields.note != "" {
		client.Note = fields.note
	}
	if fields.chargedBy != "" {
		basis, err := billing.ParseChargeBasis(fields.chargedBy)
		if err != nil {
			return false, err
		}
		client.ChargedBy = string(basis)
	} else if client.ChargedBy == "" {
		client.ChargedBy = string(billing.BasisHour)
	}
	if fields.status != "" {
		switch fields.status {
		case models.ClientStatusActive, models.ClientStatusClosed, models.ClientStatusPaymentExpired:
			client.Status = fields.status
		default:
			return false, fmt.Errorf("unknown status %q", fields.status)
		}
	} else if client.Status == "" {
		client.Status = models.ClientStatusActive
	}
	if fields.rate != "" {
		rate, err := parseDecimalCell(fields.rate)
		if err != nil {
			return false, err
		}
		client.Rate = *rate
	}

	if found {
		return true, im.DB.Save(&client).Error
	}
	return false, im.DB.Create(&client).Error
}

// rowReader resolves canonical fields against one row's cells.
type rowReader struct {
	number  int
	cells   []string
	columns map[string]int
}

func (r rowReader) get(field string) string {
	index, ok := r.columns[field]
	if !ok || index >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[index])
}

func (r rowReader) decimal(field string) (*decimal.Decimal, error) {
	value := r.get(field)
	if value == "" {
		return nil, nil
	}
	parsed, err := parseDecimalCell(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", field, value)
	}
	return parsed, nil
}

func (r rowReader) int64(field string) (*int64, error) {
	value := r.get(field)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(stripSeparators(value), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", field, value)
	}
	return &parsed, nil
}

// date returns today when the cell is empty.
func (r rowReader) date(field string) (time.Time, error) {
	value := r.get(field)
	if value == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	for _, format := range dateFormats {
		if parsed, err := time.Parse(format, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid %s %q", field, value)
}

func parseDecimalCell(value string) (*decimal.Decimal, error) {
	parsed, err := decimal.NewFromString(stripSeparators(value))
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// stripSeparators drops thousands separators and embedded spaces so
// "12,500.50" coerces cleanly.
func stripSeparators(value string) string {
	value = strings.ReplaceAll(value, ",", "")
	return strings.ReplaceAll(value, " ", "")
}

func resolveColumns(headers []string, mapping map[string]string) (map[string]int, error) {
	index := make(map[string]int, len(headers))
	for i, header := range headers {
		index[normalizeHeader(header)] = i
	}

	columns := make(map[string]int, len(mapping))
	for field, header := range mapping {
		position, ok := index[normalizeHeader(header)]
		if !ok {
			return nil, fmt.Errorf("mapped header %q not present in upload", header)
		}
		columns[field] = position
	}
	return columns, nil
}

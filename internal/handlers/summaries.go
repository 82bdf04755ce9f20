package handlers

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/ledger"
	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/models"
)

const dateLayout = "2006-01-02"

// dateRange is an optional [from, to] filter on entry/payment dates.
type dateRange struct {
	From *time.Time
	To   *time.Time
}

func (r dateRange) apply(query *gorm.DB) *gorm.DB {
	if r.From != nil {
		query = query.Where("date >= ?", *r.From)
	}
	if r.To != nil {
		query = query.Where("date <= ?", *r.To)
	}
	return query
}

// summarizeClient loads a client's work and payment rows in scope and
// folds them through the ledger. Active days come from the store as a
// distinct-date count over delivered entries.
func summarizeClient(db *gorm.DB, clientID uuid.UUID, scope dateRange) (ledger.ClientSummary, error) {
	var entries []models.WorkEntry
	if err := scope.apply(db.Where("client_id = ?", clientID)).Find(&entries).Error; err != nil {
		return ledger.ClientSummary{}, err
	}

	var payments []models.PaymentEntry
	if err := scope.apply(db.Where("client_id = ?", clientID)).Find(&payments).Error; err != nil {
		return ledger.ClientSummary{}, err
	}

	var activeDays int64
	if err := scope.apply(db.Model(&models.WorkEntry{}).
		Where("client_id = ? AND status = ?", clientID, models.WorkStatusDelivered)).
		Distinct("date").Count(&activeDays).Error; err != nil {
		return ledger.ClientSummary{}, err
	}

	return ledger.SummarizeClient(clientID, entries, payments, int(activeDays)), nil
}

func parseDateQuery(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

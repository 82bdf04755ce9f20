// Package ledger folds work and payment records into the financial
// summaries shown on the client detail page, the client list, and the
// dashboard. All three views share these folds so the numbers can never
// drift apart.
package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/models"
)

// ClientSummary is one client's running balance. Dues are floored at
// zero: an overpayment is absorbed, never reported as a credit. Earnings
// use the single canonical formula max(0, payments - dues).
type ClientSummary struct {
	ClientID      uuid.UUID       `json:"clientId"`
	DeliveredSum  decimal.Decimal `json:"deliveredSum"`
	PaymentsSum   decimal.Decimal `json:"paymentsSum"`
	Dues          decimal.Decimal `json:"dues"`
	Earnings      decimal.Decimal `json:"earnings"`
	ProjectsCount int             `json:"projectsCount"`
	ActiveDays    int             `json:"activeDays"`
}

// GlobalSummary aggregates across clients. TotalDues sums per-client dues
// after each client's floor at zero, so one client's overpayment never
// offsets another client's due.
type GlobalSummary struct {
	TotalDelivered decimal.Decimal `json:"totalDelivered"`
	TotalPayments  decimal.Decimal `json:"totalPayments"`
	TotalDues      decimal.Decimal `json:"totalDues"`
	TotalEarnings  decimal.Decimal `json:"totalEarnings"`
}

// SummarizeClient folds one client's entries and payments. Only delivered
// entries count toward revenue. activeDays is consumed as supplied; the
// caller derives it from the store (distinct delivered dates).
func SummarizeClient(clientID uuid.UUID, entries []models.WorkEntry, payments []models.PaymentEntry, activeDays int) ClientSummary {
	summary := ClientSummary{
		ClientID:     clientID,
		DeliveredSum: decimal.Zero,
		PaymentsSum:  decimal.Zero,
		ActiveDays:   activeDays,
	}

	for _, entry := range entries {
		if entry.Status != models.WorkStatusDelivered {
			continue
		}
		summary.DeliveredSum = summary.DeliveredSum.Add(entry.AmountDue)
		summary.ProjectsCount++
	}
	for _, payment := range payments {
		summary.PaymentsSum = summary.PaymentsSum.Add(payment.Amount)
	}

	summary.Dues = clampZero(summary.DeliveredSum.Sub(summary.PaymentsSum))
	summary.Earnings = clampZero(summary.PaymentsSum.Sub(summary.Dues))
	return summary
}

// Summarize folds already-computed client summaries into the global view.
func Summarize(clients []ClientSummary) GlobalSummary {
	global := GlobalSummary{
		TotalDelivered: decimal.Zero,
		TotalPayments:  decimal.Zero,
		TotalDues:      decimal.Zero,
	}

	for _, client := range clients {
		global.TotalDelivered = global.TotalDelivered.Add(client.DeliveredSum)
		global.TotalPayments = global.TotalPayments.Add(client.PaymentsSum)
		global.TotalDues = global.TotalDues.Add(client.Dues)
	}

	global.TotalEarnings = clampZero(global.TotalPayments.Sub(global.TotalDues))
	return global
}

func clampZero(value decimal.Decimal) decimal.Decimal {
	if value.IsNegative() {
		return decimal.Zero
	}
	return value
}

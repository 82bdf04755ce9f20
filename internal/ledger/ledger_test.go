package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func delivered(amount string) models.WorkEntry {
	return models.WorkEntry{Status: models.WorkStatusDelivered, AmountDue: dec(amount)}
}

func processing(amount string) models.WorkEntry {
	return models.WorkEntry{Status: models.WorkStatusProcessing, AmountDue: dec(amount)}
}

func payment(amount string) models.PaymentEntry {
	return models.PaymentEntry{Amount: dec(amount)}
}

func TestSummarizeClient(t *testing.T) {
	clientID := uuid.New()

	tests := []struct {
		name           string
		entries        []models.WorkEntry
		payments       []models.PaymentEntry
		activeDays     int
		wantDelivered  string
		wantPayments   string
		wantDues       string
		wantEarnings   string
		wantProjects   int
		wantActiveDays int
	}{
		{
			name:          "empty client",
			wantDelivered: "0", wantPayments: "0", wantDues: "0", wantEarnings: "0",
		},
		{
			name:       "delivered minus payments",
			entries:    []models.WorkEntry{delivered("3000"), delivered("2000")},
			payments:   []models.PaymentEntry{payment("1500")},
			activeDays: 2,
			wantDelivered: "5000", wantPayments: "1500", wantDues: "3500",
			wantEarnings: "0", wantProjects: 2, wantActiveDays: 2,
		},
		{
			name:     "processing entries do not count",
			entries:  []models.WorkEntry{delivered("1000"), processing("9999")},
			payments: []models.PaymentEntry{payment("400")},
			wantDelivered: "1000", wantPayments: "400", wantDues: "600",
			wantEarnings: "0", wantProjects: 1,
		},
		{
			name:     "overpayment absorbs to zero dues",
			entries:  []models.WorkEntry{delivered("5000")},
			payments: []models.PaymentEntry{payment("6000")},
			wantDelivered: "5000", wantPayments: "6000", wantDues: "0",
			wantEarnings: "6000", wantProjects: 1,
		},
		{
			name:     "settled client earns its payments",
			entries:  []models.WorkEntry{delivered("2500")},
			payments: []models.PaymentEntry{payment("2500")},
			wantDelivered: "2500", wantPayments: "2500", wantDues: "0",
			wantEarnings: "2500", wantProjects: 1,
		},
		{
			name:     "partial payment earns the paid share",
			entries:  []models.WorkEntry{delivered("1000")},
			payments: []models.PaymentEntry{payment("700")},
			wantDelivered: "1000", wantPayments: "700", wantDues: "300",
			wantEarnings: "400", wantProjects: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SummarizeClient(clientID, tt.entries, tt.payments, tt.activeDays)

			if got.ClientID != clientID {
				t.Errorf("clientID = %s, want %s", got.ClientID, clientID)
			}
			checkDecimal(t, "deliveredSum", got.DeliveredSum, tt.wantDelivered)
			checkDecimal(t, "paymentsSum", got.PaymentsSum, tt.wantPayments)
			checkDecimal(t, "dues", got.Dues, tt.wantDues)
			checkDecimal(t, "earnings", got.Earnings, tt.wantEarnings)
			if got.ProjectsCount != tt.wantProjects {
				t.Errorf("projectsCount = %d, want %d", got.ProjectsCount, tt.wantProjects)
			}
			if got.ActiveDays != tt.wantActiveDays {
				t.Errorf("activeDays = %d, want %d", got.ActiveDays, tt.wantActiveDays)
			}
		})
	}
}

func TestSummarizeGlobal(t *testing.T) {
	owing := SummarizeClient(uuid.New(),
		[]models.WorkEntry{delivered("5000")},
		[]models.PaymentEntry{payment("1000")}, 0)
	overpaid := SummarizeClient(uuid.New(),
		[]models.WorkEntry{delivered("1000")},
		[]models.PaymentEntry{payment("3000")}, 0)

	global := Summarize([]ClientSummary{owing, overpaid})

	checkDecimal(t, "totalDelivered", global.TotalDelivered, "6000")
	checkDecimal(t, "totalPayments", global.TotalPayments, "4000")
	// The overpaid client's surplus must not offset the owing client's due.
	checkDecimal(t, "totalDues", global.TotalDues, "4000")
	checkDecimal(t, "totalEarnings", global.TotalEarnings, "0")
}

func TestSummarizeGlobalEarnings(t *testing.T) {
	paid := SummarizeClient(uuid.New(),
		[]models.WorkEntry{delivered("2000")},
		[]models.PaymentEntry{payment("2000")}, 0)

	global := Summarize([]ClientSummary{paid})

	checkDecimal(t, "totalDues", global.TotalDues, "0")
	checkDecimal(t, "totalEarnings", global.TotalEarnings, "2000")
}

func TestSummarizeEmpty(t *testing.T) {
	global := Summarize(nil)
	checkDecimal(t, "totalPayments", global.TotalPayments, "0")
	checkDecimal(t, "totalDues", global.TotalDues, "0")
	checkDecimal(t, "totalEarnings", global.TotalEarnings, "0")
}

func checkDecimal(t *testing.T, field string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", field, got, want)
	}
}

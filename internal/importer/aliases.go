package importer

import (
	"errors"
	"fmt"
	"strings"
)

// Target names the collection a bulk upload feeds.
type Target string

const (
	TargetClients  Target = "clients"
	TargetWork     Target = "work"
	TargetPayments Target = "payments"
)

var ErrUnknownTarget = errors.New("unknown import target")

func ParseTarget(value string) (Target, error) {
	switch Target(strings.ToLower(strings.TrimSpace(value))) {
	case TargetClients:
		return TargetClients, nil
	case TargetWork:
		return TargetWork, nil
	case TargetPayments:
		return TargetPayments, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTarget, value)
}

// fieldAliases maps each canonical field to the header spellings seen in
// the wild. Headers are normalized (lower-case, whitespace to underscore)
// before lookup, so "Client Name" and "client_name" both resolve.
var fieldAliases = map[Target]map[string][]string{
	TargetClients: {
		"name":       {"name", "client", "client_name", "customer", "customer_name"},
		"contact":    {"contact", "email", "phone", "contact_info"},
		"charged_by": {"charged_by", "basis", "billing_basis", "charge_basis", "billed_by"},
		"rate":       {"rate", "default_rate", "price", "unit_price", "hourly_rate"},
		"status":     {"status", "state", "client_status"},
		"note":       {"note", "notes", "remark", "remarks", "comment"},
	},
	TargetWork: {
		"client_name":      {"client", "client_name", "customer", "customer_name"},
		"date":             {"date", "work_date", "entry_date", "day"},
		"project_name":     {"project", "project_name", "task", "title", "description"},
		"variant_label":    {"variant", "variant_label", "version", "label"},
		"status":           {"status", "state", "work_status"},
		"charged_by":       {"charged_by", "basis", "billing_basis", "charge_basis"},
		"pricing_mode":     {"pricing_mode", "mode", "pricing"},
		"duration_seconds": {"duration_seconds", "duration", "seconds_total", "total_seconds", "time_seconds"},
		"minutes":          {"minutes", "mins", "duration_minutes", "time_minutes"},
		"seconds":          {"seconds", "secs"},
		"units":            {"units", "quantity", "qty", "count"},
		"rate":             {"rate", "unit_rate", "price", "unit_price"},
		"amount":           {"amount", "total", "amount_due", "price_total", "charge"},
		"override_reason":  {"override_reason", "reason", "pricing_note"},
		"delivered_at":     {"delivered_at", "delivery_date", "delivered"},
		"note":             {"note", "notes", "remark", "remarks", "comment"},
	},
	TargetPayments: {
		"client_name": {"client", "client_name", "customer", "customer_name"},
		"date":        {"date", "payment_date", "paid_at", "day"},
		"amount":      {"amount", "paid", "payment", "paid_amount", "value"},
		"medium":      {"medium", "method", "channel", "payment_method", "via"},
		"note":        {"note", "notes", "remark", "remarks", "comment"},
	},
}

func normalizeHeader(header string) string {
	normalized := strings.ToLower(strings.TrimSpace(header))
	return strings.Join(strings.Fields(normalized), "_")
}

// SuggestMapping matches uploaded headers against the alias table and
// returns canonical field -> original header for every field it could
// place. Unmatched fields are simply absent; the caller may still map
// them by hand.
func SuggestMapping(target Target, headers []string) (map[string]string, error) {
	aliases, ok := fieldAliases[target]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}

	normalized := make(map[string]string, len(headers))
	for _, header := range headers {
		key := normalizeHeader(header)
		if _, taken := normalized[key]; !taken {
			normalized[key] = header
		}
	}

	mapping := map[string]string{}
	for field, candidates := range aliases {
		for _, candidate := range candidates {
			if original, ok := normalized[candidate]; ok {
				mapping[field] = original
				break
			}
		}
	}
	return mapping, nil
}

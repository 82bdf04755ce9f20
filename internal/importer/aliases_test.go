package importer

import "testing"

func TestNormalizeHeader(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Client Name", "client_name"},
		{"  client_name  ", "client_name"},
		{"CLIENT   NAME", "client_name"},
		{"Amount", "amount"},
	}
	for _, tt := range tests {
		if got := normalizeHeader(tt.in); got != tt.want {
			t.Errorf("normalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSuggestMapping(t *testing.T) {
	headers := []string{"Client Name", "Work Date", "Task", "Total", "Mins", "Remarks"}

	mapping, err := SuggestMapping(TargetWork, headers)
	if err != nil {
		t.Fatalf("SuggestMapping: %v", err)
	}

	want := map[string]string{
		"client_name":  "Client Name",
		"date":         "Work Date",
		"project_name": "Task",
		"amount":       "Total",
		"minutes":      "Mins",
		"note":         "Remarks",
	}
	for field, header := range want {
		if mapping[field] != header {
			t.Errorf("mapping[%q] = %q, want %q", field, mapping[field], header)
		}
	}
	if _, ok := mapping["units"]; ok {
		t.Error("units should not match any uploaded header")
	}
}

func TestSuggestMappingUnknownTarget(t *testing.T) {
	if _, err := SuggestMapping("ledgers", nil); err == nil {
		t.Fatal("expected error for unknown target")
	}
}

func TestParseTarget(t *testing.T) {
	if target, err := ParseTarget(" Payments "); err != nil || target != TargetPayments {
		t.Fatalf("got %q, %v", target, err)
	}
	if _, err := ParseTarget("invoices"); err == nil {
		t.Fatal("expected error for unsupported target")
	}
}

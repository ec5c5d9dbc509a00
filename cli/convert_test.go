package cli

import "testing"

func TestParseVars(t *testing.T) {
	vars, err := parseVars([]string{"api_key=sk-test", "region=eu-west-1", "empty="})
	if err != nil {
		t.Fatalf("parseVars() error = %v", err)
	}
	if vars["api_key"] != "sk-test" || vars["region"] != "eu-west-1" {
		t.Errorf("vars = %v", vars)
	}
	if vars["empty"] != "" {
		t.Errorf("empty value = %v, want empty string", vars["empty"])
	}

	if _, err := parseVars([]string{"no-equals"}); err == nil {
		t.Error("parseVars(no-equals) error = nil")
	}
	if _, err := parseVars([]string{"=value"}); err == nil {
		t.Error("parseVars(empty key) error = nil")
	}
	if vars, err := parseVars(nil); err != nil || vars != nil {
		t.Errorf("parseVars(nil) = (%v, %v), want (nil, nil)", vars, err)
	}
}

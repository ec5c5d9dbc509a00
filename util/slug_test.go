package util

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Customer Support Agent", "customer-support-agent"},
		{"  Padded  Name  ", "padded-name"},
		{"Already-Slugged", "already-slugged"},
		{"Symbols & Stuff!", "symbols-stuff"},
		{"UPPER", "upper"},
		{"a--b---c", "a-b-c"},
		{"---", ""},
		{"", ""},
		{"snake_case_flow", "snake-case-flow"},
		{"Flow v2.1", "flow-v2-1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugifyCapsLength(t *testing.T) {
	long := strings.Repeat("abcdefgh ", 12)
	got := Slugify(long)
	if len(got) > 64 {
		t.Fatalf("Slugify produced %d characters, want <= 64", len(got))
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("Slugify(%q) = %q, trailing hyphen after cap", long, got)
	}
}

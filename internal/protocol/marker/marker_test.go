package marker_test

import (
	"testing"

	"modmail/internal/domain"
	"modmail/internal/protocol/marker"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   domain.CorrespondentID
		wantOK bool
	}{
		{"mention token", "New modmail from <@42> please help", "42", true},
		{"nickname mention", "hello <@!77>", "77", true},
		{"mention with punctuation", "(User) <@555>: hi", "555", true},
		{"role mention skipped", "<@&900> New modmail from <@123> (ID: 123)", "123", true},
		{"marker only", "New modmail from someone (ID: 123456789)", "123456789", true},
		{"role mention and marker", "<@&900> ping (ID: 31)", "31", true},
		{"neither", "just a normal message", "", false},
		{"malformed marker", "(ID: abc) <@x>", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := marker.Extract(tt.text)
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("Extract(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestOpening_RoundTrip(t *testing.T) {
	opening := marker.Opening("900", "123456789")

	want := "<@&900> New modmail from <@123456789> (ID: 123456789)"
	if opening != want {
		t.Fatalf("Opening = %q, want %q", opening, want)
	}
	got, ok := marker.Extract(opening)
	if !ok || got != "123456789" {
		t.Fatalf("Extract(Opening) = %q, %v", got, ok)
	}
}

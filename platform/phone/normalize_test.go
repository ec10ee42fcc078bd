package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"national number", "(212) 555-0175", "+12125550175"},
		{"already e164", "+12125550175", "+12125550175"},
		{"international", "+31 6 1234 5678", "+31612345678"},
		{"empty", "", ""},
		{"garbage passes through", "not-a-number", "not-a-number"},
		{"invalid passes through trimmed", "  123  ", "123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeE164(tt.input); got != tt.want {
				t.Errorf("NormalizeE164(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateE164(t *testing.T) {
	got, err := ValidateE164("(212) 555-0175")
	if err != nil {
		t.Fatalf("ValidateE164() error = %v", err)
	}
	if got != "+12125550175" {
		t.Errorf("ValidateE164() = %q, want +12125550175", got)
	}

	for _, input := range []string{"", "123", "not-a-number"} {
		if _, err := ValidateE164(input); err == nil {
			t.Errorf("ValidateE164(%q) succeeded, want error", input)
		}
	}
}

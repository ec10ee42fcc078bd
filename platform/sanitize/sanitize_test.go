package sanitize

import "testing"

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "customer asked to cancel", "customer asked to cancel"},
		{"tags removed", "<p>out of stock</p>", "out of stock"},
		{"nested tags", "<div><b>late</b> delivery</div>", "late delivery"},
		{"encoded tag", "&lt;script&gt;alert(1)&lt;/script&gt;", "alert(1)"},
		{"entities decoded", "fish &amp; chips &quot;special&quot;", `fish & chips "special"`},
		{"whitespace trimmed", "  <p> duplicate order </p>  ", "duplicate order"},
		{"only markup", "<br/><hr>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.input); got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestReason(t *testing.T) {
	if got := Reason("<p>too long to wait</p>", 500); got != "too long to wait" {
		t.Errorf("Reason() = %q", got)
	}
	if got := Reason("abcdef", 4); got != "abcd" {
		t.Errorf("Reason() with limit = %q, want abcd", got)
	}
	if got := Reason("abcdef", 0); got != "abcdef" {
		t.Errorf("Reason() without limit = %q, want abcdef", got)
	}
}

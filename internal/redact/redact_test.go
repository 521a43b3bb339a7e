package redact

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "email",
			in:   "reach me at jane.doe@example.com please",
			want: "reach me at [REDACTED_EMAIL] please",
		},
		{
			name: "ssn",
			in:   "my ssn is 078-05-1120 ok",
			want: "my ssn is [REDACTED_SSN] ok",
		},
		{
			name: "phone",
			in:   "call +1 555 867 5309 later",
			want: "call [REDACTED_PHONE] later",
		},
		{
			name: "card",
			in:   "card 4111 1111 1111 1111 expires soon",
			want: "card [REDACTED_CARD] expires soon",
		},
		{
			name: "ip",
			in:   "from 192.168.1.42 today",
			want: "from [REDACTED_IP] today",
		},
		{
			name: "clean text untouched",
			in:   "nothing sensitive here",
			want: "nothing sensitive here",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := String(tc.in); got != tc.want {
				t.Fatalf("String(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestPreviewLevels(t *testing.T) {
	content := "email jane@example.com and more"

	if got := Preview(content, "metadata", 200); got != "" {
		t.Fatalf("metadata preview = %q, want empty", got)
	}
	if got := Preview(content, "redacted", 200); strings.Contains(got, "jane@example.com") {
		t.Fatalf("redacted preview leaked the address: %q", got)
	}
	if got := Preview(content, "full", 200); got != content {
		t.Fatalf("full preview = %q, want raw content", got)
	}
	// Unknown levels fall back to metadata.
	if got := Preview(content, "verbose", 200); got != "" {
		t.Fatalf("unknown level preview = %q, want empty", got)
	}
}

func TestPreviewTruncation(t *testing.T) {
	long := strings.Repeat("a", 300)
	got := Preview(long, "full", 100)
	if len(got) <= 100 && !strings.HasSuffix(got, "…") {
		t.Fatalf("expected truncated preview with ellipsis, got %d bytes", len(got))
	}
	if !strings.HasPrefix(got, strings.Repeat("a", 100)) {
		t.Fatalf("truncation changed content: %q", got[:20])
	}
}

// Package redact keeps message content out of logs. The tracker's whole
// point is that conversational text carries PII, so anything that logs a
// preview goes through here first.
package redact

import "regexp"

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`)
	ssnRe   = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	cardRe  = regexp.MustCompile(`\b(?:\d{4}[- ]?){3}\d{4}\b`)
	ipRe    = regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])\.){3}(?:25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])\b`)
)

// String redacts structured PII patterns from free-form text.
func String(s string) string {
	if s == "" {
		return s
	}
	out := s
	out = emailRe.ReplaceAllString(out, "[REDACTED_EMAIL]")
	out = ssnRe.ReplaceAllString(out, "[REDACTED_SSN]")
	out = cardRe.ReplaceAllString(out, "[REDACTED_CARD]")
	out = ipRe.ReplaceAllString(out, "[REDACTED_IP]")
	out = phoneRe.ReplaceAllString(out, "[REDACTED_PHONE]")
	return out
}

// Preview renders message content for a log line according to the
// configured level: metadata logs nothing, redacted logs a scrubbed
// truncation, full logs a raw truncation.
func Preview(content, level string, max int) string {
	if max <= 0 {
		max = 200
	}
	switch level {
	case "full":
		return truncate(content, max)
	case "redacted":
		return truncate(String(content), max)
	default: // "metadata"
		return ""
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

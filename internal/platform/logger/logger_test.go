package logger

import (
	"strings"
	"testing"
)

func TestSanitizeValueRedactsAndHashes(t *testing.T) {
	if got := sanitizeValue("email", "a@example.com"); got != "[REDACTED]" {
		t.Fatalf("email: want=[REDACTED] got=%v", got)
	}
	got, ok := sanitizeValue("recipient_id", "5a1f").(string)
	if !ok || !strings.HasPrefix(got, "hash:") {
		t.Fatalf("recipient_id: want hash prefix got=%v", got)
	}
	if got := sanitizeValue("article_id", "abc"); got != "abc" {
		t.Fatalf("article_id: want passthrough got=%v", got)
	}
}

func TestSanitizeKVsKeepsDanglingKey(t *testing.T) {
	out := sanitizeKVs([]interface{}{"tag", "go", "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("sanitizeKVs: unexpected %v", out)
	}
}

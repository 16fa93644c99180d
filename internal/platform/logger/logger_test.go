package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVsRedactsSecretsAndHashesPeople(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"password", "hunter2",
		"user_id", "5f0c",
		"note_body", "private",
		"path", "/api/programs",
		"dangling",
	})
	if len(out) != 9 {
		t.Fatalf("unexpected length: %d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("password not redacted: %v", out[1])
	}
	if s, ok := out[3].(string); !ok || !strings.HasPrefix(s, "hash:") {
		t.Fatalf("user_id not hashed: %v", out[3])
	}
	if out[5] != "[REDACTED]" {
		t.Fatalf("note body not redacted: %v", out[5])
	}
	if out[7] != "/api/programs" {
		t.Fatalf("plain value changed: %v", out[7])
	}
	if out[8] != "dangling" {
		t.Fatalf("dangling key dropped: %v", out[8])
	}
}

func TestSanitizeValueRedactsJWTLookalikes(t *testing.T) {
	jwt := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig"
	if got := sanitizeValue("header", jwt); got != "[REDACTED]" {
		t.Fatalf("jwt not redacted: %v", got)
	}
}

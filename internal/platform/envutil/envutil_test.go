package envutil

import (
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("CASELINE_INT", "42")
	t.Setenv("CASELINE_BAD_INT", "forty")
	t.Setenv("CASELINE_BOOL", "yes")
	t.Setenv("CASELINE_TTL", "90")
	t.Setenv("CASELINE_LIST", " a, ,b ")

	if got := Int("CASELINE_INT", 1); got != 42 {
		t.Fatalf("Int: got=%d", got)
	}
	if got := Int("CASELINE_BAD_INT", 7); got != 7 {
		t.Fatalf("Int fallback: got=%d", got)
	}
	if got := String("CASELINE_MISSING", "def"); got != "def" {
		t.Fatalf("String: got=%q", got)
	}
	if !Bool("CASELINE_BOOL", false) {
		t.Fatalf("Bool: want true")
	}
	if got := Seconds("CASELINE_TTL", time.Second); got != 90*time.Second {
		t.Fatalf("Seconds: got=%s", got)
	}
	if got := List("CASELINE_LIST", nil); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("List: got=%v", got)
	}
}

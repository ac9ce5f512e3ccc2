package service

import (
	"strings"
	"testing"
)

func TestSnippet_Short(t *testing.T) {
	t.Parallel()

	if got := snippet("short text"); got != "short text" {
		t.Errorf("snippet should keep short text intact, got %q", got)
	}
}

func TestSnippet_Truncates(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", snippetLength+50)
	got := snippet(long)
	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncated snippet should end with ellipsis, got %q", got)
	}
	if len([]rune(got)) != snippetLength+1 {
		t.Errorf("snippet rune length = %d, want %d", len([]rune(got)), snippetLength+1)
	}
}

func TestSnippet_RuneBoundary(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("한", snippetLength+10)
	got := snippet(long)
	if strings.ContainsRune(got, '�') {
		t.Error("snippet should not split a multibyte rune")
	}
	if len([]rune(got)) != snippetLength+1 {
		t.Errorf("snippet rune length = %d, want %d", len([]rune(got)), snippetLength+1)
	}
}

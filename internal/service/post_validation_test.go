package service

import (
	"reflect"
	"testing"
)

func TestNormalizeCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty falls back to default", "", "free"},
		{"whitespace only", "   ", "free"},
		{"legacy korean board name", "자유게시판", "free"},
		{"regular category kept", "notice", "notice"},
		{"trimmed", "  qna  ", "qna"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := normalizeCategory(tt.input); got != tt.want {
				t.Errorf("normalizeCategory(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeFilterCategory(t *testing.T) {
	t.Parallel()

	if got := normalizeFilterCategory(""); got != "" {
		t.Errorf("empty filter should stay empty, got %q", got)
	}
	if got := normalizeFilterCategory("자유게시판"); got != "free" {
		t.Errorf("legacy filter should map to free, got %q", got)
	}
}

func TestNormalizeTags(t *testing.T) {
	t.Parallel()

	got := normalizeTags([]string{" go ", "go", "", "security", "<b>xss</b>"})
	want := []string{"go", "security", "xss"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("normalizeTags = %v, want %v", got, want)
	}
}

func TestNormalizeTags_Cap(t *testing.T) {
	t.Parallel()

	tags := make([]string, 0, maxTags+5)
	for i := 0; i < maxTags+5; i++ {
		tags = append(tags, string(rune('a'+i)))
	}

	got := normalizeTags(tags)
	if len(got) != maxTags {
		t.Errorf("tag list should be capped at %d, got %d", maxTags, len(got))
	}
}

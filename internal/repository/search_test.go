package repository

import "testing"

func TestLikePattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain term", "golang", "%golang%"},
		{"percent escaped", "50%", `%50\%%`},
		{"underscore escaped", "snake_case", `%snake\_case%`},
		{"backslash escaped", `back\slash`, `%back\\slash%`},
		{"empty", "", "%%"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := likePattern(tt.input); got != tt.want {
				t.Errorf("likePattern(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

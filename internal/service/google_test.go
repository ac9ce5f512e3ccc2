package service

import "testing"

func TestSanitizeUsername(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain name kept", "alice", "alice"},
		{"spaces and dots removed", "alice b.smith", "alicebsmith"},
		{"unicode removed", "김철수kim", "kim"},
		{"too short after cleanup", "김철수", ""},
		{"long name capped", "abcdefghijklmnopqrstuvwxyz", "abcdefghijklmnopqrst"},
		{"dashes and underscores kept", "a_b-c", "a_b-c"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := sanitizeUsername(tt.input); got != tt.want {
				t.Errorf("sanitizeUsername(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

package service

import "testing"

func TestCleanText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "hello world", "hello world"},
		{"tags stripped", "<script>alert(1)</script>hi", "hi"},
		{"nested markup stripped", "<b>bold <i>and italic</i></b>", "bold and italic"},
		{"whitespace trimmed", "  padded  ", "padded"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := cleanText(tt.input); got != tt.want {
				t.Errorf("cleanText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

package service

import (
	"errors"
	"testing"
)

func TestValidateURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain https", "https://example.com", "https://example.com", false},
		{"plain http", "http://example.com/path?q=1", "http://example.com/path?q=1", false},
		{"trimmed", "  https://example.com  ", "https://example.com", false},
		{"missing scheme", "example.com", "", true},
		{"unsupported scheme", "ftp://example.com", "", true},
		{"scheme only", "https://", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := validateURL(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidURL) {
					t.Errorf("validateURL(%q) err = %v, want ErrInvalidURL", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("validateURL(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("validateURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

package auth

import "testing"

func TestGenerateCode_Format(t *testing.T) {
	t.Parallel()

	code, err := GenerateCode()
	if err != nil {
		t.Fatalf("GenerateCode failed: %v", err)
	}
	if len(code) != CodeLength {
		t.Errorf("code length = %d, want %d", len(code), CodeLength)
	}
	if _, ok := NormalizeCode(code); !ok {
		t.Errorf("generated code %q should be well-formed", code)
	}
}

func TestGenerateCode_Varies(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode failed: %v", err)
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Error("20 generated codes should not all collide")
	}
}

func TestNormalizeCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"uppercase passthrough", "A1B2C3", "A1B2C3", true},
		{"lowercase input", "a1b2c3", "A1B2C3", true},
		{"surrounding whitespace", "  x9y8z7 ", "X9Y8Z7", true},
		{"too short", "A1B2C", "A1B2C", false},
		{"too long", "A1B2C3D", "A1B2C3D", false},
		{"invalid characters", "A1-2C3", "A1-2C3", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := NormalizeCode(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("NormalizeCode(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

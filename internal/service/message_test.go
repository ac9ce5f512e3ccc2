package service

import "testing"

func TestNormalizePage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{"defaults", 0, 0, 1, defaultPageLimit},
		{"negative page", -3, 10, 1, 10},
		{"limit over maximum", 2, maxPageLimit + 1, 2, defaultPageLimit},
		{"limit at maximum", 2, maxPageLimit, 2, maxPageLimit},
		{"regular values", 3, 25, 3, 25},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			page, limit := normalizePage(tt.page, tt.limit)
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Errorf("normalizePage(%d, %d) = (%d, %d), want (%d, %d)",
					tt.page, tt.limit, page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

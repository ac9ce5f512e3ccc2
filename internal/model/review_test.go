package model

import (
	"testing"
	"time"
)

func ratingOf(v float64) *float64 { return &v }

func TestAverageRating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		review   Review
		comments []*Comment
		want     *float64
	}{
		{
			name:   "no ratings at all",
			review: Review{},
			comments: []*Comment{
				{Content: "nice"},
			},
			want: nil,
		},
		{
			name:   "review rating only",
			review: Review{Rating: ratingOf(4)},
			want:   ratingOf(4),
		},
		{
			name:   "comment ratings only",
			review: Review{},
			comments: []*Comment{
				{Rating: ratingOf(2)},
				{Rating: ratingOf(4)},
			},
			want: ratingOf(3),
		},
		{
			name:   "review and comments combined",
			review: Review{Rating: ratingOf(5)},
			comments: []*Comment{
				{Rating: ratingOf(3)},
				{Content: "unrated comment"},
				{Rating: ratingOf(1)},
			},
			want: ratingOf(3),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.review.AverageRating(tt.comments)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("AverageRating = %v, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("AverageRating = nil, want %v", *tt.want)
			case tt.want != nil && got != nil && *got != *tt.want:
				t.Errorf("AverageRating = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestVerificationCodeExpired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	code := VerificationCode{ExpiresAt: now.Add(time.Hour)}

	if code.Expired(now) {
		t.Error("code should not be expired before its expiry")
	}
	if !code.Expired(now.Add(2 * time.Hour)) {
		t.Error("code should be expired after its expiry")
	}
}

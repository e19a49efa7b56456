package mail

import (
	"testing"
	"time"
)

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"days and hours", 27 * time.Hour, "1 days, 3 hours"},
		{"sub-hour collapses to minutes", 45 * time.Minute, "45 minutes"},
		{"hours and minutes", 2*time.Hour + 5*time.Minute, "2 hours, 5 minutes"},
		{"exact day", 24 * time.Hour, "1 days, 0 hours"},
		{"zero", 0, "0 minutes"},
		{"negative uses magnitude", -90 * time.Minute, "1 hours, 30 minutes"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatElapsed(tc.d)
			if got != tc.want {
				t.Fatalf("FormatElapsed(%v) = %q, want %q", tc.d, got, tc.want)
			}
		})
	}
}

func TestFormatElapsedDeadlineFixtures(t *testing.T) {
	deadline := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	reference := time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)
	if got := FormatElapsed(reference.Sub(deadline)); got != "1 days, 3 hours" {
		t.Fatalf("got %q, want %q", got, "1 days, 3 hours")
	}

	reference = time.Date(2024, 1, 1, 0, 45, 0, 0, time.UTC)
	if got := FormatElapsed(reference.Sub(deadline)); got != "45 minutes" {
		t.Fatalf("got %q, want %q", got, "45 minutes")
	}
}

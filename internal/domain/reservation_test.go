package domain_test

import (
	"testing"
	"time"

	"hotel_reservation/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                 string
		aIn, aOut, bIn, bOut string
		want                 bool
	}{
		{"identical ranges", "2024-01-01", "2024-01-03", "2024-01-01", "2024-01-03", true},
		{"partial overlap", "2024-01-01", "2024-01-03", "2024-01-02", "2024-01-04", true},
		{"contained range", "2024-01-01", "2024-01-10", "2024-01-03", "2024-01-05", true},
		{"back to back", "2024-01-01", "2024-01-03", "2024-01-03", "2024-01-05", false},
		{"disjoint", "2024-01-01", "2024-01-03", "2024-01-05", "2024-01-07", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.Overlaps(day(tc.aIn), day(tc.aOut), day(tc.bIn), day(tc.bOut))
			if got != tc.want {
				t.Fatalf("Overlaps(%s,%s vs %s,%s) = %v, want %v", tc.aIn, tc.aOut, tc.bIn, tc.bOut, got, tc.want)
			}
			// Overlap is symmetric.
			if rev := domain.Overlaps(day(tc.bIn), day(tc.bOut), day(tc.aIn), day(tc.aOut)); rev != got {
				t.Fatalf("overlap not symmetric for %s", tc.name)
			}
		})
	}
}

func TestNightsBetween(t *testing.T) {
	if n := domain.NightsBetween(day("2024-01-01"), day("2024-01-03")); n != 2 {
		t.Fatalf("two-night stay: got %d", n)
	}
	r := domain.Reservation{CheckIn: day("2024-02-28"), CheckOut: day("2024-03-01")}
	if r.Nights() != 2 {
		t.Fatalf("stay across month boundary: got %d", r.Nights())
	}
}

package hourkey

import (
	"testing"
	"time"
)

func TestBucketID(t *testing.T) {
	tests := []struct {
		instant string
		want    string
	}{
		{"2024-02-29T12:00:00Z", "2024022912"}, // leap day
		{"2024-12-31T23:59:59Z", "2024123123"}, // year rollover edge
		{"2025-01-01T00:00:00Z", "2025010100"},
		{"2024-06-30T23:59:59.999Z", "2024063023"}, // month rollover edge
		{"2024-07-01T00:00:00Z", "2024070100"},
		{"2024-03-09T05:04:00-07:00", "2024030912"}, // non-UTC input normalized
	}
	for _, tt := range tests {
		instant, err := time.Parse(time.RFC3339, tt.instant)
		if err != nil {
			t.Fatalf("bad test instant %s: %v", tt.instant, err)
		}
		if got := BucketID(instant); got != tt.want {
			t.Errorf("BucketID(%s) = %s, want %s", tt.instant, got, tt.want)
		}
	}
}

func TestBucketIDWidth(t *testing.T) {
	// Single-digit months, days and hours must stay zero-padded.
	instant := time.Date(2025, time.January, 2, 3, 0, 0, 0, time.UTC)
	got := BucketID(instant)
	if len(got) != KeyLength {
		t.Fatalf("BucketID length = %d, want %d", len(got), KeyLength)
	}
	if got != "2025010203" {
		t.Errorf("BucketID = %s, want 2025010203", got)
	}
}

func TestBucketIDMonotonic(t *testing.T) {
	start := time.Date(2024, time.December, 31, 20, 30, 0, 0, time.UTC)
	prev := BucketID(start)
	for i := 1; i <= 12; i++ {
		next := BucketID(start.Add(time.Duration(i) * time.Hour))
		if next <= prev {
			t.Fatalf("bucket ids not increasing: %s then %s", prev, next)
		}
		prev = next
	}
}

func TestUntilNextBucket(t *testing.T) {
	boundary := time.Date(2024, time.May, 1, 14, 0, 0, 0, time.UTC)

	if got := UntilNextBucket(boundary); got != time.Hour {
		t.Errorf("at boundary: got %v, want %v", got, time.Hour)
	}
	if got := UntilNextBucket(boundary.Add(-time.Millisecond)); got != time.Millisecond {
		t.Errorf("1ms before boundary: got %v, want %v", got, time.Millisecond)
	}
	if got := UntilNextBucket(boundary.Add(30 * time.Minute)); got != 30*time.Minute {
		t.Errorf("mid-bucket: got %v, want %v", got, 30*time.Minute)
	}
	if got := UntilNextBucket(boundary); got <= 0 {
		t.Errorf("countdown must be positive, got %v", got)
	}
}

func TestSameBucket(t *testing.T) {
	a := time.Date(2024, time.May, 1, 14, 0, 0, 0, time.UTC)
	b := a.Add(59*time.Minute + 59*time.Second)
	c := a.Add(time.Hour)

	if !SameBucket(a, b) {
		t.Error("instants within the same hour should share a bucket")
	}
	if SameBucket(a, c) {
		t.Error("instants an hour apart must not share a bucket")
	}
}

// Package hourkey derives the hour-bucket keys that drive word rotation.
// One bucket is one UTC hour; keys sort lexicographically in time order.
package hourkey

import (
	"fmt"
	"time"
)

// KeyLength is the fixed width of a bucket key: YYYYMMDDHH.
const KeyLength = 10

// BucketID returns the bucket key for the given instant, in UTC.
func BucketID(t time.Time) string {
	u := t.UTC()
	return fmt.Sprintf("%04d%02d%02d%02d", u.Year(), int(u.Month()), u.Day(), u.Hour())
}

// UntilNextBucket returns the time remaining until the bucket changes.
// The result is always positive: at an exact hour boundary it is the full
// hour span, since the boundary instant already belongs to the new bucket.
func UntilNextBucket(t time.Time) time.Duration {
	u := t.UTC()
	next := u.Truncate(time.Hour).Add(time.Hour)
	return next.Sub(u)
}

// SameBucket reports whether two instants fall in the same UTC hour.
func SameBucket(a, b time.Time) bool {
	return BucketID(a) == BucketID(b)
}

// Package expiry derives the display status of a credential from its
// expiration date. It is pure: same inputs, same bucket, no clock access.
package expiry

import "time"

// Bucket is the urgency classification of an expiration date.
type Bucket string

const (
	BucketExpired  Bucket = "expired"
	BucketSoon     Bucket = "expiring-soon"    // 0-30 days out
	BucketWarning  Bucket = "expiring-warning" // 31-90 days out
	BucketActive   Bucket = "active"           // more than 90 days out
	soonDays              = 30
	warningDays           = 90
	msPerDay              = 86_400_000
)

// DaysUntil computes the whole-day difference between now and expires as
// floor(millisecond delta / 86,400,000). Both arguments are compared as
// instants; there is no timezone normalization. Negative when expired.
func DaysUntil(expires, now time.Time) int {
	deltaMs := expires.UnixMilli() - now.UnixMilli()
	days := deltaMs / msPerDay
	if deltaMs%msPerDay != 0 && deltaMs < 0 {
		days-- // floor, not truncate, for negative deltas
	}
	return int(days)
}

// Classify maps an expiration date to its bucket. Total for any pair of valid
// instants and monotonic in DaysUntil: shrinking the remaining days never
// moves a record to a less urgent bucket.
func Classify(expires, now time.Time) Bucket {
	if expires.Before(now) {
		return BucketExpired
	}
	days := DaysUntil(expires, now)
	switch {
	case days <= soonDays:
		return BucketSoon
	case days <= warningDays:
		return BucketWarning
	default:
		return BucketActive
	}
}

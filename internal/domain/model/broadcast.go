package model

import "time"

// Audience names a subset of users resolved at broadcast-dispatch time.
type Audience string

const (
	AudienceActive  Audience = "active"
	AudienceExpired Audience = "expired"
	AudienceTest    Audience = "test"
	AudienceAll     Audience = "all"
)

func ValidAudience(s string) bool {
	switch Audience(s) {
	case AudienceActive, AudienceExpired, AudienceTest, AudienceAll:
		return true
	}
	return false
}

// BroadcastRecord is the durable trace of one fan-out. It is created before
// delivery starts and its counts are written exactly once afterwards, so a
// crash mid-fan-out leaves a record with zero counts rather than none.
type BroadcastRecord struct {
	ID          int64
	Audience    Audience
	MessageText string
	SentCount   int
	FailedCount int
	CreatedAt   time.Time
}

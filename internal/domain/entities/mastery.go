package entities

import "time"

// MasteryRecord tracks a player's perfect runs over one mushaf page.
type MasteryRecord struct {
	PlayerID         int64
	PageNumber       int
	PerfectRuns      int
	BestDurationSecs int
	UpdatedAt        time.Time
}

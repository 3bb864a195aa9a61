package entities

import "time"

// Challenge is a personal challenge another player issued: beat their
// score on a given page within the question count.
type Challenge struct {
	ID             string
	CreatorID      int64
	PageNumber     int
	TotalQuestions int
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

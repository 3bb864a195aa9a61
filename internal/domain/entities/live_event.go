package entities

import "time"

// LiveEvent is a time-boxed event that pays extra diamonds for a
// perfect score while it is running.
type LiveEvent struct {
	ID             int64
	Name           string
	RewardDiamonds int
	StartsAt       time.Time
	EndsAt         time.Time
}

// ActiveAt reports whether the event is running at the given time.
func (e *LiveEvent) ActiveAt(t time.Time) bool {
	return !t.Before(e.StartsAt) && t.Before(e.EndsAt)
}

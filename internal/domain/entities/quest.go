package entities

import "time"

// Quest is one daily quest definition: complete TargetCount occurrences
// of TriggerEvent to earn the rewards.
type Quest struct {
	ID             int64
	Name           string
	TriggerEvent   string
	TargetCount    int
	XPReward       int
	DiamondsReward int
}

// PlayerQuest tracks a player's progress on one quest for one day.
type PlayerQuest struct {
	PlayerID    int64
	QuestID     int64
	Progress    int
	CompletedAt *time.Time
	AssignedFor time.Time // the day the quest was assigned (UTC date)
}

// Completed reports whether the quest reward was already granted.
func (pq *PlayerQuest) Completed() bool {
	return pq.CompletedAt != nil
}

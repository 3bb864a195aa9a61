package entities

import (
	"strings"
	"time"
)

// Player is the persistent progress record of one player. It is loaded
// by the player service, mutated in place by the quiz engine and the
// achievement evaluator, and written back by the persistence layer.
type Player struct {
	ID       int64 // Telegram user ID
	ChatID   int64
	Username string

	XP       int
	Diamonds int

	TotalQuizzesCompleted  int
	TotalCorrectAnswers    int
	TotalQuestionsAnswered int
	TotalPlayTimeSeconds   int

	// Achievements holds the IDs of rules already granted. An ID, once
	// present, is never removed and never granted again.
	Achievements []int64

	// Inventory holds owned item identifiers, e.g. "qari_ar.husary".
	Inventory []string

	SelectedQari string
	CreatedAt    time.Time
	LastLoginAt  time.Time
}

// NewPlayer creates a fresh player record with default selections.
func NewPlayer(id, chatID int64, username string) *Player {
	now := time.Now()
	return &Player{
		ID:           id,
		ChatID:       chatID,
		Username:     username,
		SelectedQari: DefaultQari,
		CreatedAt:    now,
		LastLoginAt:  now,
	}
}

// HasAchievement reports whether the rule with the given ID was granted.
func (p *Player) HasAchievement(id int64) bool {
	for _, a := range p.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// QariCount counts owned recitation voices in the inventory.
func (p *Player) QariCount() int {
	n := 0
	for _, item := range p.Inventory {
		if strings.HasPrefix(item, "qari_") {
			n++
		}
	}
	return n
}

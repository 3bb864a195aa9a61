package service

import (
	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
)

// Progression converts total XP into levels and exposes the game-wide
// reward constants. The ladder and rules come from external
// configuration; the model itself is pure.
type Progression struct {
	cfg entities.ProgressionConfig
}

// NewProgression validates the configured ladder and returns the model.
func NewProgression(cfg entities.ProgressionConfig) (*Progression, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Progression{cfg: cfg}, nil
}

// LevelInfo returns the level reached with the given total XP, plus the
// XP progress within it. Total XP increases level monotonically.
func (p *Progression) LevelInfo(xp int) entities.LevelInfo {
	levels := p.cfg.Levels

	current := levels[0]
	var next *entities.LevelDef
	for i := range levels {
		if xp >= levels[i].XPRequired {
			current = levels[i]
			if i+1 < len(levels) {
				next = &levels[i+1]
			} else {
				next = nil
			}
		}
	}

	info := entities.LevelInfo{
		Level:       current.Level,
		XPIntoLevel: xp - current.XPRequired,
	}
	if next != nil {
		info.XPForNextLevel = next.XPRequired - current.XPRequired
	}
	return info
}

// CheckForLevelUp returns reward info when the XP change crossed at
// least one level threshold, and nil otherwise. A jump over several
// levels still pays a single reward, the resulting level's one.
func (p *Progression) CheckForLevelUp(oldXP, newXP int) *entities.LevelUpInfo {
	oldLevel := p.LevelInfo(oldXP).Level
	newInfo := p.LevelInfo(newXP)
	if newInfo.Level <= oldLevel {
		return nil
	}

	return &entities.LevelUpInfo{
		Level:          newInfo.Level,
		RewardDiamonds: p.rewardForLevel(newInfo.Level),
	}
}

// MaxQuestionsForLevel returns the session length cap for a level.
func (p *Progression) MaxQuestionsForLevel(level int) int {
	max := p.cfg.Levels[0].MaxQuestions
	for _, l := range p.cfg.Levels {
		if l.Level <= level {
			max = l.MaxQuestions
		}
	}
	return max
}

// Rules exposes the reward constants as one configuration object.
func (p *Progression) Rules() entities.GameRules {
	return p.cfg.Rules
}

func (p *Progression) rewardForLevel(level int) int {
	for _, l := range p.cfg.Levels {
		if l.Level == level {
			return l.RewardDiamonds
		}
	}
	return 0
}

// DefaultProgressionConfig mirrors the ladder the progression_config
// table ships with; used when the table is empty.
func DefaultProgressionConfig() entities.ProgressionConfig {
	return entities.ProgressionConfig{
		Levels: []entities.LevelDef{
			{Level: 1, XPRequired: 0, RewardDiamonds: 0, MaxQuestions: 5},
			{Level: 2, XPRequired: 100, RewardDiamonds: 10, MaxQuestions: 5},
			{Level: 3, XPRequired: 250, RewardDiamonds: 15, MaxQuestions: 7},
			{Level: 4, XPRequired: 450, RewardDiamonds: 20, MaxQuestions: 7},
			{Level: 5, XPRequired: 700, RewardDiamonds: 25, MaxQuestions: 10},
			{Level: 6, XPRequired: 1000, RewardDiamonds: 30, MaxQuestions: 10},
			{Level: 7, XPRequired: 1400, RewardDiamonds: 35, MaxQuestions: 12},
			{Level: 8, XPRequired: 1900, RewardDiamonds: 40, MaxQuestions: 12},
			{Level: 9, XPRequired: 2500, RewardDiamonds: 45, MaxQuestions: 15},
			{Level: 10, XPRequired: 3200, RewardDiamonds: 50, MaxQuestions: 15},
			{Level: 12, XPRequired: 4800, RewardDiamonds: 60, MaxQuestions: 18},
			{Level: 15, XPRequired: 7800, RewardDiamonds: 75, MaxQuestions: 20},
			{Level: 20, XPRequired: 14000, RewardDiamonds: 100, MaxQuestions: 20},
		},
		Rules: entities.GameRules{
			XPPerCorrectAnswer: 10,
			XPBonusAllCorrect:  50,
		},
	}
}

package entities

import "errors"

var (
	ErrNoLevels           = errors.New("progression config has no levels")
	ErrLevelsNotAscending = errors.New("progression level thresholds must be strictly ascending")
)

// LevelDef describes one level of the progression ladder.
type LevelDef struct {
	Level          int `mapstructure:"level" json:"level"`
	XPRequired     int `mapstructure:"xp_required" json:"xp_required"`         // total XP needed to reach the level
	RewardDiamonds int `mapstructure:"reward_diamonds" json:"reward_diamonds"` // paid out on reaching the level
	MaxQuestions   int `mapstructure:"max_questions" json:"max_questions"`     // session length cap at this level
}

// GameRules are the tunable reward constants of a quiz session.
type GameRules struct {
	XPPerCorrectAnswer int `mapstructure:"xp_per_correct_answer" json:"xp_per_correct_answer"`
	XPBonusAllCorrect  int `mapstructure:"xp_bonus_all_correct" json:"xp_bonus_all_correct"`
}

// ProgressionConfig is the externally supplied progression rule table.
type ProgressionConfig struct {
	Levels []LevelDef `mapstructure:"levels" json:"levels"`
	Rules  GameRules  `mapstructure:"rules" json:"rules"`
}

// Validate checks the ladder is non-empty and strictly ascending in XP.
func (c ProgressionConfig) Validate() error {
	if len(c.Levels) == 0 {
		return ErrNoLevels
	}
	for i := 1; i < len(c.Levels); i++ {
		if c.Levels[i].XPRequired <= c.Levels[i-1].XPRequired {
			return ErrLevelsNotAscending
		}
	}
	return nil
}

// LevelInfo is the derived position of a player on the ladder.
type LevelInfo struct {
	Level          int
	XPIntoLevel    int
	XPForNextLevel int // 0 at the top level
}

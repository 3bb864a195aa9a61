package service

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
)

// EventData carries the event-specific statistics achievement rules may
// reference. Absent fields simply never satisfy a rule.
type EventData struct {
	IsPerfect  *bool
	PageNumber int // 0 when the event is not tied to a page
}

// AchievementService evaluates the declarative achievement rule table.
// Rules are independent and fire at most once per player, ever.
type AchievementService struct {
	rules       []entities.AchievementRule
	progression *Progression
	logger      *zap.Logger
}

// NewAchievementService creates the evaluator over an immutable rule table.
func NewAchievementService(
	rules []entities.AchievementRule,
	progression *Progression,
	logger *zap.Logger,
) *AchievementService {
	return &AchievementService{
		rules:       rules,
		progression: progression,
		logger:      logger,
	}
}

// Evaluate checks every rule triggered by the event against the
// player's derived statistics. Newly satisfied rules are granted
// immediately: marked on the player, rewards applied, and returned so
// the caller can announce them. Evaluating the same event twice never
// grants a rule twice.
func (s *AchievementService) Evaluate(
	event string,
	data EventData,
	player *entities.Player,
) []entities.AchievementRule {
	stats := s.buildStatContext(data, player)

	var granted []entities.AchievementRule
	for _, rule := range s.rules {
		if rule.TriggerEvent != event {
			continue
		}
		if player.HasAchievement(rule.ID) {
			continue
		}

		value, known := stats[rule.TargetStat]
		if !known {
			// The rule references a statistic this context does not
			// compute; it never fires.
			continue
		}

		if !compare(rule.Comparison, value, rule.TargetValue) {
			continue
		}

		player.Achievements = append(player.Achievements, rule.ID)
		player.XP += rule.XPReward
		player.Diamonds += rule.DiamondsReward
		granted = append(granted, rule)

		s.logger.Info("achievement granted",
			zap.Int64("player_id", player.ID),
			zap.Int64("achievement_id", rule.ID),
			zap.String("name", rule.Name),
		)
	}

	return granted
}

// buildStatContext computes the closed, explicitly enumerated mapping
// from statistic name to value. Rules cannot reach anything outside it.
func (s *AchievementService) buildStatContext(
	data EventData,
	player *entities.Player,
) map[string]float64 {
	stats := map[string]float64{
		entities.StatXP:            float64(player.XP),
		entities.StatDiamonds:      float64(player.Diamonds),
		entities.StatLevel:         float64(s.progression.LevelInfo(player.XP).Level),
		entities.StatInventorySize: float64(len(player.Inventory)),
		entities.StatTotalQuizzes:  float64(player.TotalQuizzesCompleted),
		entities.StatQariCount:     float64(player.QariCount()),
	}

	if data.IsPerfect != nil {
		if *data.IsPerfect {
			stats[entities.StatIsPerfect] = 1
		} else {
			stats[entities.StatIsPerfect] = 0
		}
	}
	if data.PageNumber > 0 {
		stats[entities.StatPageNumber] = float64(data.PageNumber)
	}

	return stats
}

// compare applies a rule operator; unknown operators never match.
func compare(op entities.Comparison, got, want float64) bool {
	switch op {
	case entities.CompareEqual:
		return got == want
	case entities.CompareGreaterOrEqual:
		return got >= want
	case entities.CompareLessOrEqual:
		return got <= want
	default:
		return false
	}
}

// DefaultAchievementRules is the built-in achievement table.
func DefaultAchievementRules() []entities.AchievementRule {
	return []entities.AchievementRule{
		{ID: 1, Name: "الوصول للمستوى 5", TriggerEvent: entities.EventLogin, TargetStat: entities.StatLevel, Comparison: entities.CompareGreaterOrEqual, TargetValue: 5, XPReward: 50, DiamondsReward: 25},
		{ID: 2, Name: "الوصول للمستوى 10", TriggerEvent: entities.EventLogin, TargetStat: entities.StatLevel, Comparison: entities.CompareGreaterOrEqual, TargetValue: 10, XPReward: 100, DiamondsReward: 50},
		{ID: 3, Name: "الوصول للمستوى 20", TriggerEvent: entities.EventLogin, TargetStat: entities.StatLevel, Comparison: entities.CompareGreaterOrEqual, TargetValue: 20, XPReward: 200, DiamondsReward: 100},
		{ID: 4, Name: "أول اختبار ناجح", TriggerEvent: entities.EventQuizCompleted, TargetStat: entities.StatTotalQuizzes, Comparison: entities.CompareEqual, TargetValue: 1, XPReward: 20, DiamondsReward: 10},
		{ID: 5, Name: "أداء مثالي!", TriggerEvent: entities.EventQuizCompleted, TargetStat: entities.StatIsPerfect, Comparison: entities.CompareEqual, TargetValue: 1, XPReward: 30, DiamondsReward: 15},
		{ID: 6, Name: "خبير الاختبارات", TriggerEvent: entities.EventQuizCompleted, TargetStat: entities.StatTotalQuizzes, Comparison: entities.CompareEqual, TargetValue: 50, XPReward: 150, DiamondsReward: 75},
		{ID: 7, Name: "المشتري الأول", TriggerEvent: entities.EventItemPurchased, TargetStat: entities.StatInventorySize, Comparison: entities.CompareEqual, TargetValue: 1, XPReward: 10, DiamondsReward: 5},
		{ID: 8, Name: "جامع القراء", TriggerEvent: entities.EventItemPurchased, TargetStat: entities.StatQariCount, Comparison: entities.CompareEqual, TargetValue: 3, XPReward: 40, DiamondsReward: 20},
	}
}

package service

import (
	"testing"

	"go.uber.org/zap"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
)

func newTestAchievements(t *testing.T, rules []entities.AchievementRule) *AchievementService {
	t.Helper()
	return NewAchievementService(rules, newTestProgression(t), zap.NewNop())
}

func TestEvaluateGrantsFirstQuizRule(t *testing.T) {
	svc := newTestAchievements(t, DefaultAchievementRules())
	player := entities.NewPlayer(1, 1, "test")
	player.TotalQuizzesCompleted = 1

	granted := svc.Evaluate(entities.EventQuizCompleted, EventData{}, player)
	if len(granted) != 1 {
		t.Fatalf("expected exactly one granted rule, got %d", len(granted))
	}
	if granted[0].ID != 4 {
		t.Fatalf("expected the first-quiz rule, got %d", granted[0].ID)
	}
	if player.XP != granted[0].XPReward || player.Diamonds != granted[0].DiamondsReward {
		t.Fatalf("rewards not applied: xp=%d diamonds=%d", player.XP, player.Diamonds)
	}
	if !player.HasAchievement(4) {
		t.Fatal("granted rule not recorded on the player")
	}
}

func TestEvaluateNeverGrantsTwice(t *testing.T) {
	svc := newTestAchievements(t, DefaultAchievementRules())
	player := entities.NewPlayer(1, 1, "test")
	player.TotalQuizzesCompleted = 1

	first := svc.Evaluate(entities.EventQuizCompleted, EventData{}, player)
	if len(first) != 1 {
		t.Fatalf("expected one granted rule, got %d", len(first))
	}

	again := svc.Evaluate(entities.EventQuizCompleted, EventData{}, player)
	if len(again) != 0 {
		t.Fatalf("expected no re-grants, got %d", len(again))
	}
}

func TestEvaluateIgnoresOtherEvents(t *testing.T) {
	svc := newTestAchievements(t, DefaultAchievementRules())
	player := entities.NewPlayer(1, 1, "test")
	player.TotalQuizzesCompleted = 1

	if granted := svc.Evaluate(entities.EventLogin, EventData{}, player); len(granted) != 0 {
		t.Fatalf("quiz rules fired on a login event: %d granted", len(granted))
	}
}

func TestEvaluateLoginLevelMilestones(t *testing.T) {
	svc := newTestAchievements(t, DefaultAchievementRules())
	player := entities.NewPlayer(1, 1, "test")
	player.XP = 700 // level 5

	granted := svc.Evaluate(entities.EventLogin, EventData{}, player)
	if len(granted) != 1 || granted[0].ID != 1 {
		t.Fatalf("expected only the level-5 milestone, got %+v", granted)
	}
}

func TestEvaluatePerfectQuizRule(t *testing.T) {
	svc := newTestAchievements(t, DefaultAchievementRules())
	player := entities.NewPlayer(1, 1, "test")
	player.TotalQuizzesCompleted = 2 // skip the first-quiz rule

	// Without the event datum the perfect-score rule must not fire.
	if granted := svc.Evaluate(entities.EventQuizCompleted, EventData{}, player); len(granted) != 0 {
		t.Fatalf("rule fired on a missing statistic: %+v", granted)
	}

	imperfect := false
	if granted := svc.Evaluate(entities.EventQuizCompleted, EventData{IsPerfect: &imperfect}, player); len(granted) != 0 {
		t.Fatalf("rule fired on an imperfect run: %+v", granted)
	}

	perfect := true
	granted := svc.Evaluate(entities.EventQuizCompleted, EventData{IsPerfect: &perfect}, player)
	if len(granted) != 1 || granted[0].ID != 5 {
		t.Fatalf("expected the perfect-score rule, got %+v", granted)
	}
}

func TestEvaluateUnknownOperatorFailsClosed(t *testing.T) {
	rules := []entities.AchievementRule{
		{ID: 100, Name: "broken", TriggerEvent: entities.EventLogin, TargetStat: entities.StatXP, Comparison: "gt", TargetValue: 0},
	}
	svc := newTestAchievements(t, rules)
	player := entities.NewPlayer(1, 1, "test")
	player.XP = 1000

	if granted := svc.Evaluate(entities.EventLogin, EventData{}, player); len(granted) != 0 {
		t.Fatalf("unknown operator must never match, got %+v", granted)
	}
}

func TestEvaluateItemPurchasedRules(t *testing.T) {
	svc := newTestAchievements(t, DefaultAchievementRules())
	player := entities.NewPlayer(1, 1, "test")
	player.Inventory = []string{"qari_ar.husary", "qari_ar.minshawi", "qari_ar.sudais"}

	granted := svc.Evaluate(entities.EventItemPurchased, EventData{}, player)
	if len(granted) != 1 || granted[0].ID != 8 {
		t.Fatalf("expected the qari-collector rule only, got %+v", granted)
	}
}

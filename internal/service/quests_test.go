package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
)

type fakeQuestRepo struct {
	quests   []*entities.Quest
	progress map[string]*entities.PlayerQuest
}

func newFakeQuestRepo(quests ...*entities.Quest) *fakeQuestRepo {
	return &fakeQuestRepo{
		quests:   quests,
		progress: make(map[string]*entities.PlayerQuest),
	}
}

func questKey(playerID, questID int64, day time.Time) string {
	return fmt.Sprintf("%d:%d:%s", playerID, questID, day.Format("2006-01-02"))
}

func (r *fakeQuestRepo) GetDailyQuests(_ context.Context) ([]*entities.Quest, error) {
	return r.quests, nil
}

func (r *fakeQuestRepo) GetPlayerQuest(_ context.Context, playerID, questID int64, day time.Time) (*entities.PlayerQuest, error) {
	return r.progress[questKey(playerID, questID, day)], nil
}

func (r *fakeQuestRepo) UpsertPlayerQuest(_ context.Context, pq *entities.PlayerQuest) error {
	r.progress[questKey(pq.PlayerID, pq.QuestID, pq.AssignedFor)] = pq
	return nil
}

func TestQuestProgressCompletesOnce(t *testing.T) {
	repo := newFakeQuestRepo(&entities.Quest{
		ID:             1,
		Name:           "أكمل اختبارين",
		TriggerEvent:   entities.EventQuizCompleted,
		TargetCount:    2,
		XPReward:       25,
		DiamondsReward: 5,
	})
	svc := NewQuestService(repo, zap.NewNop())
	player := entities.NewPlayer(1, 1, "test")

	completed, err := svc.UpdateProgress(context.Background(), player, entities.EventQuizCompleted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(completed) != 0 {
		t.Fatalf("quest completed after one of two occurrences")
	}
	if player.XP != 0 {
		t.Fatalf("reward granted early: xp=%d", player.XP)
	}

	completed, err = svc.UpdateProgress(context.Background(), player, entities.EventQuizCompleted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != 1 {
		t.Fatalf("expected quest 1 to complete, got %+v", completed)
	}
	if player.XP != 25 || player.Diamonds != 5 {
		t.Fatalf("rewards not applied: xp=%d diamonds=%d", player.XP, player.Diamonds)
	}

	// A completed quest never pays again the same day.
	completed, err = svc.UpdateProgress(context.Background(), player, entities.EventQuizCompleted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(completed) != 0 || player.XP != 25 {
		t.Fatalf("completed quest progressed again: completed=%d xp=%d", len(completed), player.XP)
	}
}

func TestQuestProgressIgnoresOtherEvents(t *testing.T) {
	repo := newFakeQuestRepo(&entities.Quest{
		ID:           1,
		TriggerEvent: entities.EventQuizCompleted,
		TargetCount:  1,
		XPReward:     25,
	})
	svc := NewQuestService(repo, zap.NewNop())
	player := entities.NewPlayer(1, 1, "test")

	completed, err := svc.UpdateProgress(context.Background(), player, entities.EventMasteryCheck)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(completed) != 0 || len(repo.progress) != 0 {
		t.Fatal("unrelated event advanced quest progress")
	}
}

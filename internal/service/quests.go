package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
)

// QuestService tracks daily quest progress. Quests count occurrences of
// a trigger event; completing one grants its reward exactly once per day.
type QuestService struct {
	questRepo QuestRepository
	logger    *zap.Logger
}

// NewQuestService creates the quest progress tracker.
func NewQuestService(questRepo QuestRepository, logger *zap.Logger) *QuestService {
	return &QuestService{questRepo: questRepo, logger: logger}
}

// UpdateProgress increments every daily quest triggered by the event
// and grants rewards for quests that just completed. Returns the
// completed quests so the presenter can announce them.
func (s *QuestService) UpdateProgress(ctx context.Context, player *entities.Player, event string) ([]*entities.Quest, error) {
	quests, err := s.questRepo.GetDailyQuests(ctx)
	if err != nil {
		return nil, fmt.Errorf("load daily quests: %w", err)
	}

	day := time.Now().UTC().Truncate(24 * time.Hour)

	var completed []*entities.Quest
	for _, quest := range quests {
		if quest.TriggerEvent != event {
			continue
		}

		pq, err := s.questRepo.GetPlayerQuest(ctx, player.ID, quest.ID, day)
		if err != nil {
			return completed, fmt.Errorf("load quest progress: %w", err)
		}
		if pq == nil {
			pq = &entities.PlayerQuest{
				PlayerID:    player.ID,
				QuestID:     quest.ID,
				AssignedFor: day,
			}
		}
		if pq.Completed() {
			continue
		}

		pq.Progress++
		if pq.Progress >= quest.TargetCount {
			now := time.Now()
			pq.CompletedAt = &now
			player.XP += quest.XPReward
			player.Diamonds += quest.DiamondsReward
			completed = append(completed, quest)

			s.logger.Info("quest completed",
				zap.Int64("player_id", player.ID),
				zap.Int64("quest_id", quest.ID),
				zap.String("name", quest.Name),
			)
		}

		if err := s.questRepo.UpsertPlayerQuest(ctx, pq); err != nil {
			return completed, fmt.Errorf("save quest progress: %w", err)
		}
	}

	return completed, nil
}

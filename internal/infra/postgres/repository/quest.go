package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-quiz-bot/internal/infra/postgres"
)

// QuestRepository provides access to daily quest definitions and
// per-player quest progress.
type QuestRepository struct {
	db postgres.DBTX
}

// NewQuestRepository creates a new QuestRepository with the provided database pool.
func NewQuestRepository(db postgres.DBTX) *QuestRepository {
	return &QuestRepository{db: db}
}

// GetDailyQuests returns all active quest definitions.
func (r *QuestRepository) GetDailyQuests(ctx context.Context) ([]*entities.Quest, error) {
	query := `
		SELECT id, name, trigger_event, target_count, xp_reward, diamonds_reward
		FROM quests
		WHERE active
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query quests: %w", err)
	}
	defer rows.Close()

	var quests []*entities.Quest
	for rows.Next() {
		var q entities.Quest
		if err := rows.Scan(&q.ID, &q.Name, &q.TriggerEvent, &q.TargetCount, &q.XPReward, &q.DiamondsReward); err != nil {
			return nil, fmt.Errorf("scan quest: %w", err)
		}
		quests = append(quests, &q)
	}

	return quests, rows.Err()
}

// GetPlayerQuest returns the player's progress on one quest for the
// given day, or nil when no progress exists yet.
func (r *QuestRepository) GetPlayerQuest(ctx context.Context, playerID, questID int64, day time.Time) (*entities.PlayerQuest, error) {
	query := `
		SELECT player_id, quest_id, progress, completed_at, assigned_for
		FROM player_quests
		WHERE player_id = $1 AND quest_id = $2 AND assigned_for = $3
	`

	var pq entities.PlayerQuest
	err := r.db.QueryRow(ctx, query, playerID, questID, day).Scan(
		&pq.PlayerID,
		&pq.QuestID,
		&pq.Progress,
		&pq.CompletedAt,
		&pq.AssignedFor,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get player quest: %w", err)
	}

	return &pq, nil
}

// UpsertPlayerQuest writes quest progress for the day.
func (r *QuestRepository) UpsertPlayerQuest(ctx context.Context, pq *entities.PlayerQuest) error {
	query := `
		INSERT INTO player_quests (player_id, quest_id, progress, completed_at, assigned_for)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (player_id, quest_id, assigned_for) DO UPDATE SET
			progress = EXCLUDED.progress,
			completed_at = EXCLUDED.completed_at
	`

	_, err := r.db.Exec(ctx, query, pq.PlayerID, pq.QuestID, pq.Progress, pq.CompletedAt, pq.AssignedFor)
	if err != nil {
		return fmt.Errorf("upsert player quest: %w", err)
	}

	return nil
}

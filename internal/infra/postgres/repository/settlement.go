package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-quiz-bot/internal/infra/postgres"
)

// SettlementRepository writes settled session outcomes. The result row
// and the player snapshot go into one transaction so the leaderboard
// never sees a quiz without its XP or vice versa.
type SettlementRepository struct {
	db         postgres.DBTX
	transactor *postgres.Transactor
}

// NewSettlementRepository creates a new SettlementRepository.
func NewSettlementRepository(db postgres.DBTX, transactor *postgres.Transactor) *SettlementRepository {
	return &SettlementRepository{db: db, transactor: transactor}
}

// SaveSettlement stores the session result and the updated player
// snapshot atomically.
func (r *SettlementRepository) SaveSettlement(
	ctx context.Context,
	player *entities.Player,
	result *entities.SessionResult,
) error {
	errorLog, err := json.Marshal(result.ErrorLog)
	if err != nil {
		return fmt.Errorf("marshal error log: %w", err)
	}

	return r.transactor.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := NewPlayerRepository(tx).Save(ctx, player); err != nil {
			return err
		}

		query := `
			INSERT INTO quiz_results (
				id, player_id, page_number, score, total_questions,
				xp_earned, error_log, duration_secs, is_perfect,
				ended_early, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`

		_, err := tx.Exec(ctx, query,
			result.SessionID,
			result.PlayerID,
			result.PageNumber,
			result.Score,
			result.TotalQuestions,
			result.XPEarned,
			errorLog,
			result.DurationSecs,
			result.IsPerfect,
			result.EndedEarly,
			time.Now(),
		)
		if err != nil {
			return fmt.Errorf("insert quiz result: %w", err)
		}

		return nil
	})
}

// SaveChallengeResult stores the outcome of a personal-challenge session.
func (r *SettlementRepository) SaveChallengeResult(ctx context.Context, result *entities.ChallengeResult) error {
	query := `
		INSERT INTO challenge_results (
			id, challenge_id, player_id, score, duration_secs, is_perfect, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		result.ID,
		result.ChallengeID,
		result.PlayerID,
		result.Score,
		result.DurationSecs,
		result.IsPerfect,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert challenge result: %w", err)
	}

	return nil
}

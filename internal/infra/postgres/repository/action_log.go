package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aliskhannn/quran-quiz-bot/internal/infra/postgres"
)

// ActionLogRepository appends to the player action audit log.
type ActionLogRepository struct {
	db postgres.DBTX
}

// NewActionLogRepository creates a new ActionLogRepository with the provided database pool.
func NewActionLogRepository(db postgres.DBTX) *ActionLogRepository {
	return &ActionLogRepository{db: db}
}

// Log appends one action entry with its JSON details.
func (r *ActionLogRepository) Log(ctx context.Context, playerID int64, action string, details map[string]any) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal action details: %w", err)
	}

	query := `
		INSERT INTO player_actions (player_id, action, details, created_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.Exec(ctx, query, playerID, action, payload, time.Now()); err != nil {
		return fmt.Errorf("insert player action: %w", err)
	}

	return nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-quiz-bot/internal/infra/postgres"
)

// LiveEventRepository provides access to live event definitions.
type LiveEventRepository struct {
	db postgres.DBTX
}

// NewLiveEventRepository creates a new LiveEventRepository with the provided database pool.
func NewLiveEventRepository(db postgres.DBTX) *LiveEventRepository {
	return &LiveEventRepository{db: db}
}

// GetActive returns the events running at the given time.
func (r *LiveEventRepository) GetActive(ctx context.Context, at time.Time) ([]*entities.LiveEvent, error) {
	query := `
		SELECT id, name, reward_diamonds, starts_at, ends_at
		FROM live_events
		WHERE starts_at <= $1 AND ends_at > $1
		ORDER BY starts_at
	`

	rows, err := r.db.Query(ctx, query, at)
	if err != nil {
		return nil, fmt.Errorf("query live events: %w", err)
	}
	defer rows.Close()

	var events []*entities.LiveEvent
	for rows.Next() {
		var e entities.LiveEvent
		if err := rows.Scan(&e.ID, &e.Name, &e.RewardDiamonds, &e.StartsAt, &e.EndsAt); err != nil {
			return nil, fmt.Errorf("scan live event: %w", err)
		}
		events = append(events, &e)
	}

	return events, rows.Err()
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-quiz-bot/internal/infra/postgres"
)

// MasteryRepository tracks per-player page mastery: how many perfect
// runs a page has and the best (fastest) one.
type MasteryRepository struct {
	db postgres.DBTX
}

// NewMasteryRepository creates a new MasteryRepository with the provided database pool.
func NewMasteryRepository(db postgres.DBTX) *MasteryRepository {
	return &MasteryRepository{db: db}
}

// UpdateMasteryRecord upserts a perfect-run record for the page,
// keeping the shortest duration seen.
func (r *MasteryRepository) UpdateMasteryRecord(ctx context.Context, playerID int64, pageNumber, durationSecs int) error {
	query := `
		INSERT INTO mastery_records (player_id, page_number, perfect_runs, best_duration_secs, updated_at)
		VALUES ($1, $2, 1, $3, $4)
		ON CONFLICT (player_id, page_number) DO UPDATE SET
			perfect_runs = mastery_records.perfect_runs + 1,
			best_duration_secs = LEAST(mastery_records.best_duration_secs, EXCLUDED.best_duration_secs),
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query, playerID, pageNumber, durationSecs, time.Now())
	if err != nil {
		return fmt.Errorf("update mastery record: %w", err)
	}

	return nil
}

// GetByPlayer lists a player's mastery records ordered by page.
func (r *MasteryRepository) GetByPlayer(ctx context.Context, playerID int64) ([]*entities.MasteryRecord, error) {
	query := `
		SELECT player_id, page_number, perfect_runs, best_duration_secs, updated_at
		FROM mastery_records
		WHERE player_id = $1
		ORDER BY page_number
	`

	rows, err := r.db.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("query mastery records: %w", err)
	}
	defer rows.Close()

	var records []*entities.MasteryRecord
	for rows.Next() {
		var m entities.MasteryRecord
		if err := rows.Scan(&m.PlayerID, &m.PageNumber, &m.PerfectRuns, &m.BestDurationSecs, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan mastery record: %w", err)
		}
		records = append(records, &m)
	}

	return records, rows.Err()
}

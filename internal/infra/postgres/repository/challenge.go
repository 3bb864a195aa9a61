package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-quiz-bot/internal/infra/postgres"
)

// ChallengeRepository provides access to personal challenge definitions.
type ChallengeRepository struct {
	db postgres.DBTX
}

// NewChallengeRepository creates a new ChallengeRepository with the provided database pool.
func NewChallengeRepository(db postgres.DBTX) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// GetByID returns the challenge with the given ID, or nil when it does
// not exist or has expired.
func (r *ChallengeRepository) GetByID(ctx context.Context, id string) (*entities.Challenge, error) {
	query := `
		SELECT id, creator_id, page_number, total_questions, created_at, expires_at
		FROM challenges
		WHERE id = $1 AND expires_at > NOW()
	`

	var c entities.Challenge
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.CreatorID,
		&c.PageNumber,
		&c.TotalQuestions,
		&c.CreatedAt,
		&c.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get challenge: %w", err)
	}

	return &c, nil
}

// Create stores a new challenge.
func (r *ChallengeRepository) Create(ctx context.Context, c *entities.Challenge) error {
	query := `
		INSERT INTO challenges (id, creator_id, page_number, total_questions, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query, c.ID, c.CreatorID, c.PageNumber, c.TotalQuestions, c.CreatedAt, c.ExpiresAt)
	if err != nil {
		return fmt.Errorf("create challenge: %w", err)
	}

	return nil
}

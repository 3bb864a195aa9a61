package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-quiz-bot/internal/infra/postgres"
)

var ErrPlayerNotFound = errors.New("player not found")

// PlayerRepository provides access to player progress records.
type PlayerRepository struct {
	db postgres.DBTX
}

// NewPlayerRepository creates a new PlayerRepository with the provided database pool.
func NewPlayerRepository(db postgres.DBTX) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Get retrieves a player by ID. Returns ErrPlayerNotFound when absent.
func (r *PlayerRepository) Get(ctx context.Context, playerID int64) (*entities.Player, error) {
	query := `
		SELECT id, chat_id, username, xp, diamonds,
		       total_quizzes_completed, total_correct_answers,
		       total_questions_answered, total_play_time_seconds,
		       achievements, inventory, selected_qari,
		       created_at, last_login_at
		FROM players
		WHERE id = $1
	`

	var p entities.Player
	err := r.db.QueryRow(ctx, query, playerID).Scan(
		&p.ID,
		&p.ChatID,
		&p.Username,
		&p.XP,
		&p.Diamonds,
		&p.TotalQuizzesCompleted,
		&p.TotalCorrectAnswers,
		&p.TotalQuestionsAnswered,
		&p.TotalPlayTimeSeconds,
		&p.Achievements,
		&p.Inventory,
		&p.SelectedQari,
		&p.CreatedAt,
		&p.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("get player: %w", err)
	}

	return &p, nil
}

// Save inserts a new player or updates the full snapshot of an existing one.
func (r *PlayerRepository) Save(ctx context.Context, p *entities.Player) error {
	query := `
		INSERT INTO players (
			id, chat_id, username, xp, diamonds,
			total_quizzes_completed, total_correct_answers,
			total_questions_answered, total_play_time_seconds,
			achievements, inventory, selected_qari,
			created_at, last_login_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			chat_id = EXCLUDED.chat_id,
			username = EXCLUDED.username,
			xp = EXCLUDED.xp,
			diamonds = EXCLUDED.diamonds,
			total_quizzes_completed = EXCLUDED.total_quizzes_completed,
			total_correct_answers = EXCLUDED.total_correct_answers,
			total_questions_answered = EXCLUDED.total_questions_answered,
			total_play_time_seconds = EXCLUDED.total_play_time_seconds,
			achievements = EXCLUDED.achievements,
			inventory = EXCLUDED.inventory,
			selected_qari = EXCLUDED.selected_qari,
			last_login_at = EXCLUDED.last_login_at
	`

	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.ChatID,
		p.Username,
		p.XP,
		p.Diamonds,
		p.TotalQuizzesCompleted,
		p.TotalCorrectAnswers,
		p.TotalQuestionsAnswered,
		p.TotalPlayTimeSeconds,
		p.Achievements,
		p.Inventory,
		p.SelectedQari,
		p.CreatedAt,
		p.LastLoginAt,
	)
	if err != nil {
		return fmt.Errorf("save player: %w", err)
	}

	return nil
}

// Leaderboard returns the top players ordered by XP descending.
func (r *PlayerRepository) Leaderboard(ctx context.Context, limit int) ([]*entities.Player, error) {
	query := `
		SELECT id, username, xp, diamonds, total_quizzes_completed
		FROM players
		ORDER BY xp DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var players []*entities.Player
	for rows.Next() {
		var p entities.Player
		if err := rows.Scan(&p.ID, &p.Username, &p.XP, &p.Diamonds, &p.TotalQuizzesCompleted); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		players = append(players, &p)
	}

	return players, rows.Err()
}

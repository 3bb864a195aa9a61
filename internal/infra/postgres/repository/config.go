package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-quiz-bot/internal/infra/postgres"
)

// ErrConfigNotFound means the table holds no configuration row; callers
// fall back to the built-in defaults.
var ErrConfigNotFound = errors.New("configuration not found")

// ConfigRepository loads the externally managed rule tables: the
// progression ladder and the question type catalog.
type ConfigRepository struct {
	db postgres.DBTX
}

// NewConfigRepository creates a new ConfigRepository with the provided database pool.
func NewConfigRepository(db postgres.DBTX) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// GetProgressionConfig loads the progression ladder and game rules from
// the single settings row.
func (r *ConfigRepository) GetProgressionConfig(ctx context.Context) (*entities.ProgressionConfig, error) {
	query := `SELECT settings FROM progression_config WHERE id = 1`

	var raw []byte
	err := r.db.QueryRow(ctx, query).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("get progression config: %w", err)
	}

	var cfg entities.ProgressionConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal progression config: %w", err)
	}

	return &cfg, nil
}

// GetQuestionTypes loads the question catalog rows.
func (r *ConfigRepository) GetQuestionTypes(ctx context.Context) ([]entities.QuestionType, error) {
	query := `
		SELECT id, relation, modality, options_count, required_level
		FROM question_types
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query question types: %w", err)
	}
	defer rows.Close()

	var types []entities.QuestionType
	for rows.Next() {
		var qt entities.QuestionType
		if err := rows.Scan(&qt.ID, &qt.Relation, &qt.Modality, &qt.OptionsCount, &qt.RequiredLevel); err != nil {
			return nil, fmt.Errorf("scan question type: %w", err)
		}
		types = append(types, qt)
	}

	return types, rows.Err()
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-quiz-bot/internal/infra/postgres/repository"
)

// PlayerService loads player records and handles the daily login event,
// which is also an achievement trigger (level milestones fire on login).
type PlayerService struct {
	playerRepo   PlayerRepository
	masteryRepo  MasteryRepository
	achievements *AchievementService
	logger       *zap.Logger
}

// NewPlayerService creates the player service.
func NewPlayerService(
	playerRepo PlayerRepository,
	masteryRepo MasteryRepository,
	achievements *AchievementService,
	logger *zap.Logger,
) *PlayerService {
	return &PlayerService{
		playerRepo:   playerRepo,
		masteryRepo:  masteryRepo,
		achievements: achievements,
		logger:       logger,
	}
}

// EnsurePlayer returns the player record, creating it on first contact.
// Once per day it also fires the login achievement event.
func (s *PlayerService) EnsurePlayer(ctx context.Context, playerID, chatID int64, username string) (*entities.Player, error) {
	player, err := s.playerRepo.Get(ctx, playerID)
	if err != nil && !errors.Is(err, repository.ErrPlayerNotFound) {
		return nil, fmt.Errorf("load player: %w", err)
	}

	created := false
	if player == nil {
		player = entities.NewPlayer(playerID, chatID, username)
		created = true
	}

	now := time.Now()
	firstLoginToday := created || player.LastLoginAt.UTC().Truncate(24*time.Hour).Before(now.UTC().Truncate(24*time.Hour))
	player.LastLoginAt = now
	player.ChatID = chatID
	if username != "" {
		player.Username = username
	}

	if firstLoginToday {
		granted := s.achievements.Evaluate(entities.EventLogin, EventData{}, player)
		if len(granted) > 0 {
			s.logger.Info("login achievements granted",
				zap.Int64("player_id", playerID),
				zap.Int("count", len(granted)),
			)
		}
	}

	if err := s.playerRepo.Save(ctx, player); err != nil {
		return nil, fmt.Errorf("save player: %w", err)
	}

	return player, nil
}

// Get returns a player without login side effects.
func (s *PlayerService) Get(ctx context.Context, playerID int64) (*entities.Player, error) {
	return s.playerRepo.Get(ctx, playerID)
}

// Save writes the player snapshot back.
func (s *PlayerService) Save(ctx context.Context, player *entities.Player) error {
	return s.playerRepo.Save(ctx, player)
}

// Leaderboard returns the top players by XP.
func (s *PlayerService) Leaderboard(ctx context.Context, limit int) ([]*entities.Player, error) {
	return s.playerRepo.Leaderboard(ctx, limit)
}

// Mastery returns the player's per-page mastery records.
func (s *PlayerService) Mastery(ctx context.Context, playerID int64) ([]*entities.MasteryRecord, error) {
	return s.masteryRepo.GetByPlayer(ctx, playerID)
}

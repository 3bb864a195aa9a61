package service

import (
	"context"
	"time"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
)

// PlayerRepository persists player progress records.
type PlayerRepository interface {
	Get(ctx context.Context, playerID int64) (*entities.Player, error)
	Save(ctx context.Context, player *entities.Player) error
	Leaderboard(ctx context.Context, limit int) ([]*entities.Player, error)
}

// AyahRepository supplies already-fetched page content, ordered by
// original position, plus out-of-page ayahs for intruder questions.
type AyahRepository interface {
	GetPage(ctx context.Context, pageNumber int) ([]*entities.Ayah, error)
	GetIntruders(ctx context.Context, excludePage int, limit int) ([]*entities.Ayah, error)
	GetPageNumbers(ctx context.Context) ([]int, error)
}

// SettlementRepository writes a settled session result together with
// the updated player snapshot.
type SettlementRepository interface {
	SaveSettlement(ctx context.Context, player *entities.Player, result *entities.SessionResult) error
	SaveChallengeResult(ctx context.Context, result *entities.ChallengeResult) error
}

// MasteryRepository records per-page mastery (best perfect-run duration).
type MasteryRepository interface {
	UpdateMasteryRecord(ctx context.Context, playerID int64, pageNumber, durationSecs int) error
	GetByPlayer(ctx context.Context, playerID int64) ([]*entities.MasteryRecord, error)
}

// ActionLogRepository appends to the player action audit log.
type ActionLogRepository interface {
	Log(ctx context.Context, playerID int64, action string, details map[string]any) error
}

// QuestRepository persists daily quest definitions and per-player progress.
type QuestRepository interface {
	GetDailyQuests(ctx context.Context) ([]*entities.Quest, error)
	GetPlayerQuest(ctx context.Context, playerID, questID int64, day time.Time) (*entities.PlayerQuest, error)
	UpsertPlayerQuest(ctx context.Context, pq *entities.PlayerQuest) error
}

// LiveEventRepository loads live event definitions.
type LiveEventRepository interface {
	GetActive(ctx context.Context, at time.Time) ([]*entities.LiveEvent, error)
}

// ChallengeRepository stores and loads personal challenge definitions.
type ChallengeRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Challenge, error)
	Create(ctx context.Context, c *entities.Challenge) error
}

// ConfigRepository loads the externally managed rule tables.
type ConfigRepository interface {
	GetProgressionConfig(ctx context.Context) (*entities.ProgressionConfig, error)
	GetQuestionTypes(ctx context.Context) ([]entities.QuestionType, error)
}

// QuestProgress is the quest collaborator the quiz engine notifies.
// Returned quests are the ones completed by this update.
type QuestProgress interface {
	UpdateProgress(ctx context.Context, player *entities.Player, event string) ([]*entities.Quest, error)
}

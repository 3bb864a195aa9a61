package telegram

import (
	"context"
	"time"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-quiz-bot/internal/service"
	"github.com/aliskhannn/quran-quiz-bot/internal/storage"
)

type PlayerService interface {
	EnsurePlayer(ctx context.Context, playerID, chatID int64, username string) (*entities.Player, error)
	Get(ctx context.Context, playerID int64) (*entities.Player, error)
	Save(ctx context.Context, player *entities.Player) error
	Leaderboard(ctx context.Context, limit int) ([]*entities.Player, error)
	Mastery(ctx context.Context, playerID int64) ([]*entities.MasteryRecord, error)
}

type QuizService interface {
	Start(ctx context.Context, player *entities.Player, params service.StartParams) (*entities.QuizSession, error)
	NextQuestion(ctx context.Context, session *entities.QuizSession, player *entities.Player) (*entities.QuestionInstance, error)
	Answer(session *entities.QuizSession, q *entities.QuestionInstance, selectedIndex int) (*entities.Feedback, error)
	Finish(ctx context.Context, session *entities.QuizSession, player *entities.Player) (*entities.SessionResult, error)
	CreateChallenge(ctx context.Context, player *entities.Player, pageNumber int) (*entities.Challenge, error)
	FeedbackDelay() time.Duration
}

type AyahService interface {
	GetPageNumbers(ctx context.Context) ([]int, error)
}

type LiveEventService interface {
	Current() *entities.LiveEvent
}

type ProgressionService interface {
	LevelInfo(xp int) entities.LevelInfo
}

type SessionStorage interface {
	Store(chatID int64, quiz *storage.ActiveQuiz)
	Get(chatID int64) *storage.ActiveQuiz
	Delete(chatID int64)
}

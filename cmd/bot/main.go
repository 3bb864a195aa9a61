package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/aliskhannn/quran-quiz-bot/internal/config"
	"github.com/aliskhannn/quran-quiz-bot/internal/delivery/telegram"
	"github.com/aliskhannn/quran-quiz-bot/internal/infra/postgres"
	"github.com/aliskhannn/quran-quiz-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/quran-quiz-bot/internal/logger"
	"github.com/aliskhannn/quran-quiz-bot/internal/service"
	"github.com/aliskhannn/quran-quiz-bot/internal/storage"
)

func main() {
	// Load .env for local runs; in deployed environments the variables
	// come from the process environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		zl.Fatal("telegram api init failed", zap.Error(err))
	}

	commands := []tgbotapi.BotCommand{
		{Command: "quiz", Description: "بدء اختبار على صفحة من المصحف"},
		{Command: "challenge", Description: "خوض تحدٍ شخصي"},
		{Command: "profile", Description: "عرض الملف الشخصي والتقدم"},
		{Command: "qari", Description: "اختيار القارئ"},
		{Command: "top", Description: "لوحة الصدارة"},
		{Command: "help", Description: "المساعدة"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		zl.Warn("failed to set bot commands", zap.Error(err))
	}

	zl.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB.URL, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		zl.Fatal("postgres pool init failed", zap.Error(err))
	}
	defer pool.Close()

	transactor := postgres.NewTransactor(pool)

	playerRepo := repository.NewPlayerRepository(pool)
	ayahRepo := repository.NewAyahRepository(pool)
	settlementRepo := repository.NewSettlementRepository(pool, transactor)
	masteryRepo := repository.NewMasteryRepository(pool)
	actionRepo := repository.NewActionLogRepository(pool)
	questRepo := repository.NewQuestRepository(pool)
	liveEventRepo := repository.NewLiveEventRepository(pool)
	challengeRepo := repository.NewChallengeRepository(pool)
	configRepo := repository.NewConfigRepository(pool)

	// Rule tables live in the database; built-in defaults cover a
	// fresh installation.
	progressionCfg := service.DefaultProgressionConfig()
	if dbCfg, err := configRepo.GetProgressionConfig(ctx); err == nil {
		progressionCfg = *dbCfg
	} else if !errors.Is(err, repository.ErrConfigNotFound) {
		zl.Fatal("load progression config failed", zap.Error(err))
	}

	questionTypes := service.DefaultQuestionTypes()
	if dbTypes, err := configRepo.GetQuestionTypes(ctx); err == nil {
		questionTypes = dbTypes
	} else if !errors.Is(err, repository.ErrConfigNotFound) {
		zl.Fatal("load question types failed", zap.Error(err))
	}

	progression, err := service.NewProgression(progressionCfg)
	if err != nil {
		zl.Fatal("invalid progression config", zap.Error(err))
	}
	catalog, err := service.NewCatalog(questionTypes)
	if err != nil {
		zl.Fatal("invalid question type catalog", zap.Error(err))
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	achievements := service.NewAchievementService(service.DefaultAchievementRules(), progression, zl)
	quests := service.NewQuestService(questRepo, zl)
	playerService := service.NewPlayerService(playerRepo, masteryRepo, achievements, zl)
	ayahService := service.NewAyahService(ayahRepo)

	events := service.NewLiveEventService(liveEventRepo, zl)
	if err := events.Start(ctx); err != nil {
		zl.Fatal("live event refresh init failed", zap.Error(err))
	}

	quizService := service.NewQuizService(
		service.QuizConfig{
			TotalQuestions: cfg.Quiz.TotalQuestions,
			MaxAttempts:    cfg.Quiz.MaxAttempts,
			IntruderPool:   cfg.Quiz.IntruderPool,
			DefaultQari:    cfg.Quiz.DefaultQari,
			FeedbackDelay:  cfg.Quiz.FeedbackDelay,
		},
		catalog,
		progression,
		achievements,
		ayahRepo,
		settlementRepo,
		masteryRepo,
		actionRepo,
		challengeRepo,
		quests,
		rng,
		zl,
	)

	sessions := storage.NewSessionStorage()

	handler := telegram.NewHandler(
		bot,
		zl,
		playerService,
		quizService,
		ayahService,
		events,
		progression,
		sessions,
		cfg.Quiz.Leaderboard,
	)
	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zl.Fatal("handler stopped", zap.Error(err))
	}

	zl.Info("shutdown complete")
}

package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
)

var (
	// ErrSessionComplete means every planned question has been asked;
	// the caller should settle the session.
	ErrSessionComplete = errors.New("quiz session complete")

	// ErrNoEligibleQuestions means no question could be generated for
	// this player and pool: the catalog is empty at the player's level
	// or the retry budget ran out. The session ends early but normally.
	ErrNoEligibleQuestions = errors.New("no eligible question could be generated")

	ErrSessionNotActive   = errors.New("quiz session is not active")
	ErrSessionSettled     = errors.New("quiz session already settled")
	ErrEmptyPage          = errors.New("page has no ayahs")
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrInvalidOptionIndex = errors.New("selected option index out of range")
)

// QuizConfig tunes one engine instance. FeedbackDelay is the pause the
// presentation layer should hold between feedback and the next
// question; the engine only carries the value.
type QuizConfig struct {
	TotalQuestions int
	MaxAttempts    int    // generation retry budget per question
	IntruderPool   int    // how many out-of-page ayahs to load per session
	DefaultQari    string // recitation used when the player has not picked one
	FeedbackDelay  time.Duration
}

// StartParams describes the session being requested.
type StartParams struct {
	ChatID      int64
	Mode        entities.SessionMode
	PageNumber  int
	Qari        string
	LiveEvent   *entities.LiveEvent // live-event sessions only
	ChallengeID string              // personal-challenge sessions only
}

// QuizService is the session engine: it owns question selection,
// bounded-retry generation, scoring and end-of-session settlement.
type QuizService struct {
	cfg          QuizConfig
	catalog      *Catalog
	generator    *Generator
	progression  *Progression
	achievements *AchievementService

	ayahRepo       AyahRepository
	settlementRepo SettlementRepository
	masteryRepo    MasteryRepository
	actionRepo     ActionLogRepository
	challengeRepo  ChallengeRepository
	quests         QuestProgress

	rng    *rand.Rand
	logger *zap.Logger
}

// NewQuizService wires the engine. The random source is shared with the
// generator so a seeded source makes whole sessions deterministic.
func NewQuizService(
	cfg QuizConfig,
	catalog *Catalog,
	progression *Progression,
	achievements *AchievementService,
	ayahRepo AyahRepository,
	settlementRepo SettlementRepository,
	masteryRepo MasteryRepository,
	actionRepo ActionLogRepository,
	challengeRepo ChallengeRepository,
	quests QuestProgress,
	rng *rand.Rand,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		cfg:            cfg,
		catalog:        catalog,
		generator:      NewGenerator(rng),
		progression:    progression,
		achievements:   achievements,
		ayahRepo:       ayahRepo,
		settlementRepo: settlementRepo,
		masteryRepo:    masteryRepo,
		actionRepo:     actionRepo,
		challengeRepo:  challengeRepo,
		quests:         quests,
		rng:            rng,
		logger:         logger,
	}
}

// FeedbackDelay is how long the presenter should display feedback
// before advancing. Configurable, never hard-coded in the flow.
func (s *QuizService) FeedbackDelay() time.Duration {
	return s.cfg.FeedbackDelay
}

// challengeTTL is how long an issued challenge stays playable.
const challengeTTL = 7 * 24 * time.Hour

// CreateChallenge issues a personal challenge on the given page that
// other players can take by ID until it expires.
func (s *QuizService) CreateChallenge(ctx context.Context, player *entities.Player, pageNumber int) (*entities.Challenge, error) {
	ayahs, err := s.ayahRepo.GetPage(ctx, pageNumber)
	if err != nil {
		return nil, fmt.Errorf("load page %d: %w", pageNumber, err)
	}
	if len(ayahs) == 0 {
		return nil, ErrEmptyPage
	}

	now := time.Now()
	challenge := &entities.Challenge{
		ID:             uuid.NewString(),
		CreatorID:      player.ID,
		PageNumber:     pageNumber,
		TotalQuestions: s.cfg.TotalQuestions,
		CreatedAt:      now,
		ExpiresAt:      now.Add(challengeTTL),
	}
	if err := s.challengeRepo.Create(ctx, challenge); err != nil {
		return nil, fmt.Errorf("create challenge: %w", err)
	}

	s.logger.Info("challenge created",
		zap.String("challenge_id", challenge.ID),
		zap.Int64("creator_id", player.ID),
		zap.Int("page", pageNumber),
	)
	return challenge, nil
}

// Start builds a fresh session: loads the page and intruder pools,
// clamps the question count to the player's level, stamps the start
// time and returns the session in Running state.
func (s *QuizService) Start(ctx context.Context, player *entities.Player, params StartParams) (*entities.QuizSession, error) {
	pageNumber := params.PageNumber
	totalQuestions := s.cfg.TotalQuestions

	if params.Mode == entities.ModePersonalChallenge {
		challenge, err := s.challengeRepo.GetByID(ctx, params.ChallengeID)
		if err != nil {
			return nil, fmt.Errorf("load challenge: %w", err)
		}
		if challenge == nil {
			return nil, ErrChallengeNotFound
		}
		pageNumber = challenge.PageNumber
		totalQuestions = challenge.TotalQuestions
	}

	pageAyahs, err := s.ayahRepo.GetPage(ctx, pageNumber)
	if err != nil {
		return nil, fmt.Errorf("load page %d: %w", pageNumber, err)
	}
	if len(pageAyahs) == 0 {
		return nil, ErrEmptyPage
	}

	intruders, err := s.ayahRepo.GetIntruders(ctx, pageNumber, s.cfg.IntruderPool)
	if err != nil {
		// Intruder questions just become ungeneratable; the session
		// can still run on neighbor questions.
		s.logger.Warn("failed to load intruder pool",
			zap.Int("page", pageNumber), zap.Error(err))
		intruders = nil
	}

	level := s.progression.LevelInfo(player.XP).Level
	if limit := s.progression.MaxQuestionsForLevel(level); totalQuestions > limit && params.Mode != entities.ModePersonalChallenge {
		totalQuestions = limit
	}

	session := entities.NewQuizSession(player.ID, params.ChatID, totalQuestions, params.Mode)
	session.PageAyahs = pageAyahs
	session.IntruderAyahs = intruders
	session.PageNumber = pageNumber
	session.LiveEvent = params.LiveEvent
	session.ChallengeID = params.ChallengeID
	if params.Qari != "" {
		session.Qari = params.Qari
	} else if player.SelectedQari != "" {
		session.Qari = player.SelectedQari
	} else if s.cfg.DefaultQari != "" {
		session.Qari = s.cfg.DefaultQari
	}

	s.logger.Info("quiz session started",
		zap.String("session_id", session.ID),
		zap.Int64("player_id", player.ID),
		zap.String("mode", string(session.Mode)),
		zap.Int("page", pageNumber),
		zap.Int("total_questions", totalQuestions),
	)

	return session, nil
}

// NextQuestion advances the session to its next question. It filters
// the catalog by the player's level, shuffles the eligible types and
// walks them by index modulo for up to MaxAttempts generation tries.
// ErrSessionComplete means the planned question count was reached;
// ErrNoEligibleQuestions means the session must end early.
func (s *QuizService) NextQuestion(ctx context.Context, session *entities.QuizSession, player *entities.Player) (*entities.QuestionInstance, error) {
	if session.Status != entities.StatusActive {
		return nil, ErrSessionNotActive
	}
	if session.CurrentQuestionIndex >= session.TotalQuestions {
		return nil, ErrSessionComplete
	}

	level := s.progression.LevelInfo(player.XP).Level
	eligible := s.catalog.EligibleFor(level)
	if len(eligible) == 0 {
		session.EndedEarly = true
		return nil, ErrNoEligibleQuestions
	}

	s.rng.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		qt := eligible[attempt%len(eligible)]

		q, err := s.generator.Generate(qt, session.PageAyahs, session.IntruderAyahs, session.Qari)
		if err != nil {
			if errors.Is(err, ErrInsufficientPool) {
				continue // recoverable: try another shape
			}
			return nil, fmt.Errorf("generate %s: %w", qt.ID, err)
		}

		session.CurrentQuestionIndex++
		return q, nil
	}

	s.logger.Warn("generation retry budget exhausted",
		zap.String("session_id", session.ID),
		zap.Int("attempts", s.cfg.MaxAttempts),
	)
	session.EndedEarly = true
	return nil, ErrNoEligibleQuestions
}

// Answer scores the player's selection for the given question. Correct
// answers earn the per-correct XP from the game rules; wrong answers
// append to the error log. The engine never touches persistent state
// here, only the session.
func (s *QuizService) Answer(
	session *entities.QuizSession,
	q *entities.QuestionInstance,
	selectedIndex int,
) (*entities.Feedback, error) {
	if session.Status != entities.StatusActive {
		return nil, ErrSessionNotActive
	}
	if selectedIndex < 0 || selectedIndex >= len(q.Options) {
		return nil, ErrInvalidOptionIndex
	}

	correct := q.IsCorrect(selectedIndex)
	if correct {
		session.Score++
		session.XPEarned += s.progression.Rules().XPPerCorrectAnswer
	} else {
		session.ErrorLog = append(session.ErrorLog, entities.ErrorLogEntry{
			QuestionTypeID: q.TypeID,
			Prompt:         promptSnapshot(q),
			CorrectAnswer:  q.CorrectAnswer,
		})
	}
	session.QuestionsAnswered++

	return &entities.Feedback{
		Correct:       correct,
		CorrectAnswer: q.CorrectAnswer,
		QuizFinished:  session.CurrentQuestionIndex >= session.TotalQuestions,
	}, nil
}

// Finish runs end-of-session settlement exactly once. For normal and
// live-event sessions it applies aggregates, bonuses, level-ups, quest
// and achievement updates, then writes the result and player snapshot.
// Personal challenges only produce a challenge record. Persistence
// failures are logged and reported but the in-memory player mutations
// are not rolled back.
func (s *QuizService) Finish(ctx context.Context, session *entities.QuizSession, player *entities.Player) (*entities.SessionResult, error) {
	if !session.BeginSettle() {
		return nil, ErrSessionSettled
	}

	now := time.Now()
	duration := session.Duration(now)
	isPerfect := session.IsPerfect()

	result := &entities.SessionResult{
		SessionID:      session.ID,
		PlayerID:       session.PlayerID,
		PageNumber:     session.PageNumber,
		Score:          session.Score,
		TotalQuestions: session.TotalQuestions,
		ErrorLog:       session.ErrorLog,
		DurationSecs:   duration,
		IsPerfect:      isPerfect,
		EndedEarly:     session.EndedEarly,
	}

	if session.Mode == entities.ModePersonalChallenge {
		// Challenges never grant achievements, quests or aggregates.
		result.XPEarned = session.XPEarned
		challengeResult := entities.NewChallengeResult(session, now)
		if err := s.settlementRepo.SaveChallengeResult(ctx, challengeResult); err != nil {
			s.logger.Error("save challenge result",
				zap.String("challenge_id", session.ChallengeID), zap.Error(err))
			return result, fmt.Errorf("save challenge result: %w", err)
		}
		return result, nil
	}

	rules := s.progression.Rules()

	player.TotalQuizzesCompleted++
	player.TotalPlayTimeSeconds += duration
	player.TotalCorrectAnswers += session.Score
	player.TotalQuestionsAnswered += session.TotalQuestions

	if isPerfect {
		session.XPEarned += rules.XPBonusAllCorrect

		if session.LiveEvent != nil {
			player.Diamonds += session.LiveEvent.RewardDiamonds
		}

		if session.PageNumber > 0 {
			// Fire-and-forget: mastery is a record, not a dependency.
			if err := s.masteryRepo.UpdateMasteryRecord(ctx, player.ID, session.PageNumber, duration); err != nil {
				s.logger.Error("update mastery record",
					zap.Int("page", session.PageNumber), zap.Error(err))
			}
		}

		if _, err := s.quests.UpdateProgress(ctx, player, entities.EventMasteryCheck); err != nil {
			s.logger.Error("update quest progress",
				zap.String("event", entities.EventMasteryCheck), zap.Error(err))
		}
	}

	oldXP := player.XP
	player.XP += session.XPEarned
	result.XPEarned = session.XPEarned
	result.LevelUp = s.progression.CheckForLevelUp(oldXP, player.XP)
	if result.LevelUp != nil {
		player.Diamonds += result.LevelUp.RewardDiamonds
	}

	if _, err := s.quests.UpdateProgress(ctx, player, entities.EventQuizCompleted); err != nil {
		s.logger.Error("update quest progress",
			zap.String("event", entities.EventQuizCompleted), zap.Error(err))
	}

	result.Achievements = s.achievements.Evaluate(entities.EventQuizCompleted, EventData{
		IsPerfect:  &isPerfect,
		PageNumber: session.PageNumber,
	}, player)

	var saveErr error
	if err := s.settlementRepo.SaveSettlement(ctx, player, result); err != nil {
		// Already-applied optimistic update: the player keeps their
		// in-memory progress, the caller learns about the failure.
		s.logger.Error("save settlement",
			zap.String("session_id", session.ID), zap.Error(err))
		saveErr = fmt.Errorf("save settlement: %w", err)
	}

	if err := s.actionRepo.Log(ctx, player.ID, "QUIZ_COMPLETED", map[string]any{
		"page_number":     session.PageNumber,
		"score":           session.Score,
		"total_questions": session.TotalQuestions,
		"xp_earned":       session.XPEarned,
		"duration_secs":   duration,
		"is_perfect":      isPerfect,
	}); err != nil {
		s.logger.Error("log player action", zap.Error(err))
	}

	s.logger.Info("quiz session settled",
		zap.String("session_id", session.ID),
		zap.Int64("player_id", player.ID),
		zap.Int("score", session.Score),
		zap.Int("xp_earned", session.XPEarned),
		zap.Bool("perfect", isPerfect),
		zap.Bool("ended_early", session.EndedEarly),
	)

	return result, saveErr
}

// promptSnapshot captures the presented question for the error review.
func promptSnapshot(q *entities.QuestionInstance) string {
	if q.PromptText != "" {
		return q.PromptText
	}
	return q.PromptAudio
}

package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-quiz-bot/internal/service"
	"github.com/aliskhannn/quran-quiz-bot/internal/storage"
)

// handleQuizCommand starts a quiz on the requested page, or shows the
// page picker when no page was given.
func (h *Handler) handleQuizCommand(ctx context.Context, chatID int64, player *entities.Player, args string) {
	if args == "" {
		h.sendPagePicker(ctx, chatID)
		return
	}

	page, err := strconv.Atoi(args)
	if err != nil || page < 1 {
		h.sendText(chatID, msgNoPagesAvailable)
		return
	}

	h.startQuiz(ctx, chatID, player, page)
}

// sendPagePicker offers the pages a quiz can be started on.
func (h *Handler) sendPagePicker(ctx context.Context, chatID int64) {
	pages, err := h.ayahService.GetPageNumbers(ctx)
	if err != nil {
		h.logger.Error("load page numbers", zap.Error(err))
		h.sendText(chatID, msgInternalError)
		return
	}
	if len(pages) == 0 {
		h.sendText(chatID, msgNoPagesAvailable)
		return
	}

	_ = h.send(newPageKeyboardMessage(chatID, pages))
}

func (h *Handler) startQuiz(ctx context.Context, chatID int64, player *entities.Player, page int) {
	params := service.StartParams{
		ChatID:     chatID,
		Mode:       entities.ModeNormalTest,
		PageNumber: page,
		Qari:       player.SelectedQari,
	}
	if event := h.events.Current(); event != nil {
		params.Mode = entities.ModeLiveEvent
		params.LiveEvent = event
	}

	session, err := h.quizService.Start(ctx, player, params)
	if err != nil {
		h.logger.Error("start quiz", zap.Int("page", page), zap.Error(err))
		h.sendText(chatID, msgInternalError)
		return
	}

	active := &storage.ActiveQuiz{Session: session}
	h.sessions.Store(chatID, active)

	if params.LiveEvent != nil {
		h.sendText(chatID, fmt.Sprintf("🎉 حدث مباشر: %s — أكمل الاختبار بدون أخطاء واربح %d 💎",
			params.LiveEvent.Name, params.LiveEvent.RewardDiamonds))
	}

	h.presentNextQuestion(ctx, chatID, active)
}

// handleChallengeCommand starts a personal-challenge session, or issues
// a new challenge with "/challenge new <page>". Challenge results never
// touch aggregates, quests or achievements.
func (h *Handler) handleChallengeCommand(ctx context.Context, chatID int64, player *entities.Player, args string) {
	if args == "" {
		h.sendText(chatID, msgChallengeUsage)
		return
	}

	if page, ok := strings.CutPrefix(args, "new "); ok {
		h.createChallenge(ctx, chatID, player, strings.TrimSpace(page))
		return
	}

	session, err := h.quizService.Start(ctx, player, service.StartParams{
		ChatID:      chatID,
		Mode:        entities.ModePersonalChallenge,
		ChallengeID: args,
		Qari:        player.SelectedQari,
	})
	if err != nil {
		if errors.Is(err, service.ErrChallengeNotFound) {
			h.sendText(chatID, msgChallengeNotFound)
			return
		}
		h.logger.Error("start challenge", zap.String("challenge_id", args), zap.Error(err))
		h.sendText(chatID, msgInternalError)
		return
	}

	active := &storage.ActiveQuiz{Session: session}
	h.sessions.Store(chatID, active)
	h.presentNextQuestion(ctx, chatID, active)
}

func (h *Handler) createChallenge(ctx context.Context, chatID int64, player *entities.Player, args string) {
	page, err := strconv.Atoi(args)
	if err != nil || page < 1 {
		h.sendText(chatID, msgChallengeUsage)
		return
	}

	challenge, err := h.quizService.CreateChallenge(ctx, player, page)
	if err != nil {
		if errors.Is(err, service.ErrEmptyPage) {
			h.sendText(chatID, msgNoPagesAvailable)
			return
		}
		h.logger.Error("create challenge", zap.Int("page", page), zap.Error(err))
		h.sendText(chatID, msgInternalError)
		return
	}

	h.sendText(chatID, fmt.Sprintf(msgChallengeCreatedFormat, challenge.PageNumber, challenge.ID))
}

// presentNextQuestion advances the active session and renders the next
// question, or finishes the quiz when no question can follow. It takes
// the quiz it was scheduled for so a delayed advance does nothing once
// the chat has moved on to another session.
func (h *Handler) presentNextQuestion(ctx context.Context, chatID int64, active *storage.ActiveQuiz) {
	if h.sessions.Get(chatID) != active {
		return
	}

	player, err := h.playerService.Get(ctx, active.Session.PlayerID)
	if err != nil {
		h.logger.Error("load player for next question", zap.Error(err))
		h.sendText(chatID, msgInternalError)
		return
	}

	active.Lock()
	defer active.Unlock()

	q, err := h.quizService.NextQuestion(ctx, active.Session, player)
	switch {
	case err == nil:
		active.Question = q
		h.sendQuestion(chatID, active.Session, q)
	case errors.Is(err, service.ErrSessionComplete):
		h.finishQuiz(ctx, chatID, active.Session, player)
	case errors.Is(err, service.ErrNoEligibleQuestions):
		// Catalog dried up: the session ends early but normally.
		h.sendText(chatID, msgNoAvailableQuestions)
		h.finishQuiz(ctx, chatID, active.Session, player)
	default:
		h.logger.Error("generate next question", zap.Error(err))
		h.sendText(chatID, msgGenerationFailed)
		h.finishQuiz(ctx, chatID, active.Session, player)
	}
}

// finishQuiz settles the session and reports the outcome. The caller
// must hold the quiz lock.
func (h *Handler) finishQuiz(ctx context.Context, chatID int64, session *entities.QuizSession, player *entities.Player) {
	defer h.sessions.Delete(chatID)

	result, err := h.quizService.Finish(ctx, session, player)
	if errors.Is(err, service.ErrSessionSettled) {
		// Another finisher got here first; it already reported.
		return
	}
	if err != nil && result == nil {
		h.logger.Error("finish quiz", zap.String("session_id", session.ID), zap.Error(err))
		h.sendText(chatID, msgInternalError)
		return
	}
	if err != nil {
		// Persistence failed but the in-memory result stands; the
		// player still sees their outcome.
		h.logger.Error("settlement persistence failed", zap.Error(err))
	}

	if session.Mode == entities.ModePersonalChallenge {
		h.sendText(chatID, msgChallengeSaved)
		h.sendText(chatID, renderChallengeResult(result))
		return
	}

	_ = h.send(newResultMessage(chatID, result, h.progression.LevelInfo(player.XP)))

	if len(result.ErrorLog) > 0 {
		h.sendText(chatID, renderErrorReview(result.ErrorLog))
	}
}

// handleProfileCommand shows the player's level, XP, aggregates and
// mastered pages.
func (h *Handler) handleProfileCommand(ctx context.Context, chatID int64, player *entities.Player) {
	info := h.progression.LevelInfo(player.XP)

	var b strings.Builder
	fmt.Fprintf(&b, "👤 %s\n\n", player.Username)
	fmt.Fprintf(&b, "⭐ المستوى: %d\n", info.Level)
	fmt.Fprintf(&b, "✨ نقاط الخبرة: %d", player.XP)
	if info.XPForNextLevel > 0 {
		fmt.Fprintf(&b, " (%d/%d للمستوى التالي)", info.XPIntoLevel, info.XPForNextLevel)
	}
	fmt.Fprintf(&b, "\n💎 الجواهر: %d\n\n", player.Diamonds)
	fmt.Fprintf(&b, "📊 الاختبارات المكتملة: %d\n", player.TotalQuizzesCompleted)
	fmt.Fprintf(&b, "✅ الإجابات الصحيحة: %d/%d\n", player.TotalCorrectAnswers, player.TotalQuestionsAnswered)
	fmt.Fprintf(&b, "🏆 الإنجازات: %d\n", len(player.Achievements))
	fmt.Fprintf(&b, "🎙 القارئ: %s", qariDisplayName(player.SelectedQari))

	records, err := h.playerService.Mastery(ctx, player.ID)
	if err != nil {
		h.logger.Error("load mastery records", zap.Error(err))
	} else if len(records) > 0 {
		fmt.Fprintf(&b, "\n\n📖 الصفحات المتقنة: %d\n", len(records))
		for _, m := range records {
			fmt.Fprintf(&b, "— صفحة %d: %d مرات، أفضل زمن %d ثانية\n",
				m.PageNumber, m.PerfectRuns, m.BestDurationSecs)
		}
	}

	h.sendText(chatID, b.String())
}

// handleTopCommand shows the XP leaderboard.
func (h *Handler) handleTopCommand(ctx context.Context, chatID int64) {
	players, err := h.playerService.Leaderboard(ctx, h.leaderboardSize)
	if err != nil {
		h.logger.Error("load leaderboard", zap.Error(err))
		h.sendText(chatID, msgInternalError)
		return
	}

	var b strings.Builder
	b.WriteString("🏆 لوحة الصدارة\n\n")
	for i, p := range players {
		fmt.Fprintf(&b, "%d. %s — %d ✨\n", i+1, p.Username, p.XP)
	}

	h.sendText(chatID, b.String())
}

package telegram

import (
	"context"
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/quran-quiz-bot/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Acknowledge immediately so the client stops its spinner.
	if _, err := h.bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		h.logger.Warn("answer callback failed", zap.Error(err))
	}

	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	player, err := h.playerService.EnsurePlayer(ctx, cb.From.ID, chatID, cb.From.UserName)
	if err != nil {
		h.logger.Error("ensure player failed", zap.Int64("user_id", cb.From.ID), zap.Error(err))
		h.sendText(chatID, msgInternalError)
		return
	}

	data := parseCallbackData(cb.Data)
	if len(data.Params) == 0 {
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		return
	}

	if data.Action == actionQari {
		h.handleQariCallback(ctx, chatID, player, data.Params[0])
		return
	}
	if data.Action != actionQuiz {
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		return
	}

	switch data.Params[0] {
	case quizStart:
		h.sendPagePicker(ctx, chatID)
	case quizPage:
		page, ok := data.intParam(1)
		if !ok {
			return
		}
		h.startQuiz(ctx, chatID, player, page)
	case quizAnswer:
		index, ok := data.intParam(1)
		if !ok {
			return
		}
		h.handleAnswer(ctx, cb, chatID, index)
	case quizStop:
		h.handleStop(ctx, chatID)
	default:
		h.logger.Debug("unknown quiz callback", zap.String("data", cb.Data))
	}
}

// handleAnswer grades the selected option, shows feedback and, after
// the configured settle delay, advances to the next question.
func (h *Handler) handleAnswer(ctx context.Context, cb *tgbotapi.CallbackQuery, chatID int64, index int) {
	active := h.sessions.Get(chatID)
	if active == nil {
		h.sendText(chatID, msgNoActiveQuiz)
		return
	}

	active.Lock()
	question := active.Question
	if question == nil {
		active.Unlock()
		h.sendText(chatID, msgNoActiveQuiz)
		return
	}

	feedback, err := h.quizService.Answer(active.Session, question, index)
	if err != nil {
		active.Unlock()
		if errors.Is(err, service.ErrInvalidOptionIndex) {
			h.logger.Warn("answer index out of range",
				zap.Int64("chat_id", chatID), zap.Int("index", index))
			return
		}
		h.logger.Error("grade answer", zap.Error(err))
		h.sendText(chatID, msgInternalError)
		return
	}

	// The question is consumed; a stale tap must not grade twice.
	active.Question = nil
	active.Unlock()

	// Freeze the keyboard on the answered question.
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, cb.Message.MessageID,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
	if _, err := h.bot.Request(edit); err != nil {
		h.logger.Debug("remove keyboard failed", zap.Error(err))
	}

	h.sendText(chatID, renderFeedback(feedback))

	// Give the player a moment to read the feedback before advancing.
	time.AfterFunc(h.quizService.FeedbackDelay(), func() {
		h.presentNextQuestion(ctx, chatID, active)
	})
}

// handleStop ends the active session early and settles whatever was
// answered so far.
func (h *Handler) handleStop(ctx context.Context, chatID int64) {
	active := h.sessions.Get(chatID)
	if active == nil {
		h.sendText(chatID, msgNoActiveQuiz)
		return
	}

	player, err := h.playerService.Get(ctx, active.Session.PlayerID)
	if err != nil {
		h.logger.Error("load player for stop", zap.Error(err))
		h.sessions.Delete(chatID)
		h.sendText(chatID, msgInternalError)
		return
	}

	active.Lock()
	defer active.Unlock()

	active.Session.EndedEarly = true
	h.sendText(chatID, msgQuizStopped)
	h.finishQuiz(ctx, chatID, active.Session, player)
}

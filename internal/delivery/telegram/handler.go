package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handler struct {
	bot    *tgbotapi.BotAPI
	logger *zap.Logger

	playerService PlayerService
	quizService   QuizService
	ayahService   AyahService
	events        LiveEventService
	progression   ProgressionService
	sessions      SessionStorage

	leaderboardSize int
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	playerService PlayerService,
	quizService QuizService,
	ayahService AyahService,
	events LiveEventService,
	progression ProgressionService,
	sessions SessionStorage,
	leaderboardSize int,
) *Handler {
	return &Handler{
		bot:             bot,
		logger:          logger,
		playerService:   playerService,
		quizService:     quizService,
		ayahService:     ayahService,
		events:          events,
		progression:     progression,
		sessions:        sessions,
		leaderboardSize: leaderboardSize,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	msg := update.Message
	chatID := msg.Chat.ID

	// Every message ensures the player record exists; first contact of
	// the day also fires the login achievement event.
	player, err := h.playerService.EnsurePlayer(ctx, msg.From.ID, chatID, msg.From.UserName)
	if err != nil {
		h.logger.Error("ensure player failed", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		h.sendText(chatID, msgInternalError)
		return
	}

	if !msg.IsCommand() {
		h.sendText(chatID, msgUnknownCommand)
		return
	}

	switch msg.Command() {
	case "start":
		h.sendText(chatID, msgWelcome)
	case "help":
		h.sendText(chatID, msgHelp)
	case "quiz":
		h.handleQuizCommand(ctx, chatID, player, strings.TrimSpace(msg.CommandArguments()))
	case "challenge":
		h.handleChallengeCommand(ctx, chatID, player, strings.TrimSpace(msg.CommandArguments()))
	case "profile":
		h.handleProfileCommand(ctx, chatID, player)
	case "qari":
		h.handleQariCommand(chatID, player)
	case "top":
		h.handleTopCommand(ctx, chatID)
	default:
		h.sendText(chatID, msgUnknownCommand)
	}
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("send message failed", zap.Error(err))
		return err
	}
	return nil
}

func (h *Handler) sendText(chatID int64, text string) {
	_ = h.send(tgbotapi.NewMessage(chatID, text))
}

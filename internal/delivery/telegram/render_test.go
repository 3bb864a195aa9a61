package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
)

func TestResultMessageOffersRestart(t *testing.T) {
	result := &entities.SessionResult{Score: 4, TotalQuestions: 5, XPEarned: 40}
	msg := newResultMessage(7, result, entities.LevelInfo{Level: 2, XPIntoLevel: 40, XPForNextLevel: 100})

	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		t.Fatalf("result message has no inline keyboard: %T", msg.ReplyMarkup)
	}

	want := buildQuizStartCallback()
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData != nil && *btn.CallbackData == want {
				return
			}
		}
	}
	t.Fatalf("no button with callback %q on the result message", want)
}

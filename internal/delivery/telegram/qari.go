package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
)

// qariNames maps CDN edition identifiers to display names.
var qariNames = map[string]string{
	"ar.alafasy":            "مشاري العفاسي",
	"ar.husary":             "محمود خليل الحصري",
	"ar.minshawi":           "محمد صديق المنشاوي",
	"ar.abdulbasitmurattal": "عبد الباسط عبد الصمد",
	"ar.abdurrahmaansudais": "عبد الرحمن السديس",
}

func qariDisplayName(id string) string {
	if name, ok := qariNames[id]; ok {
		return name
	}
	return id
}

// ownedQaris lists the recitations the player can pick from: the
// default voice plus every qari item in their inventory.
func ownedQaris(player *entities.Player) []string {
	qaris := []string{entities.DefaultQari}
	for _, item := range player.Inventory {
		id, ok := strings.CutPrefix(item, "qari_")
		if !ok || id == entities.DefaultQari {
			continue
		}
		qaris = append(qaris, id)
	}
	return qaris
}

// handleQariCommand shows the recitation picker.
func (h *Handler) handleQariCommand(chatID int64, player *entities.Player) {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, id := range ownedQaris(player) {
		label := qariDisplayName(id)
		if id == player.SelectedQari {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildQariCallback(id)),
		))
	}

	msg := tgbotapi.NewMessage(chatID, msgQariPrompt)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_ = h.send(msg)
}

// handleQariCallback applies the picked recitation. New sessions use
// it; a running session keeps the voice it started with.
func (h *Handler) handleQariCallback(ctx context.Context, chatID int64, player *entities.Player, qari string) {
	owned := false
	for _, id := range ownedQaris(player) {
		if id == qari {
			owned = true
			break
		}
	}
	if !owned {
		h.logger.Warn("qari pick outside inventory",
			zap.Int64("player_id", player.ID), zap.String("qari", qari))
		return
	}

	player.SelectedQari = qari
	if err := h.playerService.Save(ctx, player); err != nil {
		h.logger.Error("save qari selection", zap.Error(err))
		h.sendText(chatID, msgInternalError)
		return
	}

	h.sendText(chatID, msgQariSelectedPrefix+qariDisplayName(qari))
}

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
)

// optionPreviewLen bounds the text shown on an inline button.
const optionPreviewLen = 60

// pagesPerRow keeps the page picker keyboard readable.
const pagesPerRow = 5

// relationPrompt is the instruction line shown above the options.
func relationPrompt(q *entities.QuestionInstance) string {
	switch q.Relation {
	case entities.RelationNext:
		return "ما هي الآية التالية؟"
	case entities.RelationPrevious:
		return "ما هي الآية السابقة؟"
	case entities.RelationIntruder:
		return "أي من هذه الآيات ليست من هذه الصفحة؟"
	default:
		return ""
	}
}

// newPageKeyboardMessage builds the page picker shown by /quiz.
func newPageKeyboardMessage(chatID int64, pages []int) tgbotapi.MessageConfig {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, page := range pages {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("صفحة %d", page),
			buildQuizPageCallback(page),
		))
		if len(row) == pagesPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	msg := tgbotapi.NewMessage(chatID, "اختر صفحة للاختبار:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	return msg
}

// sendQuestion renders one question instance into one or more Telegram
// messages, depending on the modality.
func (h *Handler) sendQuestion(chatID int64, session *entities.QuizSession, q *entities.QuestionInstance) {
	header := fmt.Sprintf("📖 سؤال %d/%d\n\n%s",
		session.CurrentQuestionIndex, session.TotalQuestions, relationPrompt(q))

	switch q.Modality {
	case entities.ModalityText:
		text := fmt.Sprintf("%s\n\n﴿%s﴾", header, q.PromptText)
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = optionsKeyboard(q, true)
		_ = h.send(msg)

	case entities.ModalityAudioText:
		audio := tgbotapi.NewAudio(chatID, tgbotapi.FileURL(q.PromptAudio))
		audio.Caption = header
		_ = h.send(audio)

		msg := tgbotapi.NewMessage(chatID, "اختر الإجابة الصحيحة:")
		msg.ReplyMarkup = optionsKeyboard(q, true)
		_ = h.send(msg)

	case entities.ModalityAudioAudio:
		if q.PromptAudio != "" {
			audio := tgbotapi.NewAudio(chatID, tgbotapi.FileURL(q.PromptAudio))
			audio.Caption = header
			_ = h.send(audio)
		} else {
			h.sendText(chatID, header)
		}
		for i, opt := range q.Options {
			optAudio := tgbotapi.NewAudio(chatID, tgbotapi.FileURL(opt.AudioURL))
			optAudio.Caption = fmt.Sprintf("الخيار %d", i+1)
			_ = h.send(optAudio)
		}

		msg := tgbotapi.NewMessage(chatID, "اختر رقم التلاوة الصحيحة:")
		msg.ReplyMarkup = optionsKeyboard(q, false)
		_ = h.send(msg)
	}
}

// optionsKeyboard builds the answer keyboard. Text buttons carry a
// preview of the option; audio buttons carry only its number.
func optionsKeyboard(q *entities.QuestionInstance, withText bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, opt := range q.Options {
		var label string
		if withText {
			label = fmt.Sprintf("%d. %s", i+1, previewText(opt.Text))
		} else {
			label = fmt.Sprintf("%d", i+1)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildQuizAnswerCallback(i)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⏹ إيقاف", buildQuizStopCallback()),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func previewText(text string) string {
	runes := []rune(text)
	if len(runes) <= optionPreviewLen {
		return text
	}
	return string(runes[:optionPreviewLen]) + "…"
}

func renderFeedback(f *entities.Feedback) string {
	if f.Correct {
		return msgCorrectAnswer
	}
	return fmt.Sprintf("%s\nالإجابة الصحيحة:\n%s", msgWrongAnswer, f.CorrectAnswer)
}

// newResultMessage renders the final-result screen of a settled quiz.
func newResultMessage(chatID int64, r *entities.SessionResult, info entities.LevelInfo) tgbotapi.MessageConfig {
	var b strings.Builder
	b.WriteString("🏁 انتهى الاختبار!\n\n")
	fmt.Fprintf(&b, "النتيجة: %d/%d\n", r.Score, r.TotalQuestions)
	fmt.Fprintf(&b, "نقاط الخبرة المكتسبة: %d ✨\n", r.XPEarned)

	if r.IsPerfect {
		b.WriteString("\n🌟 ممتاز! أجبت على كل الأسئلة بشكل صحيح!\n")
	}
	if r.LevelUp != nil {
		fmt.Fprintf(&b, "\n🎉 ترقية! وصلت إلى المستوى %d وربحت %d 💎\n",
			r.LevelUp.Level, r.LevelUp.RewardDiamonds)
	}
	for _, a := range r.Achievements {
		fmt.Fprintf(&b, "\n🏆 إنجاز جديد: %s", a.Name)
	}
	if len(r.Achievements) > 0 {
		b.WriteString("\n")
	}
	if info.XPForNextLevel > 0 {
		fmt.Fprintf(&b, "\n⭐ المستوى %d — %d/%d للمستوى التالي",
			info.Level, info.XPIntoLevel, info.XPForNextLevel)
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 اختبار جديد", buildQuizStartCallback()),
		),
	)
	return msg
}

// renderErrorReview lists the wrong answers so the player can revise.
func renderErrorReview(log []entities.ErrorLogEntry) string {
	var b strings.Builder
	b.WriteString("📝 مراجعة الأخطاء:\n")
	for i, e := range log {
		fmt.Fprintf(&b, "\n%d. %s\nالإجابة الصحيحة: %s\n", i+1, e.Prompt, e.CorrectAnswer)
	}
	return b.String()
}

func renderChallengeResult(r *entities.SessionResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚔️ نتيجة التحدي: %d/%d\n", r.Score, r.TotalQuestions)
	fmt.Fprintf(&b, "⏱ المدة: %d ثانية", r.DurationSecs)
	if r.IsPerfect {
		b.WriteString("\n🌟 بدون أخطاء!")
	}
	return b.String()
}

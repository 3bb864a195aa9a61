package telegram

import (
	"fmt"
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionQuiz = "quiz"
	actionQari = "qari"
)

// Quiz sub-actions.
const (
	quizStart  = "start"
	quizPage   = "page"
	quizAnswer = "answer"
	quizStop   = "stop"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

func parseCallbackData(raw string) callbackData {
	parts := strings.Split(raw, ":")
	cd := callbackData{Raw: raw}
	if len(parts) > 0 {
		cd.Action = parts[0]
	}
	if len(parts) > 1 {
		cd.Params = parts[1:]
	}
	return cd
}

func (cd callbackData) intParam(i int) (int, bool) {
	if i >= len(cd.Params) {
		return 0, false
	}
	n, err := strconv.Atoi(cd.Params[i])
	if err != nil {
		return 0, false
	}
	return n, true
}

func buildQuizPageCallback(page int) string {
	return fmt.Sprintf("%s:%s:%d", actionQuiz, quizPage, page)
}

func buildQuizAnswerCallback(index int) string {
	return fmt.Sprintf("%s:%s:%d", actionQuiz, quizAnswer, index)
}

func buildQuizStartCallback() string {
	return fmt.Sprintf("%s:%s", actionQuiz, quizStart)
}

func buildQuizStopCallback() string {
	return fmt.Sprintf("%s:%s", actionQuiz, quizStop)
}

func buildQariCallback(qari string) string {
	return fmt.Sprintf("%s:%s", actionQari, qari)
}

package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionQuiz     = "quiz"
	actionProgress = "progress"
	actionReset    = "reset"
)

// Quiz sub-actions.
const (
	quizMenu   = "menu"
	quizStart  = "start"
	quizAnswer = "answer"
	quizNext   = "next"
)

// Reset sub-actions.
const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// param returns the i-th parameter or "" when absent.
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

func buildQuizMenuCallback() string {
	return callbackData{Action: actionQuiz, Params: []string{quizMenu}}.encode()
}

// buildQuizStartCallback builds callback data for starting a session over slug.
func buildQuizStartCallback(slug string) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizStart, slug},
	}.encode()
}

// buildQuizAnswerCallback builds callback data for answering the current question.
func buildQuizAnswerCallback(sessionID string, choice int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizAnswer, sessionID, strconv.Itoa(choice)},
	}.encode()
}

// buildQuizNextCallback builds callback data for the skip, next and finish buttons.
func buildQuizNextCallback(sessionID string) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizNext, sessionID},
	}.encode()
}

// buildProgressCallback builds callback data for opening the progress view.
func buildProgressCallback() string {
	return actionProgress
}

func buildResetConfirmCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}

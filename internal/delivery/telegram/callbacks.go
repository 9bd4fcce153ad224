package telegram

import (
	"context"
	"errors"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/ap-prep/internal/domain/entities"
	"github.com/aliskhannn/ap-prep/internal/repository"
	"github.com/aliskhannn/ap-prep/internal/service"
)

// screen is what a callback replaces the pressed message with.
type screen struct {
	text string
	kb   tgbotapi.InlineKeyboardMarkup
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, msgInvalidCallback)
		return
	}

	owner := ownerID(cb.From.ID)
	data := decodeCallback(cb.Data)

	var (
		next *screen
		err  error
	)

	switch data.Action {
	case actionQuiz:
		next, err = h.handleQuizCallback(ctx, owner, data)
	case actionProgress:
		next, err = h.progressScreen(ctx, owner)
	case actionReset:
		next, err = h.handleResetCallback(ctx, owner, data)
	default:
		h.logger.Warn("unknown callback action", zap.String("data", cb.Data))
		h.answerCallback(cb.ID, msgInvalidCallback)
		return
	}

	if err != nil {
		h.answerCallback(cb.ID, h.callbackErrorText(cb, err))
		return
	}

	edit := newEdit(cb.Message.Chat.ID, cb.Message.MessageID, next.text)
	edit.ReplyMarkup = &next.kb
	h.send(edit)

	// Remove the user's "clock".
	h.answerCallback(cb.ID, "")
}

func (h *Handler) handleQuizCallback(ctx context.Context, owner string, data callbackData) (*screen, error) {
	switch data.param(0) {
	case quizMenu:
		text, kb, err := h.renderCatalog(ctx)
		if err != nil {
			return nil, err
		}
		return &screen{text: text, kb: kb}, nil

	case quizStart:
		state, err := h.quizService.Start(ctx, owner, data.param(1))
		if err != nil {
			return nil, err
		}
		return questionScreen(state), nil

	case quizAnswer:
		choice, err := strconv.Atoi(data.param(2))
		if err != nil {
			return nil, entities.ErrInvalidInput
		}
		state, err := h.quizService.Answer(ctx, owner, data.param(1), choice)
		if err != nil {
			return nil, err
		}
		return questionScreen(state), nil

	case quizNext:
		state, err := h.quizService.Advance(ctx, owner, data.param(1))
		if err != nil {
			return nil, err
		}
		if state.Result != nil {
			return &screen{text: formatQuizResult(state), kb: buildQuizResultKeyboard(state.Slug)}, nil
		}
		return questionScreen(state), nil

	default:
		return nil, entities.ErrInvalidInput
	}
}

func (h *Handler) progressScreen(ctx context.Context, owner string) (*screen, error) {
	text, kb, err := h.renderProgress(ctx, owner)
	if err != nil {
		return nil, err
	}
	return &screen{text: text, kb: kb}, nil
}

func (h *Handler) handleResetCallback(ctx context.Context, owner string, data callbackData) (*screen, error) {
	text := msgResetCancelled
	switch data.param(0) {
	case resetConfirm:
		if err := h.progressService.Reset(ctx, owner); err != nil {
			return nil, err
		}
		text = msgResetDone
	case resetCancel:
	default:
		return nil, entities.ErrInvalidInput
	}

	return &screen{text: md(text), kb: buildProgressKeyboard()}, nil
}

func questionScreen(state *service.QuizState) *screen {
	return &screen{text: formatQuizQuestion(state), kb: buildQuizAnswerKeyboard(state)}
}

// callbackErrorText maps an error to the toast shown to the user.
func (h *Handler) callbackErrorText(cb *tgbotapi.CallbackQuery, err error) string {
	switch {
	case errors.Is(err, entities.ErrAnswerLocked):
		return msgAlreadyAnswered
	case errors.Is(err, entities.ErrSessionFinished):
		return msgSessionFinished
	case errors.Is(err, service.ErrSessionNotFound):
		return msgSessionExpired
	case errors.Is(err, repository.ErrBankNotFound):
		return msgUnknownBank
	case errors.Is(err, entities.ErrInvalidInput):
		return msgInvalidCallback
	}

	h.logger.Error("callback failed",
		zap.Int64("user_id", cb.From.ID),
		zap.String("data", cb.Data),
		zap.Error(err),
	)
	return msgInternalError
}

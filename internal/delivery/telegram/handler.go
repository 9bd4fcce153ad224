package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handler struct {
	bot             Bot
	logger          *zap.Logger
	quizService     QuizService
	progressService ProgressService
	circuitService  CircuitService
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	quizService QuizService,
	progressService ProgressService,
	circuitService CircuitService,
) *Handler {
	return &Handler{
		bot:             bot,
		logger:          logger,
		quizService:     quizService,
		progressService: progressService,
		circuitService:  circuitService,
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
		case update, ok := <-updates:
			if !ok {
				return nil
			}
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

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID
	owner := ownerID(update.Message.From.ID)

	if !update.Message.IsCommand() {
		h.send(newMessage(chatID, msgUnknownCommand()))
		return
	}

	switch update.Message.Command() {
	case "start", "help":
		h.send(newMessage(chatID, msgWelcome()))

	case "quiz":
		h.run(ctx, chatID, "quiz", h.handleQuizMenu())

	case "exam":
		h.run(ctx, chatID, "exam", h.handleExam(owner))

	case "progress":
		h.run(ctx, chatID, "progress", h.handleProgress(owner))

	case "reset":
		msg := newMessage(chatID, md(msgResetConfirm))
		msg.ReplyMarkup = buildResetKeyboard()
		h.send(msg)

	case "circuit":
		h.run(ctx, chatID, "circuit", h.handleCircuit(update.Message.CommandArguments()))

	default:
		h.send(newMessage(chatID, msgUnknownCommand()))
	}
}

// run executes a command handler. Errors are already reported to the chat.
func (h *Handler) run(ctx context.Context, chatID int64, command string, fn HandlerFunc) {
	_ = h.withErrorHandling(command, fn)(ctx, chatID)
}

func (h *Handler) sendError(chatID int64, err string) {
	h.send(newPlainMessage(chatID, err))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

// answerCallback removes the loading clock, optionally showing a toast.
func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Warn("callback answer error", zap.Error(err))
	}
}

// ownerID is the progress and session owner of a Telegram user.
func ownerID(userID int64) string {
	return fmt.Sprintf("tg:%d", userID)
}

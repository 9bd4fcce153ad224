package telegram

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling logs a failed command, including a panic, and answers
// the chat with a generic message instead of leaving it silent.
func (h *Handler) withErrorHandling(command string, fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
			if err != nil {
				h.logger.Error("command failed",
					zap.String("command", command),
					zap.Int64("chat_id", chatID),
					zap.Error(err),
				)
				h.sendError(chatID, msgInternalError)
			}
		}()

		return fn(ctx, chatID)
	}
}

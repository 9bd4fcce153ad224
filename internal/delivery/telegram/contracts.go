package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/ap-prep/internal/domain/entities"
	"github.com/aliskhannn/ap-prep/internal/service"
)

// Bot is the part of *tgbotapi.BotAPI the handler uses.
type Bot interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type QuizService interface {
	Catalog(ctx context.Context) ([]entities.Bank, error)
	Start(ctx context.Context, owner, slug string) (*service.QuizState, error)
	Answer(ctx context.Context, owner, id string, choice int) (*service.QuizState, error)
	Advance(ctx context.Context, owner, id string) (*service.QuizState, error)
}

type ProgressService interface {
	Summary(ctx context.Context, owner string) (*service.ProgressSummary, error)
	Reset(ctx context.Context, owner string) error
}

type CircuitService interface {
	Simulate(state entities.CircuitState) (*service.CircuitReport, error)
	Limits() entities.CircuitLimits
}

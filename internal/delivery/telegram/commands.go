package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/ap-prep/internal/domain/entities"
	"github.com/aliskhannn/ap-prep/internal/service"
)

// handleQuizMenu shows the bank picker.
func (h *Handler) handleQuizMenu() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, kb, err := h.renderCatalog(ctx)
		if err != nil {
			return err
		}

		msg := newMessage(chatID, text)
		msg.ReplyMarkup = kb
		h.send(msg)
		return nil
	}
}

// handleExam starts the mixed practice exam right away.
func (h *Handler) handleExam(owner string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		state, err := h.quizService.Start(ctx, owner, service.ExamSlug)
		if err != nil {
			return fmt.Errorf("start exam: %w", err)
		}

		msg := newMessage(chatID, formatQuizQuestion(state))
		msg.ReplyMarkup = buildQuizAnswerKeyboard(state)
		h.send(msg)
		return nil
	}
}

// handleProgress displays the owner's best scores.
func (h *Handler) handleProgress(owner string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.logger.Debug("rendering progress", zap.String("owner", owner))

		text, kb, err := h.renderProgress(ctx, owner)
		if err != nil {
			return err
		}

		msg := newMessage(chatID, text)
		msg.ReplyMarkup = kb
		h.send(msg)
		return nil
	}
}

// handleCircuit runs the simulator on "/circuit <series|parallel> <V> <R1> <R2>".
func (h *Handler) handleCircuit(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		state, err := parseCircuitArgs(args)
		if err != nil {
			h.sendError(chatID, circuitUsage(h.circuitService.Limits()))
			return nil
		}

		report, err := h.circuitService.Simulate(state)
		if errors.Is(err, entities.ErrInvalidInput) {
			h.sendError(chatID, fmt.Sprintf("%s\n\n%s", err, circuitUsage(h.circuitService.Limits())))
			return nil
		}
		if err != nil {
			return fmt.Errorf("simulate circuit: %w", err)
		}

		h.send(newMessage(chatID, formatCircuit(report)))
		return nil
	}
}

func (h *Handler) renderCatalog(ctx context.Context) (string, tgbotapi.InlineKeyboardMarkup, error) {
	banks, err := h.quizService.Catalog(ctx)
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, fmt.Errorf("load catalog: %w", err)
	}

	return formatCatalog(banks), buildCatalogKeyboard(banks), nil
}

func (h *Handler) renderProgress(ctx context.Context, owner string) (string, tgbotapi.InlineKeyboardMarkup, error) {
	summary, err := h.progressService.Summary(ctx, owner)
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, fmt.Errorf("load progress: %w", err)
	}

	titles := make(map[string]string)
	if banks, err := h.quizService.Catalog(ctx); err == nil {
		for _, b := range banks {
			titles[b.Slug] = b.Title
		}
	}

	return formatProgress(summary, titles), buildProgressKeyboard(), nil
}

func parseCircuitArgs(args string) (entities.CircuitState, error) {
	fields := strings.Fields(args)
	if len(fields) != 4 {
		return entities.CircuitState{}, fmt.Errorf("%w: expected 4 arguments, got %d", entities.ErrInvalidInput, len(fields))
	}

	topology, err := entities.ParseTopology(fields[0])
	if err != nil {
		return entities.CircuitState{}, err
	}

	var values [3]float64
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return entities.CircuitState{}, fmt.Errorf("%w: %q is not a number", entities.ErrInvalidInput, f)
		}
		values[i] = v
	}

	return entities.CircuitState{
		Voltage:  values[0],
		R1:       values[1],
		R2:       values[2],
		Topology: topology,
	}, nil
}

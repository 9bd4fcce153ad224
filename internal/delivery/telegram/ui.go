package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/ap-prep/internal/domain/entities"
	"github.com/aliskhannn/ap-prep/internal/service"
)

// buildCatalogKeyboard builds one start button per bank.
func buildCatalogKeyboard(banks []entities.Bank) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(banks)+1)
	for _, b := range banks {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s (%d)", b.Title, b.Len()),
				buildQuizStartCallback(b.Slug),
			),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📊 My progress", buildProgressCallback()),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildQuizAnswerKeyboard builds keyboard for the current question.
// After a selection the letters show the outcome and only Next moves on.
func buildQuizAnswerKeyboard(state *service.QuizState) tgbotapi.InlineKeyboardMarkup {
	var letters []tgbotapi.InlineKeyboardButton
	for i := range state.Question.Choices {
		label := choiceLabel(i)
		if fb := state.Feedback; fb != nil {
			switch i {
			case fb.Answer:
				label = "✅ " + label
			case fb.Selected:
				label = "❌ " + label
			}
		}
		letters = append(letters, tgbotapi.NewInlineKeyboardButtonData(label, buildQuizAnswerCallback(state.ID, i)))
	}

	next := "⏭ Skip"
	switch {
	case state.Finished:
		next = "🏁 Finish"
	case state.Feedback != nil:
		next = "Next ▶️"
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		letters,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(next, buildQuizNextCallback(state.ID)),
		),
	)
}

// buildQuizResultKeyboard builds keyboard for quiz results screen.
func buildQuizResultKeyboard(slug string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Try again", buildQuizStartCallback(slug)),
			tgbotapi.NewInlineKeyboardButtonData("📚 All banks", buildQuizMenuCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 My progress", buildProgressCallback()),
		),
	)
}

// buildProgressKeyboard builds keyboard for progress screen.
func buildProgressKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", buildProgressCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Start a quiz", buildQuizMenuCallback()),
		),
	)
}

// buildResetKeyboard asks to confirm a progress reset.
func buildResetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Yes, reset", buildResetConfirmCallback()),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", buildResetCancelCallback()),
		),
	)
}

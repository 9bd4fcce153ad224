// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/ap-prep/internal/domain/entities"
	"github.com/aliskhannn/ap-prep/internal/service"
)

// Plain-text messages.
const (
	msgInternalError   = "Something went wrong. Please try again later."
	msgAlreadyAnswered = "Already answered. Tap Next to continue."
	msgSessionExpired  = "This quiz has expired. Start a new one with /quiz."
	msgSessionFinished = "This quiz is already finished."
	msgInvalidCallback = "This button is no longer valid."
	msgUnknownBank     = "Unknown question bank."
	msgCircuitUsage    = "Usage: /circuit <series|parallel> <V> <R1> <R2>\nExample: /circuit series 28 10 4"
	msgNoScores        = "No scores yet. Take a quiz and come back!"
	msgScoreSaved      = "Best score saved in Progress."
	msgScoreNotSaved   = "Your score could not be saved this time."
	msgResetConfirm    = "Forget all your best scores? This cannot be undone."
	msgResetDone       = "Progress cleared."
	msgResetCancelled  = "Nothing was changed."
)

const (
	progressBarLength   = 10
	resultBarLength     = 20
	circuitShareBarSize = 20
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

func msgWelcome() string {
	return strings.Join([]string{
		bold("✈️ A&P Prep"),
		md("Practice for the FAA A&P written exams: General, Airframe and Powerplant."),
		"",
		md("/quiz — pick a question bank"),
		md("/exam — 25-question mixed practice exam"),
		md("/progress — your best scores"),
		md("/reset — clear your best scores"),
		md("/circuit series 28 10 4 — Ohm's law calculator"),
	}, "\n")
}

func msgUnknownCommand() string {
	return md("Unknown command.") + "\n\n" + msgWelcome()
}

// choiceLabel returns the letter shown next to a choice.
func choiceLabel(i int) string {
	return string(rune('A' + i))
}

// formatCatalog lists the quizzes a user can start.
func formatCatalog(banks []entities.Bank) string {
	var sb strings.Builder
	sb.WriteString(bold("📚 Question banks"))
	sb.WriteString("\n\n")
	for _, b := range banks {
		sb.WriteString(md(fmt.Sprintf("• %s — %d questions", b.Title, b.Len())))
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatQuizQuestion renders the current question with its feedback, if any.
func formatQuizQuestion(state *service.QuizState) string {
	q := state.Question

	var sb strings.Builder
	sb.WriteString(bold(state.Title))
	sb.WriteString(md(fmt.Sprintf(" · %d/%d", state.Position+1, state.Total)))
	sb.WriteString("\n")
	sb.WriteString(md(buildProgressBar(state.Position, state.Total, progressBarLength)))
	sb.WriteString("\n\n")
	sb.WriteString(bold(q.Prompt))
	sb.WriteString("\n\n")

	for i, choice := range q.Choices {
		sb.WriteString(md(fmt.Sprintf("%s. %s", choiceLabel(i), choice)))
		sb.WriteString("\n")
	}

	if state.Feedback != nil {
		sb.WriteString("\n")
		sb.WriteString(formatAnswerFeedback(*state.Feedback, q))
	}

	return sb.String()
}

// formatAnswerFeedback formats feedback for a quiz answer (MarkdownV2 safe).
func formatAnswerFeedback(fb entities.Feedback, q entities.Question) string {
	var sb strings.Builder
	if fb.Correct {
		sb.WriteString(md("✅ Correct. "))
	} else {
		sb.WriteString(md("❌ Not quite. "))
		sb.WriteString(md("Answer: "))
		sb.WriteString(bold(fmt.Sprintf("%s. %s", choiceLabel(fb.Answer), q.Choices[fb.Answer])))
		sb.WriteString("\n")
	}
	sb.WriteString(md(fb.Explain))

	if fb.Ref != "" {
		sb.WriteString("\n")
		sb.WriteString(italic("Ref: " + fb.Ref))
	}

	return sb.String()
}

// formatQuizResult formats the final score (MarkdownV2 safe).
func formatQuizResult(state *service.QuizState) string {
	r := state.Result

	emoji := "📚"
	switch {
	case r.Score >= 90:
		emoji = "🌟"
	case r.Score >= 70:
		emoji = "👍"
	}

	lines := []string{
		md(fmt.Sprintf("%s %s finished!", emoji, state.Title)),
		"",
		md("Result: ") + bold(fmt.Sprintf("%d%% (%d/%d)", r.Score, r.Correct, r.Total)),
		md(buildProgressBar(r.Correct, r.Total, resultBarLength)),
		"",
	}

	if state.Saved {
		lines = append(lines, md(fmt.Sprintf("Best: %d%%. %s", state.Best, msgScoreSaved)))
	} else {
		lines = append(lines, md(msgScoreNotSaved))
	}

	return strings.Join(lines, "\n")
}

// formatProgress formats the best scores; titles maps slugs to bank titles.
func formatProgress(summary *service.ProgressSummary, titles map[string]string) string {
	if len(summary.Entries) == 0 {
		return md(msgNoScores)
	}

	var sb strings.Builder
	sb.WriteString(bold("📊 Progress"))
	sb.WriteString("\n")
	sb.WriteString(md("Best quiz scores."))
	sb.WriteString("\n\n")

	for _, e := range summary.Entries {
		name := e.Slug
		if title, ok := titles[e.Slug]; ok {
			name = title
		}
		sb.WriteString(md(fmt.Sprintf("%s: ", name)))
		sb.WriteString(bold(fmt.Sprintf("%d%%", e.Score)))
		sb.WriteString("\n")
		sb.WriteString(md(buildProgressBar(e.Score, 100, progressBarLength)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatCircuit formats a simulator reading (MarkdownV2 safe).
func formatCircuit(report *service.CircuitReport) string {
	s := report.State
	title, names, unit := report.BranchLabel()

	lines := []string{
		bold(fmt.Sprintf("🔌 %s circuit", strings.ToUpper(string(s.Topology[:1]))+string(s.Topology[1:]))),
		md(fmt.Sprintf("V = %g V, R1 = %g Ω, R2 = %g Ω", s.Voltage, s.R1, s.R2)),
		"",
		md(fmt.Sprintf("Total resistance Rt: %s Ω", report.Rt)),
		md(fmt.Sprintf("Total current I: %s A", report.I)),
		md(fmt.Sprintf("Power P: %s W", report.P)),
		"",
		bold(title),
	}

	for i := range names {
		lines = append(lines,
			md(fmt.Sprintf("%s: %s %s", names[i], report.Branch[i], unit)),
			md(buildProgressBar(int(report.Shares[i]), 100, circuitShareBarSize)),
		)
	}

	return strings.Join(lines, "\n")
}

// buildProgressBar creates ASCII progress bar.
// circuitUsage is the usage text followed by the accepted input ranges.
func circuitUsage(l entities.CircuitLimits) string {
	return fmt.Sprintf("%s\nRanges: V %g-%g, R1 and R2 %g-%g Ω",
		msgCircuitUsage, l.VoltageMin, l.VoltageMax, l.ResistanceMin, l.ResistanceMax)
}

func buildProgressBar(current, total, length int) string {
	if total <= 0 {
		return "[" + strings.Repeat("░", length) + "]"
	}

	filled := current * length / total
	if filled > length {
		filled = length
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
	return fmt.Sprintf("[%s]", bar)
}

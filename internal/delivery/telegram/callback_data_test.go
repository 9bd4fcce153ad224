package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aliskhannn/ap-prep/internal/domain/entities"
	"github.com/aliskhannn/ap-prep/internal/service"
)

func TestCallbackData(t *testing.T) {
	const id = "5f0c7d1e-8a9b-4c2d-9e3f-123456789abc"

	tests := []struct {
		data   string
		action string
		params []string
	}{
		{buildQuizMenuCallback(), actionQuiz, []string{quizMenu}},
		{buildQuizStartCallback("gen-mixed"), actionQuiz, []string{quizStart, "gen-mixed"}},
		{buildQuizAnswerCallback(id, 2), actionQuiz, []string{quizAnswer, id, "2"}},
		{buildQuizNextCallback(id), actionQuiz, []string{quizNext, id}},
		{buildProgressCallback(), actionProgress, []string{}},
		{buildResetConfirmCallback(), actionReset, []string{resetConfirm}},
		{buildResetCancelCallback(), actionReset, []string{resetCancel}},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			// Telegram limits callback data to 64 bytes.
			assert.LessOrEqual(t, len(tt.data), 64)

			cd := decodeCallback(tt.data)
			assert.Equal(t, tt.action, cd.Action)
			assert.Equal(t, tt.params, cd.Params)
			assert.Equal(t, tt.data, cd.encode())
		})
	}

	assert.Equal(t, "", decodeCallback("progress").param(3))
}

func TestBuildQuizAnswerKeyboard(t *testing.T) {
	state := &service.QuizState{
		ID:       "s1",
		Question: entities.Question{ID: "q", Choices: []string{"a", "b", "c"}, Answer: 0},
	}

	kb := buildQuizAnswerKeyboard(state)
	assert.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "A", kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, "⏭ Skip", kb.InlineKeyboard[1][0].Text)

	state.Feedback = &entities.Feedback{Selected: 2, Answer: 0}
	kb = buildQuizAnswerKeyboard(state)
	assert.Equal(t, "✅ A", kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, "B", kb.InlineKeyboard[0][1].Text)
	assert.Equal(t, "❌ C", kb.InlineKeyboard[0][2].Text)
	assert.Equal(t, "Next ▶️", kb.InlineKeyboard[1][0].Text)

	state.Finished = true
	kb = buildQuizAnswerKeyboard(state)
	assert.Equal(t, "🏁 Finish", kb.InlineKeyboard[1][0].Text)
}

func TestBuildProgressBar(t *testing.T) {
	assert.Equal(t, "[█████░░░░░]", buildProgressBar(50, 100, 10))
	assert.Equal(t, "[██████████]", buildProgressBar(150, 100, 10))
	assert.Equal(t, "[░░░░░░░░░░]", buildProgressBar(3, 0, 10))
}

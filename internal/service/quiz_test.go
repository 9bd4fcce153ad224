package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/aliskhannn/ap-prep/internal/domain/entities"
	"github.com/aliskhannn/ap-prep/internal/repository"
	"github.com/aliskhannn/ap-prep/internal/service"
	"github.com/aliskhannn/ap-prep/internal/storage"
)

type identityShuffler struct{}

func (identityShuffler) Shuffle(int, func(i, j int)) {}

type failingRecorder struct{}

func (failingRecorder) RecordBest(context.Context, string, string, int) (int, error) {
	return 0, errors.New("store unavailable")
}

func bankJSON(prefix string, n int) string {
	out := "["
	for i := 0; i < n; i++ {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf(`{"id":"%s-%d","q":"Q%d?","choices":["a","b","c"],"answer":0,"explain":"because"}`, prefix, i, i)
	}
	return out + "]"
}

func newBanks(t *testing.T) *repository.BankRepository {
	t.Helper()

	fsys := fstest.MapFS{
		"general.json":    {Data: []byte(bankJSON("gen", 3))},
		"airframe.json":   {Data: []byte(bankJSON("air", 20))},
		"powerplant.json": {Data: []byte(bankJSON("pp", 10))},
	}

	banks, err := repository.NewBankRepository(fsys, repository.DefaultSubjects)
	require.NoError(t, err)
	return banks
}

type quizFixture struct {
	quiz     *service.QuizService
	progress *service.ProgressService
	storage  *storage.QuizStorage
}

func newQuizFixture(t *testing.T) quizFixture {
	t.Helper()

	logger := zap.NewNop()
	progress := service.NewProgressService(storage.NewMemoryBlobStore(), logger)
	sessions := storage.NewQuizStorage()

	quiz := service.NewQuizService(newBanks(t), sessions, progress, 25, logger)
	quiz.SetShuffler(identityShuffler{})

	return quizFixture{quiz: quiz, progress: progress, storage: sessions}
}

func TestQuizService_FullRun(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture(t)

	state, err := f.quiz.Start(ctx, "tg:1", "gen-mixed")
	require.NoError(t, err)
	assert.Equal(t, "General", state.Title)
	assert.Equal(t, 3, state.Total)
	assert.Equal(t, "gen-0", state.Question.ID)
	assert.Nil(t, state.Feedback)

	// Right, wrong, skipped.
	state, err = f.quiz.Answer(ctx, "tg:1", state.ID, 0)
	require.NoError(t, err)
	require.NotNil(t, state.Feedback)
	assert.True(t, state.Feedback.Correct)
	assert.Equal(t, 1, state.Correct)

	_, err = f.quiz.Answer(ctx, "tg:1", state.ID, 1)
	require.ErrorIs(t, err, entities.ErrAnswerLocked)
	require.ErrorIs(t, err, entities.ErrInvalidState)

	state, err = f.quiz.Advance(ctx, "tg:1", state.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Position)
	assert.Nil(t, state.Result)

	state, err = f.quiz.Answer(ctx, "tg:1", state.ID, 2)
	require.NoError(t, err)
	assert.False(t, state.Feedback.Correct)
	assert.Equal(t, 0, state.Feedback.Answer)

	state, err = f.quiz.Advance(ctx, "tg:1", state.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, state.Position)
	assert.False(t, state.Finished)

	state, err = f.quiz.Advance(ctx, "tg:1", state.ID)
	require.NoError(t, err)
	require.NotNil(t, state.Result)
	assert.True(t, state.Terminal)
	assert.Equal(t, 33, state.Result.Score)
	assert.True(t, state.Saved)
	assert.Equal(t, 33, state.Best)

	_, err = f.quiz.Advance(ctx, "tg:1", state.ID)
	require.ErrorIs(t, err, entities.ErrSessionFinished)

	p, err := f.progress.Load(ctx, "tg:1")
	require.NoError(t, err)
	assert.Equal(t, 33, p.Best("gen-mixed"))
}

func TestQuizService_InvalidChoice(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture(t)

	state, err := f.quiz.Start(ctx, "", "pp-mixed")
	require.NoError(t, err)

	for _, choice := range []int{-1, 3} {
		_, err = f.quiz.Answer(ctx, "", state.ID, choice)
		require.ErrorIs(t, err, entities.ErrInvalidInput)
	}

	state, err = f.quiz.Get(ctx, "", state.ID)
	require.NoError(t, err)
	assert.Nil(t, state.Feedback)
}

func TestQuizService_OwnerIsolation(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture(t)

	state, err := f.quiz.Start(ctx, "tg:1", "air-mixed")
	require.NoError(t, err)

	_, err = f.quiz.Get(ctx, "tg:2", state.ID)
	require.ErrorIs(t, err, service.ErrSessionNotFound)

	_, err = f.quiz.Answer(ctx, "tg:2", state.ID, 0)
	require.ErrorIs(t, err, service.ErrSessionNotFound)

	require.ErrorIs(t, f.quiz.Discard(ctx, "tg:2", state.ID), service.ErrSessionNotFound)
	require.NoError(t, f.quiz.Discard(ctx, "tg:1", state.ID))

	_, err = f.quiz.Get(ctx, "tg:1", state.ID)
	require.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestQuizService_RestartReplacesSession(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture(t)

	first, err := f.quiz.Start(ctx, "tg:1", "gen-mixed")
	require.NoError(t, err)
	second, err := f.quiz.Start(ctx, "tg:1", "gen-mixed")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	_, err = f.quiz.Get(ctx, "tg:1", first.ID)
	require.ErrorIs(t, err, service.ErrSessionNotFound)
	assert.Equal(t, 1, f.storage.Len())
}

func TestQuizService_UnknownBank(t *testing.T) {
	f := newQuizFixture(t)

	_, err := f.quiz.Start(context.Background(), "tg:1", "nope")
	require.ErrorIs(t, err, repository.ErrBankNotFound)
}

func TestQuizService_Exam(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture(t)

	state, err := f.quiz.Start(ctx, "tg:1", service.ExamSlug)
	require.NoError(t, err)
	assert.Equal(t, service.ExamTitle, state.Title)
	assert.Equal(t, 25, state.Total)

	catalog, err := f.quiz.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, catalog, 4)
	assert.Equal(t, service.ExamSlug, catalog[3].Slug)
	assert.Equal(t, state.Total, catalog[3].Len())
	assert.Equal(t, 25, catalog[3].Len())
}

func TestQuizService_RecordingFailureKeepsResult(t *testing.T) {
	ctx := context.Background()

	quiz := service.NewQuizService(newBanks(t), storage.NewQuizStorage(), failingRecorder{}, 0, zap.NewNop())
	quiz.SetShuffler(identityShuffler{})

	state, err := quiz.Start(ctx, "tg:1", "gen-mixed")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = quiz.Answer(ctx, "tg:1", state.ID, 0)
		require.NoError(t, err)
		state, err = quiz.Advance(ctx, "tg:1", state.ID)
		require.NoError(t, err)
	}

	require.NotNil(t, state.Result)
	assert.Equal(t, 100, state.Result.Score)
	assert.False(t, state.Saved)
}

func TestSessionJanitor_Sweep(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture(t)

	_, err := f.quiz.Start(ctx, "tg:1", "gen-mixed")
	require.NoError(t, err)

	fresh := service.NewSessionJanitor(f.storage, 0, 0, zap.NewNop())
	assert.Equal(t, 0, fresh.Sweep())

	expired := service.NewSessionJanitor(f.storage, -1, 0, zap.NewNop())
	assert.Equal(t, 0, expired.Sweep(), "non-positive ttl falls back to the default")
	assert.Equal(t, 1, f.storage.Len())
}

func TestSessionJanitor_StartStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	janitor := service.NewSessionJanitor(storage.NewQuizStorage(), 0, 0, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- janitor.Start(ctx) }()

	cancel()
	require.NoError(t, <-done)
}

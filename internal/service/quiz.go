package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/ap-prep/internal/domain/entities"
	"github.com/aliskhannn/ap-prep/internal/storage"
)

const (
	// ExamSlug is the mixed practice exam assembled from every bank.
	ExamSlug  = "exam-mixed"
	ExamTitle = "Practice Exam"

	DefaultExamSize = 25
)

var (
	ErrSessionNotFound = storage.ErrSessionNotFound
	ErrNoQuestions     = errors.New("no questions available")
)

// QuizState is a read-only snapshot of a session for presentation.
type QuizState struct {
	ID       string
	Slug     string
	Title    string
	Position int // zero-based
	Total    int
	Correct  int
	Question entities.Question
	Feedback *entities.Feedback // set once the current question is answered
	Finished bool               // last question answered, waiting for the final advance
	Terminal bool
	Score    int

	// Set by the advance that completes the session.
	Result *entities.Result
	Best   int  // stored best score after recording
	Saved  bool // whether the score reached the progress store
}

// QuizService drives quiz sessions and reports final scores.
type QuizService struct {
	banks    BankRepository
	storage  QuizStorage
	scores   ScoreRecorder
	examSize int
	shuffler entities.Shuffler
	logger   *zap.Logger
}

func NewQuizService(
	banks BankRepository,
	storage QuizStorage,
	scores ScoreRecorder,
	examSize int,
	logger *zap.Logger,
) *QuizService {
	if examSize <= 0 {
		examSize = DefaultExamSize
	}

	return &QuizService{
		banks:    banks,
		storage:  storage,
		scores:   scores,
		examSize: examSize,
		logger:   logger,
	}
}

// SetShuffler replaces the random source used for question order.
// The shuffler must be safe for concurrent use.
func (s *QuizService) SetShuffler(shuffler entities.Shuffler) {
	s.shuffler = shuffler
}

// Catalog lists the available quizzes: every bank plus the practice exam.
func (s *QuizService) Catalog(ctx context.Context) ([]entities.Bank, error) {
	banks, err := s.banks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list banks: %w", err)
	}

	exam, err := s.examBank(ctx)
	if err != nil {
		return nil, err
	}
	// A started exam holds at most examSize questions.
	if len(exam.Questions) > s.examSize {
		exam.Questions = exam.Questions[:s.examSize]
	}

	return append(banks, *exam), nil
}

// Start begins a new session for owner over the bank stored under slug.
func (s *QuizService) Start(ctx context.Context, owner, slug string) (*QuizState, error) {
	bank, err := s.bankFor(ctx, slug)
	if err != nil {
		return nil, err
	}

	session, err := entities.StartQuizSession(bank.Slug, bank.Questions, s.shuffler)
	if err != nil {
		return nil, err
	}
	session.ID = uuid.NewString()

	s.storage.Store(owner, session)

	s.logger.Info("quiz session started",
		zap.String("owner", owner),
		zap.String("session_id", session.ID),
		zap.String("slug", slug),
		zap.Int("questions", session.Len()),
	)

	return snapshot(session, bank.Title), nil
}

// Get returns the current state of a session.
func (s *QuizService) Get(ctx context.Context, owner, id string) (*QuizState, error) {
	var state *QuizState

	err := s.update(owner, id, func(session *entities.QuizSession) error {
		state = snapshot(session, s.title(ctx, session.Slug))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return state, nil
}

// Answer records choice for the current question of the session.
func (s *QuizService) Answer(ctx context.Context, owner, id string, choice int) (*QuizState, error) {
	var state *QuizState

	err := s.update(owner, id, func(session *entities.QuizSession) error {
		if _, err := session.SelectAnswer(choice); err != nil {
			return err
		}
		state = snapshot(session, s.title(ctx, session.Slug))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return state, nil
}

// Advance moves the session to the next question. When the session
// completes, the score is recorded as the owner's best for the bank.
func (s *QuizService) Advance(ctx context.Context, owner, id string) (*QuizState, error) {
	var (
		state  *QuizState
		result *entities.Result
	)

	err := s.update(owner, id, func(session *entities.QuizSession) error {
		res, err := session.Advance()
		if err != nil {
			return err
		}
		result = res
		state = snapshot(session, s.title(ctx, session.Slug))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result == nil {
		return state, nil
	}

	state.Result = result

	// The session lock is released here; a slow store must not block the session.
	best, err := s.scores.RecordBest(ctx, owner, result.Slug, result.Score)
	if err != nil {
		s.logger.Error("failed to record quiz score",
			zap.String("owner", owner),
			zap.String("session_id", id),
			zap.String("slug", result.Slug),
			zap.Error(err),
		)
		return state, nil
	}

	state.Best = best
	state.Saved = true

	s.logger.Info("quiz session completed",
		zap.String("owner", owner),
		zap.String("session_id", id),
		zap.String("slug", result.Slug),
		zap.Int("correct", result.Correct),
		zap.Int("total", result.Total),
		zap.Int("score", result.Score),
		zap.Int("best", best),
	)

	return state, nil
}

// Discard drops a session, e.g. when the user abandons it.
func (s *QuizService) Discard(ctx context.Context, owner, id string) error {
	err := s.update(owner, id, func(*entities.QuizSession) error { return nil })
	if err != nil {
		return err
	}

	s.storage.Delete(id)
	return nil
}

func (s *QuizService) update(owner, id string, fn func(session *entities.QuizSession) error) error {
	return s.storage.Update(id, func(sessionOwner string, session *entities.QuizSession) error {
		if sessionOwner != owner {
			return ErrSessionNotFound
		}
		return fn(session)
	})
}

func (s *QuizService) bankFor(ctx context.Context, slug string) (*entities.Bank, error) {
	if slug != ExamSlug {
		return s.banks.GetBySlug(ctx, slug)
	}

	exam, err := s.examBank(ctx)
	if err != nil {
		return nil, err
	}

	// Pick a random subset; the session shuffles it again on start.
	questions := append([]entities.Question(nil), exam.Questions...)
	shuffle(s.shuffler, questions)
	if len(questions) > s.examSize {
		questions = questions[:s.examSize]
	}
	exam.Questions = questions

	return exam, nil
}

func (s *QuizService) examBank(ctx context.Context) (*entities.Bank, error) {
	banks, err := s.banks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list banks: %w", err)
	}

	var questions []entities.Question
	for _, b := range banks {
		questions = append(questions, b.Questions...)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	return &entities.Bank{Slug: ExamSlug, Title: ExamTitle, Questions: questions}, nil
}

func (s *QuizService) title(ctx context.Context, slug string) string {
	if slug == ExamSlug {
		return ExamTitle
	}

	bank, err := s.banks.GetBySlug(ctx, slug)
	if err != nil {
		return slug
	}
	return bank.Title
}

func shuffle(shuffler entities.Shuffler, questions []entities.Question) {
	swap := func(i, j int) { questions[i], questions[j] = questions[j], questions[i] }
	if shuffler == nil {
		rand.Shuffle(len(questions), swap)
		return
	}
	shuffler.Shuffle(len(questions), swap)
}

func snapshot(session *entities.QuizSession, title string) *QuizState {
	state := &QuizState{
		ID:       session.ID,
		Slug:     session.Slug,
		Title:    title,
		Position: session.Position(),
		Total:    session.Len(),
		Correct:  session.CorrectCount(),
		Question: session.CurrentQuestion(),
		Finished: session.Finished(),
		Terminal: session.Terminal(),
		Score:    session.Score(),
	}

	if fb, ok := session.LastFeedback(); ok {
		state.Feedback = &fb
	}

	return state
}

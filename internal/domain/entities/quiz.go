package entities

import (
	"fmt"
	"math/rand"
	"time"
)

// Shuffler permutes n elements through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// Feedback is what the user sees right after answering a question.
type Feedback struct {
	QuestionID string // answered question
	Selected   int    // choice the user picked
	Correct    bool   // whether the pick was right
	Answer     int    // index of the correct choice
	Explain    string // explanation text
	Ref        string // optional reference citation
}

// Result is emitted once when a session becomes terminal.
type Result struct {
	Slug    string // bank key the score belongs to
	Correct int    // number of correct answers
	Total   int    // number of questions in the session
	Score   int    // rounded percentage, 0-100
}

// QuizSession is one attempt at working through a shuffled bank.
//
// The question order is fixed for the lifetime of the session. The session
// only reads its own copy of the bank and never touches persistent storage;
// the final score is handed to the caller through the Result of Advance.
type QuizSession struct {
	ID        string    // session identifier assigned by the caller
	Slug      string    // bank key
	StartedAt time.Time // timestamp when the session started

	questions []Question
	position  int
	correct   int
	selection *int
	terminal  bool
}

// StartQuizSession creates a session over a uniformly shuffled copy of questions.
// A nil shuffler uses the global math/rand source.
func StartQuizSession(slug string, questions []Question, shuffler Shuffler) (*QuizSession, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: bank %q has no questions", ErrInvalidInput, slug)
	}
	if shuffler == nil {
		shuffler = globalShuffler{}
	}

	shuffled := make([]Question, len(questions))
	copy(shuffled, questions)
	shuffler.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return &QuizSession{
		Slug:      slug,
		StartedAt: time.Now(),
		questions: shuffled,
	}, nil
}

// CurrentQuestion returns the question at the current position.
func (s *QuizSession) CurrentQuestion() Question {
	return s.questions[s.position]
}

// Position returns the zero-based index of the current question.
func (s *QuizSession) Position() int {
	return s.position
}

// Len returns the number of questions in the session.
func (s *QuizSession) Len() int {
	return len(s.questions)
}

// CorrectCount returns the number of correct answers so far.
func (s *QuizSession) CorrectCount() int {
	return s.correct
}

// Selection returns the recorded choice for the current question, if any.
func (s *QuizSession) Selection() (int, bool) {
	if s.selection == nil {
		return 0, false
	}
	return *s.selection, true
}

// Answered reports whether the current question has a recorded choice.
func (s *QuizSession) Answered() bool {
	return s.selection != nil
}

// IsLast reports whether the current question is the last one.
func (s *QuizSession) IsLast() bool {
	return s.position == len(s.questions)-1
}

// Finished reports whether the last question has been answered.
// The final Advance is still needed to make the session terminal.
func (s *QuizSession) Finished() bool {
	return s.IsLast() && s.selection != nil
}

// Terminal reports whether the session has been completed by Advance.
func (s *QuizSession) Terminal() bool {
	return s.terminal
}

// Score returns the current rounded percentage of correct answers.
func (s *QuizSession) Score() int {
	return Percentage(s.correct, len(s.questions))
}

// SelectAnswer records choice for the current question. The selection is
// locked once made; nothing is mutated when an error is returned.
func (s *QuizSession) SelectAnswer(choice int) (Feedback, error) {
	if s.terminal {
		return Feedback{}, ErrSessionFinished
	}
	if s.selection != nil {
		return Feedback{}, ErrAnswerLocked
	}

	q := s.questions[s.position]
	if choice < 0 || choice >= len(q.Choices) {
		return Feedback{}, fmt.Errorf("%w: choice %d out of range [0, %d)", ErrInvalidInput, choice, len(q.Choices))
	}

	s.selection = &choice
	if q.IsCorrect(choice) {
		s.correct++
	}

	return s.feedback(q, choice), nil
}

// LastFeedback returns the feedback of the current question if it was answered.
func (s *QuizSession) LastFeedback() (Feedback, bool) {
	if s.selection == nil {
		return Feedback{}, false
	}
	return s.feedback(s.questions[s.position], *s.selection), true
}

func (s *QuizSession) feedback(q Question, choice int) Feedback {
	return Feedback{
		QuestionID: q.ID,
		Selected:   choice,
		Correct:    q.IsCorrect(choice),
		Answer:     q.Answer,
		Explain:    q.Explain,
		Ref:        q.Ref,
	}
}

// Advance moves to the next question. Advancing past an unanswered question
// skips it. On the last question the session becomes terminal and the
// final result is returned; otherwise the result is nil.
func (s *QuizSession) Advance() (*Result, error) {
	if s.terminal {
		return nil, ErrSessionFinished
	}

	if s.position+1 < len(s.questions) {
		s.position++
		s.selection = nil
		return nil, nil
	}

	s.terminal = true
	return &Result{
		Slug:    s.Slug,
		Correct: s.correct,
		Total:   len(s.questions),
		Score:   s.Score(),
	}, nil
}

// Percentage returns round-half-up(correct / total * 100).
// Integer arithmetic keeps halves exact.
func Percentage(correct, total int) int {
	if total <= 0 || correct <= 0 {
		return 0
	}
	return (correct*200 + total) / (2 * total)
}

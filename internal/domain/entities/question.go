// Package entities contains domain entities used across the application.
package entities

import (
	"fmt"
	"strings"
)

// Question is a single multiple-choice item of a question bank.
// It is immutable once loaded.
type Question struct {
	ID      string   `json:"id"`            // unique within a bank
	Prompt  string   `json:"q"`             // question text
	Choices []string `json:"choices"`       // ordered answer choices (at least two)
	Answer  int      `json:"answer"`        // zero-based index of the correct choice
	Explain string   `json:"explain"`       // explanation shown after answering
	Ref     string   `json:"ref,omitempty"` // optional reference citation
}

// Validate checks that the question can be asked.
func (q Question) Validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return fmt.Errorf("%w: question id is empty", ErrInvalidInput)
	}
	if len(q.Choices) < 2 {
		return fmt.Errorf("%w: question %q has %d choices, need at least 2", ErrInvalidInput, q.ID, len(q.Choices))
	}
	if q.Answer < 0 || q.Answer >= len(q.Choices) {
		return fmt.Errorf("%w: question %q answer index %d out of range", ErrInvalidInput, q.ID, q.Answer)
	}
	return nil
}

// IsCorrect reports whether choice is the correct answer.
func (q Question) IsCorrect(choice int) bool {
	return choice == q.Answer
}

// Bank is the ordered set of questions for a subject area.
type Bank struct {
	Slug      string     // key the best score is stored under
	Title     string     // human-readable subject name
	Questions []Question // ordered questions
}

// Validate rejects empty banks, duplicate ids and malformed questions.
func (b Bank) Validate() error {
	if len(b.Questions) == 0 {
		return fmt.Errorf("%w: bank %q has no questions", ErrInvalidInput, b.Slug)
	}

	seen := make(map[string]struct{}, len(b.Questions))
	for _, q := range b.Questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("bank %q: %w", b.Slug, err)
		}
		if _, ok := seen[q.ID]; ok {
			return fmt.Errorf("%w: bank %q has duplicate question id %q", ErrInvalidInput, b.Slug, q.ID)
		}
		seen[q.ID] = struct{}{}
	}

	return nil
}

// Len returns the number of questions in the bank.
func (b Bank) Len() int {
	return len(b.Questions)
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/aliskhannn/ap-prep/internal/domain/entities"
)

var ErrBankNotFound = errors.New("question bank not found")

// Subject maps a bank slug to its JSON file.
type Subject struct {
	Slug  string
	Title string
	File  string
}

// DefaultSubjects lists the banks shipped in assets/questions.
var DefaultSubjects = []Subject{
	{Slug: "gen-mixed", Title: "General", File: "general.json"},
	{Slug: "air-mixed", Title: "Airframe", File: "airframe.json"},
	{Slug: "pp-mixed", Title: "Powerplant", File: "powerplant.json"},
}

// BankRepository provides read-only access to the question banks.
// Banks are loaded and validated once at construction.
type BankRepository struct {
	banks []entities.Bank
	index map[string]int
}

// NewBankRepository loads every subject's bank from fsys.
func NewBankRepository(fsys fs.FS, subjects []Subject) (*BankRepository, error) {
	r := &BankRepository{
		banks: make([]entities.Bank, 0, len(subjects)),
		index: make(map[string]int, len(subjects)),
	}

	for _, s := range subjects {
		if _, ok := r.index[s.Slug]; ok {
			return nil, fmt.Errorf("duplicate bank slug %q", s.Slug)
		}

		questions, err := loadQuestions(fsys, s.File)
		if err != nil {
			return nil, fmt.Errorf("load bank %q: %w", s.Slug, err)
		}

		bank := entities.Bank{Slug: s.Slug, Title: s.Title, Questions: questions}
		if err := bank.Validate(); err != nil {
			return nil, err
		}

		r.index[s.Slug] = len(r.banks)
		r.banks = append(r.banks, bank)
	}

	return r, nil
}

// GetBySlug returns the bank stored under slug.
func (r *BankRepository) GetBySlug(_ context.Context, slug string) (*entities.Bank, error) {
	i, ok := r.index[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBankNotFound, slug)
	}

	bank := r.banks[i]
	return &bank, nil
}

// List returns all banks in catalog order.
func (r *BankRepository) List(_ context.Context) ([]entities.Bank, error) {
	out := make([]entities.Bank, len(r.banks))
	copy(out, r.banks)
	return out, nil
}

func loadQuestions(fsys fs.FS, name string) ([]entities.Question, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}

	var questions []entities.Question
	if err = json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions JSON: %w", err)
	}

	return questions, nil
}

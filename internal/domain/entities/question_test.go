package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aliskhannn/ap-prep/internal/domain/entities"
)

func TestBankValidate(t *testing.T) {
	valid := entities.Question{ID: "q1", Prompt: "?", Choices: []string{"a", "b"}, Answer: 1}

	tests := []struct {
		name    string
		bank    entities.Bank
		wantErr bool
	}{
		{"ok", entities.Bank{Slug: "b", Questions: []entities.Question{valid}}, false},
		{"empty", entities.Bank{Slug: "b"}, true},
		{"one choice", entities.Bank{Slug: "b", Questions: []entities.Question{{ID: "q", Choices: []string{"a"}}}}, true},
		{"answer out of range", entities.Bank{Slug: "b", Questions: []entities.Question{{ID: "q", Choices: []string{"a", "b"}, Answer: 2}}}, true},
		{"blank id", entities.Bank{Slug: "b", Questions: []entities.Question{{ID: " ", Choices: []string{"a", "b"}}}}, true},
		{"duplicate id", entities.Bank{Slug: "b", Questions: []entities.Question{valid, valid}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bank.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, entities.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

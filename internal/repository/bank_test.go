package repository_test

import (
	"context"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/ap-prep/assets"
	"github.com/aliskhannn/ap-prep/internal/repository"
)

func TestBankRepositoryEmbedded(t *testing.T) {
	sub, err := fs.Sub(assets.Questions, "questions")
	require.NoError(t, err)

	repo, err := repository.NewBankRepository(sub, repository.DefaultSubjects)
	require.NoError(t, err)

	ctx := context.Background()
	banks, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, banks, 3)
	assert.Equal(t, "gen-mixed", banks[0].Slug)

	gen, err := repo.GetBySlug(ctx, "gen-mixed")
	require.NoError(t, err)
	assert.Equal(t, 4, gen.Len())
	assert.Equal(t, "gen-elec-001", gen.Questions[0].ID)
	assert.Equal(t, "FAA-H-8083-30 Ch.12", gen.Questions[0].Ref)

	_, err = repo.GetBySlug(ctx, "nope")
	assert.ErrorIs(t, err, repository.ErrBankNotFound)
}

func TestBankRepositoryRejectsBadData(t *testing.T) {
	subjects := []repository.Subject{{Slug: "x", Title: "X", File: "x.json"}}

	tests := []struct {
		name string
		data string
	}{
		{"empty bank", `[]`},
		{"corrupt json", `[{"id":`},
		{"answer out of range", `[{"id":"a","q":"?","choices":["1","2"],"answer":5,"explain":""}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{"x.json": {Data: []byte(tt.data)}}
			_, err := repository.NewBankRepository(fsys, subjects)
			assert.Error(t, err)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := repository.NewBankRepository(fstest.MapFS{}, subjects)
		assert.Error(t, err)
	})
}

package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/ap-prep/internal/domain/entities"
)

// progressKey is the storage key of the anonymous owner's progress.
const progressKey = "ap-progress"

// ProgressSummary is what the progress page shows.
type ProgressSummary struct {
	Entries []entities.ScoreEntry
}

// ProgressService keeps each owner's best score per bank.
type ProgressService struct {
	store  BlobStore
	logger *zap.Logger
}

func NewProgressService(store BlobStore, logger *zap.Logger) *ProgressService {
	return &ProgressService{store: store, logger: logger}
}

// Load returns the owner's progress. A corrupt stored value is treated as empty.
func (s *ProgressService) Load(ctx context.Context, owner string) (*entities.Progress, error) {
	raw, err := s.store.Load(ctx, ownerKey(owner))
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	return s.decode(owner, raw), nil
}

// RecordBest stores max(stored, score) for slug and returns the stored best.
func (s *ProgressService) RecordBest(ctx context.Context, owner, slug string, score int) (int, error) {
	var best int

	err := s.store.Modify(ctx, ownerKey(owner), func(current []byte) ([]byte, error) {
		p := s.decode(owner, current)
		best = p.RecordBest(slug, score)
		return p.Encode()
	})
	if err != nil {
		return 0, fmt.Errorf("record best score: %w", err)
	}

	s.logger.Debug("best score recorded",
		zap.String("owner", owner),
		zap.String("slug", slug),
		zap.Int("score", score),
		zap.Int("best", best),
	)

	return best, nil
}

// Summary returns the owner's scores sorted by slug.
func (s *ProgressService) Summary(ctx context.Context, owner string) (*ProgressSummary, error) {
	p, err := s.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	return &ProgressSummary{Entries: p.Entries()}, nil
}

// Reset forgets every best score of the owner.
func (s *ProgressService) Reset(ctx context.Context, owner string) error {
	if err := s.store.Delete(ctx, ownerKey(owner)); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}

	s.logger.Info("progress reset", zap.String("owner", owner))
	return nil
}

func (s *ProgressService) decode(owner string, raw []byte) *entities.Progress {
	p, ok := entities.DecodeProgress(raw)
	if !ok {
		s.logger.Warn("corrupt progress value, starting from empty scores",
			zap.String("owner", owner),
			zap.Int("bytes", len(raw)),
		)
	}
	return p
}

func ownerKey(owner string) string {
	if owner == "" {
		return progressKey
	}
	return progressKey + ":" + owner
}

package service

import (
	"context"
	"time"

	"github.com/aliskhannn/ap-prep/internal/domain/entities"
)

// BankRepository provides read access to the question banks.
type BankRepository interface {
	GetBySlug(ctx context.Context, slug string) (*entities.Bank, error)
	List(ctx context.Context) ([]entities.Bank, error)
}

// BlobStore persists opaque values by key.
// Load returns nil without an error when the key is missing.
// Modify is an atomic read-modify-write of one key.
type BlobStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Modify(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error
	Delete(ctx context.Context, key string) error
}

// QuizStorage keeps active quiz sessions.
type QuizStorage interface {
	Store(owner string, session *entities.QuizSession)
	Update(id string, fn func(owner string, session *entities.QuizSession) error) error
	Delete(id string)
	DeleteIdle(ttl time.Duration) int
}

// ScoreRecorder receives final quiz scores.
type ScoreRecorder interface {
	RecordBest(ctx context.Context, owner, slug string, score int) (int, error)
}

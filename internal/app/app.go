// Package app wires configuration into the services shared by the bot and web binaries.
package app

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/aliskhannn/ap-prep/assets"
	"github.com/aliskhannn/ap-prep/internal/config"
	"github.com/aliskhannn/ap-prep/internal/domain/entities"
	"github.com/aliskhannn/ap-prep/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/ap-prep/internal/infra/postgres/repository"
	"github.com/aliskhannn/ap-prep/internal/repository"
	"github.com/aliskhannn/ap-prep/internal/service"
	"github.com/aliskhannn/ap-prep/internal/storage"
)

// App holds the wired services.
type App struct {
	Quiz     *service.QuizService
	Progress *service.ProgressService
	Circuit  *service.CircuitService
	Janitor  *service.SessionJanitor

	closers []func()
}

// New builds the services from cfg. Close must be called to release the database pool.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{}

	banksFS, err := questionsFS(cfg.QuestionsDir)
	if err != nil {
		return nil, err
	}

	banks, err := repository.NewBankRepository(banksFS, repository.DefaultSubjects)
	if err != nil {
		return nil, fmt.Errorf("load question banks: %w", err)
	}

	blobs, err := a.blobStore(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	limits := entities.CircuitLimits{
		VoltageMin:    cfg.Circuit.VoltageMin,
		VoltageMax:    cfg.Circuit.VoltageMax,
		ResistanceMin: cfg.Circuit.ResistanceMin,
		ResistanceMax: cfg.Circuit.ResistanceMax,
	}
	circuit, err := service.NewCircuitService(limits, cfg.Circuit.Decimals)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("circuit limits: %w", err)
	}

	sessions := storage.NewQuizStorage()

	a.Progress = service.NewProgressService(blobs, logger)
	a.Quiz = service.NewQuizService(banks, sessions, a.Progress, cfg.Quiz.ExamSize, logger)
	a.Circuit = circuit
	a.Janitor = service.NewSessionJanitor(sessions, cfg.Quiz.SessionTTL, cfg.Quiz.SweepInterval, logger)

	return a, nil
}

// Close releases external resources.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) blobStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.BlobStore, error) {
	switch cfg.Progress.Backend {
	case config.BackendMemory:
		logger.Warn("progress is kept in memory and lost on restart")
		return storage.NewMemoryBlobStore(), nil

	case config.BackendFile:
		store, err := storage.NewFileBlobStore(cfg.Progress.Dir)
		if err != nil {
			return nil, fmt.Errorf("open progress dir: %w", err)
		}
		logger.Info("progress stored in files", zap.String("dir", cfg.Progress.Dir))
		return store, nil

	case config.BackendPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, err
		}

		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        cfg.DB.MaxConnections,
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.closers = append(a.closers, pool.Close)

		repo := pgrepo.NewProgressBlobRepository(pool, postgres.NewTransactor(pool))
		if err = repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}

		logger.Info("progress stored in postgres")
		return repo, nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownProgressBackend, cfg.Progress.Backend)
	}
}

func questionsFS(dir string) (fs.FS, error) {
	if dir != "" {
		return os.DirFS(dir), nil
	}

	sub, err := fs.Sub(assets.Questions, "questions")
	if err != nil {
		return nil, fmt.Errorf("embedded questions: %w", err)
	}
	return sub, nil
}

package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/ap-prep/internal/domain/entities"
	"github.com/aliskhannn/ap-prep/internal/service"
)

type QuizService interface {
	Catalog(ctx context.Context) ([]entities.Bank, error)
	Start(ctx context.Context, owner, slug string) (*service.QuizState, error)
	Get(ctx context.Context, owner, id string) (*service.QuizState, error)
	Answer(ctx context.Context, owner, id string, choice int) (*service.QuizState, error)
	Advance(ctx context.Context, owner, id string) (*service.QuizState, error)
	Discard(ctx context.Context, owner, id string) error
}

type ProgressService interface {
	Summary(ctx context.Context, owner string) (*service.ProgressSummary, error)
	Reset(ctx context.Context, owner string) error
}

type CircuitService interface {
	Simulate(state entities.CircuitState) (*service.CircuitReport, error)
}

type Handler struct {
	quiz     QuizService
	progress ProgressService
	circuit  CircuitService
	logger   *zap.Logger
}

func NewHandler(quiz QuizService, progress ProgressService, circuit CircuitService, logger *zap.Logger) *Handler {
	return &Handler{quiz: quiz, progress: progress, circuit: circuit, logger: logger}
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := h.quiz.Catalog(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	JSON(w, http.StatusOK, toBankViews(banks))
}

func (h *Handler) StartQuiz(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Slug string `json:"slug"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Slug == "" {
		h.fail(w, r, fmt.Errorf("%w: body must be {\"slug\": \"...\"}", entities.ErrInvalidInput))
		return
	}

	state, err := h.quiz.Start(r.Context(), Owner(r.Context()), payload.Slug)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	JSON(w, http.StatusCreated, toQuizView(state))
}

func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	state, err := h.quiz.Get(r.Context(), Owner(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	JSON(w, http.StatusOK, toQuizView(state))
}

func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Choice *int `json:"choice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Choice == nil {
		h.fail(w, r, fmt.Errorf("%w: body must be {\"choice\": <index>}", entities.ErrInvalidInput))
		return
	}

	state, err := h.quiz.Answer(r.Context(), Owner(r.Context()), chi.URLParam(r, "id"), *payload.Choice)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	JSON(w, http.StatusOK, toQuizView(state))
}

func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	state, err := h.quiz.Advance(r.Context(), Owner(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	JSON(w, http.StatusOK, toQuizView(state))
}

func (h *Handler) DiscardQuiz(w http.ResponseWriter, r *http.Request) {
	if err := h.quiz.Discard(r.Context(), Owner(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	summary, err := h.progress.Summary(r.Context(), Owner(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	titles := make(map[string]string)
	if banks, err := h.quiz.Catalog(r.Context()); err == nil {
		for _, b := range banks {
			titles[b.Slug] = b.Title
		}
	}

	view := progressView{Scores: make([]scoreView, 0, len(summary.Entries))}
	for _, e := range summary.Entries {
		title := titles[e.Slug]
		if title == "" {
			title = e.Slug
		}
		view.Scores = append(view.Scores, scoreView{Slug: e.Slug, Title: title, Score: e.Score})
	}

	JSON(w, http.StatusOK, view)
}

func (h *Handler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	if err := h.progress.Reset(r.Context(), Owner(r.Context())); err != nil {
		h.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Circuit serves GET /api/circuit?mode=series&v=28&r1=10&r2=4.
func (h *Handler) Circuit(w http.ResponseWriter, r *http.Request) {
	state, err := parseCircuitQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	report, err := h.circuit.Simulate(state)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	JSON(w, http.StatusOK, toCircuitView(report))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := writeError(w, err); status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func parseCircuitQuery(r *http.Request) (entities.CircuitState, error) {
	q := r.URL.Query()

	mode := q.Get("mode")
	if mode == "" {
		mode = string(entities.TopologySeries)
	}
	topology, err := entities.ParseTopology(mode)
	if err != nil {
		return entities.CircuitState{}, err
	}

	var values [3]float64
	for i, key := range []string{"v", "r1", "r2"} {
		raw := q.Get(key)
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return entities.CircuitState{}, fmt.Errorf("%w: %s=%q is not a number", entities.ErrInvalidInput, key, raw)
		}
		values[i] = v
	}

	return entities.CircuitState{
		Voltage:  values[0],
		R1:       values[1],
		R2:       values[2],
		Topology: topology,
	}, nil
}

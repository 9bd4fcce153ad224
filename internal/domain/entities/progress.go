package entities

import (
	"encoding/json"
	"sort"
)

// Progress stores the best quiz score per bank slug.
// It is persisted as a single JSON object: {"scores": {"<slug>": <int>}}.
type Progress struct {
	Scores map[string]int `json:"scores"`
}

// ScoreEntry is one row of the progress page.
type ScoreEntry struct {
	Slug  string `json:"slug"`
	Score int    `json:"score"`
}

// NewProgress returns an empty progress value.
func NewProgress() *Progress {
	return &Progress{Scores: make(map[string]int)}
}

// DecodeProgress parses a stored progress blob. Missing or corrupt data
// never fails: it falls back to empty scores and reports ok=false.
func DecodeProgress(raw []byte) (p *Progress, ok bool) {
	if len(raw) == 0 {
		return NewProgress(), true
	}

	var decoded Progress
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return NewProgress(), false
	}
	if decoded.Scores == nil {
		decoded.Scores = make(map[string]int)
	}

	return &decoded, true
}

// Encode serializes progress in its storage format.
func (p *Progress) Encode() ([]byte, error) {
	if p.Scores == nil {
		p.Scores = make(map[string]int)
	}
	return json.Marshal(p)
}

// Best returns the stored best score for slug, or 0.
func (p *Progress) Best(slug string) int {
	return p.Scores[slug]
}

// RecordBest keeps the higher of the stored and the new score and returns it.
// Scores are clamped to 0-100.
func (p *Progress) RecordBest(slug string, score int) int {
	if p.Scores == nil {
		p.Scores = make(map[string]int)
	}

	score = min(max(score, 0), 100)
	best := max(p.Scores[slug], score)
	p.Scores[slug] = best

	return best
}

// Entries returns scores sorted by slug.
func (p *Progress) Entries() []ScoreEntry {
	entries := make([]ScoreEntry, 0, len(p.Scores))
	for slug, score := range p.Scores {
		entries = append(entries, ScoreEntry{Slug: slug, Score: score})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Slug < entries[j].Slug
	})

	return entries
}

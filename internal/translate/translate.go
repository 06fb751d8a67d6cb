// Package translate enriches foreign-language items through a remote
// translation/summarization collaborator. Enrichment is best-effort: any
// failure keeps the original text and never drops an item.
package translate

import (
	"context"
	"log/slog"
	"strings"

	"newsbrief/internal/metrics"
	"newsbrief/internal/news"
	"newsbrief/internal/ratelimit"
)

// Translation is the strict two-field contract with the remote service.
type Translation struct {
	Title   string `json:"title_zh"`
	Summary string `json:"summary_zh"`
}

// Translator is one remote translation backend.
type Translator interface {
	Translate(ctx context.Context, title, description string) (*Translation, error)
}

// Enriched pairs an item with how it was produced, so callers and tests can
// tell a translated item from one that fell back to its source text.
type Enriched struct {
	Item       news.Item
	Translated bool
}

// Enricher applies the translator to a batch with pacing and a per-run
// call budget.
type Enricher struct {
	translator Translator
	pacer      *ratelimit.Pacer
	budget     *ratelimit.Budget
	log        *slog.Logger
}

func NewEnricher(tr Translator, pacer *ratelimit.Pacer, budget *ratelimit.Budget, log *slog.Logger) *Enricher {
	if log == nil {
		log = slog.Default()
	}
	return &Enricher{translator: tr, pacer: pacer, budget: budget, log: log}
}

// EnrichAll translates each item in order. Failed or skipped translations
// yield the item unchanged, flagged as not translated.
func (e *Enricher) EnrichAll(ctx context.Context, items []news.Item) []Enriched {
	out := make([]Enriched, 0, len(items))
	for _, it := range items {
		out = append(out, e.enrichOne(ctx, it))
	}
	return out
}

func (e *Enricher) enrichOne(ctx context.Context, it news.Item) Enriched {
	degraded := Enriched{Item: it}

	if e == nil || e.translator == nil {
		return degraded
	}

	if !e.budget.Take() {
		e.log.Debug("translation budget exhausted, keeping original", "title", it.Title)
		return degraded
	}

	// pacing between remote calls; a cancelled run degrades the rest of
	// the batch instead of aborting it
	if err := e.pacer.Wait(ctx); err != nil {
		e.log.Warn("translation pacing interrupted, keeping original", "title", it.Title, "err", err)
		return degraded
	}

	tr, err := e.translator.Translate(ctx, it.Title, it.Description)
	if err != nil {
		metrics.Global.IncrementTranslationsFallback()
		e.log.Warn("translation failed, keeping original", "title", it.Title, "err", err)
		return degraded
	}

	title := strings.TrimSpace(tr.Title)
	summary := strings.TrimSpace(tr.Summary)
	if title == "" || (it.Description != "" && summary == "") {
		metrics.Global.IncrementTranslationsFallback()
		e.log.Warn("translator returned incomplete result, keeping original", "title", it.Title)
		return degraded
	}

	it.Title = title
	if summary != "" {
		it.Description = summary
	}
	metrics.Global.IncrementTranslationsOK()
	return Enriched{Item: it, Translated: true}
}

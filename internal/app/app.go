// Package app runs the daily pipeline: fetch, normalize, filter, dedupe,
// enrich, record, render, deliver — once per configured topic.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"newsbrief/internal/config"
	"newsbrief/internal/dedupe"
	"newsbrief/internal/metrics"
	"newsbrief/internal/news"
	"newsbrief/internal/provider"
	"newsbrief/internal/push"
	"newsbrief/internal/report"
	"newsbrief/internal/retry"
	"newsbrief/internal/translate"
	"newsbrief/internal/upload"
)

// App wires the pipeline stages together for one batch run.
type App struct {
	cfg       *config.Config
	topics    config.Topics
	providers []provider.Provider
	dedupe    *dedupe.Deduplicator
	enricher  *translate.Enricher
	fanout    *push.Fanout
	uploader  upload.Uploader // nil when the hosted-artifact variant is off
	log       *slog.Logger

	now func() time.Time
}

func New(cfg *config.Config, topics config.Topics, providers []provider.Provider,
	ddp *dedupe.Deduplicator, enricher *translate.Enricher, fanout *push.Fanout,
	uploader upload.Uploader, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	return &App{
		cfg:       cfg,
		topics:    topics,
		providers: providers,
		dedupe:    ddp,
		enricher:  enricher,
		fanout:    fanout,
		uploader:  uploader,
		log:       log,
		now:       time.Now,
	}
}

// Run processes every configured topic concurrently and waits for all of
// them. Per-item and per-endpoint failures are logged and counted, never
// escalated: a batch run ends cleanly even when some deliveries failed.
func (a *App) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for category, label := range a.topics {
		wg.Add(1)
		go func(category, label string) {
			defer wg.Done()
			a.runTopic(ctx, category, label)
		}(category, label)
	}
	wg.Wait()

	metrics.Global.SetLastRun()
}

func (a *App) runTopic(ctx context.Context, category, label string) {
	today := a.now().Format("2006-01-02")
	log := a.log.With("topic", category)

	items := a.collect(ctx, log, category)
	fresh := news.FilterByDate(items, today)
	log.Info("topic collected", "fetched", len(items), "today", len(fresh))

	novel, duplicate := a.dedupe.Split(ctx, fresh)
	metrics.Global.AddDuplicatesSkipped(len(duplicate))

	if len(novel) == 0 {
		log.Info("no new items, sending no-update notice")
		a.fanout.NotifyNoUpdate(ctx,
			fmt.Sprintf("%s %s（无更新）", today, label),
			"今天没有新闻更新。")
		return
	}

	enriched := a.enricher.EnrichAll(ctx, novel)

	// Record under the original natural keys: enrichment rewrites titles,
	// and the next run's existence checks see provider-native titles.
	a.dedupe.RecordAll(ctx, novel)

	rendered := make([]news.Item, len(enriched))
	for i, e := range enriched {
		rendered[i] = e.Item
	}
	body := report.Render(rendered, today, label)
	rep := report.New(fmt.Sprintf("%s %s日报", today, label), label, today, body,
		a.cfg.ChunkLimit, report.DefaultMarker)

	link := a.publish(ctx, log, body, today, category)

	outcomes := a.fanout.Deliver(ctx, rep, link)
	var failed int
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	log.Info("topic delivered",
		"items", len(novel), "parts", len(rep.Parts),
		"sends", len(outcomes), "failed", failed)
}

// collect fetches and normalizes raw records from every provider for one
// category. A provider that keeps failing after retries contributes
// nothing; the topic goes on with whatever the other providers returned.
func (a *App) collect(ctx context.Context, log *slog.Logger, category string) []news.Item {
	retryCfg := retry.Config{
		MaxAttempts: a.cfg.RetryAttempts,
		Delay:       a.cfg.RetryDelay,
	}

	var items []news.Item
	for _, p := range a.providers {
		var raw []map[string]any
		err := retry.Do(ctx, retryCfg, func() error {
			var ferr error
			raw, ferr = p.Fetch(ctx, category, a.cfg.FetchLimit)
			return ferr
		})
		if err != nil {
			log.Warn("provider fetch failed", "provider", p.Name(), "error", err)
			continue
		}
		metrics.Global.AddItemsFetched(len(raw))

		schema := p.Schema()
		for _, rec := range raw {
			item, err := news.Normalize(category, rec, schema)
			if err != nil {
				metrics.Global.IncrementItemsMalformed()
				log.Debug("dropping malformed record", "provider", p.Name(), "error", err)
				continue
			}
			items = append(items, item)
		}
	}
	return items
}

// publish uploads the rendered document and returns its public link.
// Upload failure only costs the link, never the push.
func (a *App) publish(ctx context.Context, log *slog.Logger, body, date, category string) string {
	if a.uploader == nil {
		return ""
	}
	filename := fmt.Sprintf("%s-%s.html", date, category)
	link, err := a.uploader.Upload(ctx, []byte(body), filename)
	if err != nil {
		log.Warn("report upload failed, pushing without link", "error", err)
		return ""
	}
	return link
}

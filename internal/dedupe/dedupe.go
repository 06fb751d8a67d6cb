// Package dedupe splits filtered items into novel and already-delivered
// sets against a persistence collaborator, and records novel items so
// future runs see them as duplicates.
package dedupe

import (
	"context"
	"log/slog"

	"newsbrief/internal/news"
)

// Record is the persisted projection of an item's natural key.
type Record struct {
	Title       string
	PublishTime string
	Category    string
	Source      string
}

// Store is the persistence collaborator. Implementations must be safe for
// concurrent use; per-topic pipelines share one store.
type Store interface {
	Exists(ctx context.Context, title, publishTime string) (bool, error)
	Insert(ctx context.Context, rec Record) error
}

// Unavailable is a Store placeholder used when the configured store could
// not be reached at startup. Every existence check fails, which the
// deduplicator resolves fail-open, and every insert fails, which the
// recorder logs. A store outage therefore degrades dedup instead of
// suppressing delivery.
type Unavailable struct {
	Reason error
}

func (u Unavailable) Exists(context.Context, string, string) (bool, error) { return false, u.Reason }
func (u Unavailable) Insert(context.Context, Record) error                 { return u.Reason }

// Deduplicator classifies items by natural key against the store.
type Deduplicator struct {
	store Store
	log   *slog.Logger
}

func New(store Store, log *slog.Logger) *Deduplicator {
	if log == nil {
		log = slog.Default()
	}
	return &Deduplicator{store: store, log: log}
}

// Split partitions items into novel and duplicate, preserving input order.
// A failed existence check classifies the item as novel: a transient store
// error must not silently drop news, at the cost of a possible duplicate
// delivery.
func (d *Deduplicator) Split(ctx context.Context, items []news.Item) (novel, duplicate []news.Item) {
	for _, it := range items {
		title, publishTime := it.Key()

		seen, err := d.store.Exists(ctx, title, publishTime)
		if err != nil {
			d.log.Warn("dedup check failed, treating item as novel",
				"title", title, "err", err)
			novel = append(novel, it)
			continue
		}

		if seen {
			duplicate = append(duplicate, it)
		} else {
			novel = append(novel, it)
		}
	}
	return novel, duplicate
}

// RecordAll persists the natural keys of accepted items. Insert failures are
// logged per item and never abort the batch; the items are delivered anyway
// and may be re-delivered on a future run.
func (d *Deduplicator) RecordAll(ctx context.Context, items []news.Item) {
	for _, it := range items {
		rec := Record{
			Title:       it.Title,
			PublishTime: it.PublishTime,
			Category:    it.Category,
			Source:      it.SourceName,
		}
		if err := d.store.Insert(ctx, rec); err != nil {
			d.log.Warn("failed to record delivered item", "title", it.Title, "err", err)
		}
	}
}

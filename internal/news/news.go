// Package news holds the canonical news item model and the stages that
// shape provider payloads into it: normalization and recency filtering.
package news

import (
	"errors"
	"fmt"
	"strings"
)

// Item is the canonical news item shared by every pipeline stage.
type Item struct {
	Category    string
	Title       string
	Description string
	ImageURL    string
	SourceName  string

	// PublishTime keeps the provider-native timestamp string untouched.
	// Formats differ per provider, so only the date prefix is ever compared.
	PublishTime string
}

// Key returns the natural key used for duplicate detection across runs.
func (i Item) Key() (title, publishTime string) {
	return i.Title, i.PublishTime
}

// Schema maps one provider's field names onto the canonical item.
// Providers use disjoint schemas (ctime/picUrl vs published_at/image),
// so every lookup goes through this table instead of ad hoc field checks.
type Schema struct {
	Source     string
	TitleField string
	DescField  string
	ImageField string
	TimeField  string
}

// ErrMalformedItem marks a raw record whose natural key cannot be built.
var ErrMalformedItem = errors.New("news: item missing title or publish time")

// Normalize maps one raw provider record into a canonical Item using the
// provider's schema. Records without a complete natural key (title and
// publish time) are rejected with ErrMalformedItem and dropped upstream.
func Normalize(category string, raw map[string]any, s Schema) (Item, error) {
	title := stringField(raw, s.TitleField)
	publishTime := stringField(raw, s.TimeField)

	if title == "" || publishTime == "" {
		return Item{}, fmt.Errorf("%w (source %s)", ErrMalformedItem, s.Source)
	}

	return Item{
		Category:    category,
		Title:       title,
		Description: stringField(raw, s.DescField),
		ImageURL:    stringField(raw, s.ImageField),
		SourceName:  s.Source,
		PublishTime: publishTime,
	}, nil
}

// FilterByDate retains items whose publish time contains the literal date
// string (e.g. "2024-06-01"). This is a deliberate textual match: provider
// timestamp formats vary and none guarantees a timezone, so the date prefix
// is the only portion safe to compare.
func FilterByDate(items []Item, date string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if strings.Contains(it.PublishTime, date) {
			out = append(out, it)
		}
	}
	return out
}

func stringField(raw map[string]any, field string) string {
	if field == "" {
		return ""
	}
	v, ok := raw[field]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

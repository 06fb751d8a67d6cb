package translate

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsbrief/internal/news"
	"newsbrief/internal/ratelimit"
)

type fakeTranslator struct {
	result *Translation
	err    error
	calls  int
}

func (f *fakeTranslator) Translate(_ context.Context, title, description string) (*Translation, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newEnricher(tr Translator, budget *ratelimit.Budget) *Enricher {
	return NewEnricher(tr, ratelimit.NewPacer(0), budget, slog.Default())
}

func sampleItems() []news.Item {
	return []news.Item{
		{Title: "Quarterly results announced", Description: "The company reported growth.", PublishTime: "2024-06-01 09:00:00"},
		{Title: "New factory opens", Description: "Production starts next month.", PublishTime: "2024-06-01 10:00:00"},
	}
}

func TestEnrichAllReplacesTextOnSuccess(t *testing.T) {
	tr := &fakeTranslator{result: &Translation{Title: "公布季度业绩", Summary: "公司报告了增长。"}}
	e := newEnricher(tr, nil)

	out := e.EnrichAll(context.Background(), sampleItems())
	require.Len(t, out, 2)
	for _, en := range out {
		assert.True(t, en.Translated)
		assert.Equal(t, "公布季度业绩", en.Item.Title)
		assert.Equal(t, "公司报告了增长。", en.Item.Description)
	}
}

func TestEnrichAllFallsBackOnFailure(t *testing.T) {
	tr := &fakeTranslator{err: errors.New("timeout")}
	e := newEnricher(tr, nil)
	items := sampleItems()

	out := e.EnrichAll(context.Background(), items)
	require.Len(t, out, 2)
	for i, en := range out {
		assert.False(t, en.Translated)
		assert.Equal(t, items[i], en.Item) // originals unchanged
	}
}

func TestEnrichAllFallsBackOnIncompleteResult(t *testing.T) {
	tr := &fakeTranslator{result: &Translation{Title: "", Summary: "摘要"}}
	e := newEnricher(tr, nil)

	out := e.EnrichAll(context.Background(), sampleItems())
	for _, en := range out {
		assert.False(t, en.Translated)
	}
}

func TestEnrichAllRespectsBudget(t *testing.T) {
	tr := &fakeTranslator{result: &Translation{Title: "译文", Summary: "摘要"}}
	e := newEnricher(tr, ratelimit.NewBudget(1))

	out := e.EnrichAll(context.Background(), sampleItems())
	require.Len(t, out, 2)
	assert.True(t, out[0].Translated)
	assert.False(t, out[1].Translated)
	assert.Equal(t, 1, tr.calls)
}

func TestEnrichAllWithoutTranslator(t *testing.T) {
	e := NewEnricher(nil, nil, nil, slog.Default())
	items := sampleItems()

	out := e.EnrichAll(context.Background(), items)
	require.Len(t, out, 2)
	for i, en := range out {
		assert.False(t, en.Translated)
		assert.Equal(t, items[i], en.Item)
	}
}

func TestEnrichAllDegradesAfterCancellation(t *testing.T) {
	tr := &fakeTranslator{result: &Translation{Title: "译文", Summary: "摘要"}}
	e := newEnricher(tr, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := e.EnrichAll(ctx, sampleItems())
	require.Len(t, out, 2) // batch completes, items degraded
	for _, en := range out {
		assert.False(t, en.Translated)
	}
	assert.Zero(t, tr.calls)
}

func TestParseTranslation(t *testing.T) {
	tr, err := parseTranslation(`{"title_zh": "标题", "summary_zh": "摘要"}`)
	require.NoError(t, err)
	assert.Equal(t, "标题", tr.Title)
	assert.Equal(t, "摘要", tr.Summary)
}

func TestParseTranslationStripsCodeFence(t *testing.T) {
	tr, err := parseTranslation("```json\n{\"title_zh\": \"标题\", \"summary_zh\": \"摘要\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "标题", tr.Title)
}

func TestParseTranslationRejectsNonJSON(t *testing.T) {
	_, err := parseTranslation("Sorry, I cannot help with that.")
	assert.Error(t, err)
}

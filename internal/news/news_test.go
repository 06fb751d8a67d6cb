package news

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tianSchema = Schema{
	Source:     "tianapi",
	TitleField: "title",
	DescField:  "description",
	ImageField: "picUrl",
	TimeField:  "ctime",
}

var mediastackSchema = Schema{
	Source:     "mediastack",
	TitleField: "title",
	DescField:  "description",
	ImageField: "image",
	TimeField:  "published_at",
}

func TestNormalizeDisjointSchemas(t *testing.T) {
	tian := map[string]any{
		"title":       "国产新能源车销量创新高",
		"description": "多家车企公布月度销量。",
		"picUrl":      "https://img.example.com/a.jpg",
		"ctime":       "2024-06-01 10:00:00",
	}
	it, err := Normalize("auto", tian, tianSchema)
	require.NoError(t, err)
	assert.Equal(t, "auto", it.Category)
	assert.Equal(t, "国产新能源车销量创新高", it.Title)
	assert.Equal(t, "多家车企公布月度销量。", it.Description)
	assert.Equal(t, "https://img.example.com/a.jpg", it.ImageURL)
	assert.Equal(t, "tianapi", it.SourceName)
	assert.Equal(t, "2024-06-01 10:00:00", it.PublishTime)

	ms := map[string]any{
		"title":        "Chipmaker unveils new accelerator",
		"description":  "The company announced a new product line.",
		"image":        "https://img.example.com/b.jpg",
		"published_at": "2024-06-01T10:00:00+00:00",
	}
	it2, err := Normalize("ai", ms, mediastackSchema)
	require.NoError(t, err)
	assert.Equal(t, "mediastack", it2.SourceName)
	assert.Equal(t, "2024-06-01T10:00:00+00:00", it2.PublishTime)
}

func TestNormalizeRejectsIncompleteNaturalKey(t *testing.T) {
	cases := []map[string]any{
		{"description": "no title, no time"},
		{"title": "only a title"},
		{"ctime": "2024-06-01 10:00:00"},
		{"title": "   ", "ctime": "2024-06-01 10:00:00"},
		{"title": "typed wrong", "ctime": 1717236000},
	}
	for _, raw := range cases {
		_, err := Normalize("auto", raw, tianSchema)
		assert.True(t, errors.Is(err, ErrMalformedItem), "raw=%v", raw)
	}
}

func TestNormalizeTolerantOfMissingOptionalFields(t *testing.T) {
	raw := map[string]any{
		"title": "标题",
		"ctime": "2024-06-01 08:30:00",
	}
	it, err := Normalize("military", raw, tianSchema)
	require.NoError(t, err)
	assert.Empty(t, it.Description)
	assert.Empty(t, it.ImageURL)
}

func TestFilterByDateExactness(t *testing.T) {
	items := []Item{
		{Title: "in", PublishTime: "2024-06-01T10:00:00"},
		{Title: "out", PublishTime: "2024-05-31T23:59:59"},
		{Title: "space format", PublishTime: "2024-06-01 00:00:01"},
	}

	kept := FilterByDate(items, "2024-06-01")
	require.Len(t, kept, 2)
	assert.Equal(t, "in", kept[0].Title)
	assert.Equal(t, "space format", kept[1].Title)
}

func TestFilterByDatePreservesOrder(t *testing.T) {
	items := []Item{
		{Title: "a", PublishTime: "2024-06-01 09:00:00"},
		{Title: "b", PublishTime: "2024-06-01 10:00:00"},
		{Title: "c", PublishTime: "2024-06-01 11:00:00"},
	}
	kept := FilterByDate(items, "2024-06-01")
	require.Len(t, kept, 3)
	assert.Equal(t, []Item{items[0], items[1], items[2]}, kept)
}

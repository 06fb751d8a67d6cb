package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsbrief/internal/news"
)

func joinParts(parts []Part) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.Body)
	}
	return b.String()
}

func TestChunkSinglePartWhenUnderLimit(t *testing.T) {
	parts := Chunk("short text", 100, DefaultMarker)
	require.Len(t, parts, 1)
	assert.Equal(t, "short text", parts[0].Body)
	assert.Equal(t, 1, parts[0].Index)
	assert.Equal(t, 1, parts[0].Total)
	assert.Empty(t, parts[0].Label())
}

func TestChunkLosslessness(t *testing.T) {
	blocks := []string{
		"first block of text",
		"second, somewhat longer block of text",
		"third",
		"fourth block closing the document",
	}
	text := strings.Join(blocks, DefaultMarker) + DefaultMarker + "tail"

	for _, limit := range []int{1, 7, 16, 40, 64, 100, len(text) - 1, len(text), len(text) + 1} {
		parts := Chunk(text, limit, DefaultMarker)
		assert.Equal(t, text, joinParts(parts), "limit=%d", limit)
	}
}

func TestChunkBound(t *testing.T) {
	text := strings.Repeat("para one"+DefaultMarker, 20) + strings.Repeat("x", 50)
	limit := 30

	parts := Chunk(text, limit, DefaultMarker)
	require.Greater(t, len(parts), 1)
	for i, p := range parts {
		if i == len(parts)-1 {
			continue // last part may carry the remainder
		}
		assert.LessOrEqual(t, len(p.Body), limit+len(DefaultMarker), "part %d", i+1)
	}
}

func TestChunkCutsAtParagraphBoundary(t *testing.T) {
	text := "aaaa" + DefaultMarker + "bbbb" + DefaultMarker + "cccc"
	parts := Chunk(text, 15, DefaultMarker)

	require.Len(t, parts, 3)
	assert.Equal(t, "aaaa"+DefaultMarker, parts[0].Body) // marker stays with preceding part
	assert.Equal(t, "bbbb"+DefaultMarker, parts[1].Body)
	assert.Equal(t, "cccc", parts[2].Body)
}

func TestChunkHardCutWithoutBoundary(t *testing.T) {
	text := strings.Repeat("a", 25)
	parts := Chunk(text, 10, DefaultMarker)

	require.Len(t, parts, 3)
	assert.Equal(t, strings.Repeat("a", 10), parts[0].Body)
	assert.Equal(t, strings.Repeat("a", 10), parts[1].Body)
	assert.Equal(t, strings.Repeat("a", 5), parts[2].Body)
	assert.Equal(t, text, joinParts(parts))
}

func TestChunkBoundaryExactlyAtLimit(t *testing.T) {
	// marker starts exactly at the limit offset: the part may exceed the
	// limit by one marker, never more
	text := strings.Repeat("a", 10) + DefaultMarker + "rest"
	parts := Chunk(text, 10, DefaultMarker)

	require.Len(t, parts, 2)
	assert.Equal(t, strings.Repeat("a", 10)+DefaultMarker, parts[0].Body)
	assert.Equal(t, "rest", parts[1].Body)
}

func TestChunkDropsWhitespaceOnlyRemainder(t *testing.T) {
	text := "aaaa" + DefaultMarker + "   "
	parts := Chunk(text, 4+len(DefaultMarker), DefaultMarker)

	require.Len(t, parts, 1)
	assert.Equal(t, "aaaa"+DefaultMarker, parts[0].Body)
}

func TestPartLabels(t *testing.T) {
	parts := Chunk(strings.Repeat("a", 25), 10, DefaultMarker)
	require.Len(t, parts, 3)
	assert.Equal(t, "(continued 1/3)", parts[0].Label())
	assert.Equal(t, "(continued 2/3)", parts[1].Label())
	assert.Equal(t, "(continued 3/3)", parts[2].Label())
}

func TestRenderOrderAndBlocks(t *testing.T) {
	items := []news.Item{
		{Title: "第一条", Description: "描述一。", ImageURL: "https://img.example.com/1.jpg"},
		{Title: "第二条", Description: "描述二。"},
	}

	body := Render(items, "2024-06-01", "汽车新闻")

	assert.Contains(t, body, "<h2>2024-06-01 汽车新闻 资讯精选（共 2 条）</h2>")
	assert.Contains(t, body, "第一条")
	assert.Contains(t, body, `<img src="https://img.example.com/1.jpg"`)
	assert.Contains(t, body, "第二条")
	assert.Less(t, strings.Index(body, "第一条"), strings.Index(body, "第二条"))
	assert.True(t, strings.HasSuffix(body, "—— 新闻日报 ——"))
}

func TestNewBuildsChunkedReport(t *testing.T) {
	body := strings.Repeat("block"+DefaultMarker, 50)
	rep := New("2024-06-01 汽车新闻日报", "汽车新闻", "2024-06-01", body, 100, DefaultMarker)

	assert.Equal(t, "2024-06-01 汽车新闻日报", rep.Title)
	require.Greater(t, len(rep.Parts), 1)
	assert.Equal(t, body, joinParts(rep.Parts))
	for i, p := range rep.Parts {
		assert.Equal(t, i+1, p.Index)
		assert.Equal(t, len(rep.Parts), p.Total)
	}
}

// Package report renders the daily digest document for a topic and splits
// it into channel-sized parts.
package report

import (
	"fmt"
	"strings"

	"newsbrief/internal/news"
)

// DefaultMarker is the paragraph separator emitted between rendered item
// blocks. The chunker prefers to cut at this marker.
const DefaultMarker = "<br><br>"

// Report is the rendered document for one topic.
type Report struct {
	Title      string
	TopicLabel string
	Date       string
	Parts      []Part
}

// Part is one delivery unit of the report body.
type Part struct {
	Index int // 1-based
	Total int
	Body  string
}

// Label returns the human-readable continuation suffix for multi-part
// reports, e.g. "(continued 2/3)". Single-part reports have no label.
func (p Part) Label() string {
	if p.Total <= 1 {
		return ""
	}
	return fmt.Sprintf("(continued %d/%d)", p.Index, p.Total)
}

// Render produces the full document body: fixed header, one block per item
// in input order, fixed footer.
func Render(items []news.Item, date, topicLabel string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("<h2>%s %s 资讯精选（共 %d 条）</h2><br>", date, topicLabel, len(items)))
	for i, n := range items {
		b.WriteString(fmt.Sprintf("<h3><span style='font-weight:bold; font-size:18px'>%d.</span> "+
			"<span style='font-weight:bold; font-size:18px'>%s</span></h3>", i+1, n.Title))
		if n.ImageURL != "" {
			b.WriteString(fmt.Sprintf(`<img src="%s" style="max-width:100%%"><br>`, n.ImageURL))
		}
		b.WriteString(n.Description)
		b.WriteString(DefaultMarker)
	}
	b.WriteString("<br>—— 新闻日报 ——")

	return b.String()
}

// New builds a Report whose body is split into parts no longer than limit
// bytes (plus at most one marker, when a boundary starts exactly at the
// limit).
func New(title, topicLabel, date, body string, limit int, marker string) Report {
	return Report{
		Title:      title,
		TopicLabel: topicLabel,
		Date:       date,
		Parts:      Chunk(body, limit, marker),
	}
}

// Chunk splits text into ordered parts of at most limit bytes each,
// cutting at the last marker occurrence starting at or before the limit.
// When no marker fits, the cut is made exactly at the limit. Markers stay
// with the preceding part, so concatenating all parts in order reproduces
// the input exactly. A trailing remainder that is pure whitespace is
// dropped.
func Chunk(text string, limit int, marker string) []Part {
	if limit <= 0 || len(text) <= limit {
		return finalize([]string{text})
	}

	var bodies []string
	rest := text
	for len(rest) > limit {
		cut := limit
		if marker != "" {
			// a marker may begin exactly at the limit, so the search
			// window extends one marker past it
			window := limit + len(marker)
			if window > len(rest) {
				window = len(rest)
			}
			if i := strings.LastIndex(rest[:window], marker); i >= 0 {
				cut = i + len(marker)
			}
		}
		bodies = append(bodies, rest[:cut])
		rest = rest[cut:]
	}

	if strings.TrimSpace(rest) != "" {
		bodies = append(bodies, rest)
	}
	return finalize(bodies)
}

func finalize(bodies []string) []Part {
	parts := make([]Part, len(bodies))
	for i, b := range bodies {
		parts[i] = Part{Index: i + 1, Total: len(bodies), Body: b}
	}
	return parts
}

// Package markup renders raw message text into sanitized HTML with
// clickable citation markers.
//
// Injection safety rests on ordering: every literal text segment is
// escaped before the structural elements (bold, line breaks, citation
// spans) are inserted around it. Citation titles used as hover hints go
// through the same escaping. The output is safe to hand to a browser as-is,
// but re-running Format on its own output would double-escape.
package markup

import (
	"html"
	"html/template"
	"regexp"
	"strings"

	"github.com/amital-ui/aichat/internal/model"
)

var (
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	markerRe = regexp.MustCompile(`\[(\d+)\]`)
)

// Format converts message text into renderable HTML. **X** spans become
// <strong>, newlines become <br>, and [n] markers whose label matches a
// citation_id become inert clickable spans carrying the label and the
// escaped citation title. Markers with no matching citation are left as
// literal text. Unpaired ** markers are literal as well.
func Format(text string, citations []model.Citation) template.HTML {
	lookup := labelLookup(citations)

	var b strings.Builder
	last := 0
	for _, m := range boldRe.FindAllStringSubmatchIndex(text, -1) {
		writeInline(&b, text[last:m[0]], lookup)
		b.WriteString("<strong>")
		writeInline(&b, text[m[2]:m[3]], lookup)
		b.WriteString("</strong>")
		last = m[1]
	}
	writeInline(&b, text[last:], lookup)

	return template.HTML(b.String())
}

// ResolveLabel maps a clicked marker label back to its citation. Labels
// are string-compared against citation_id.
func ResolveLabel(citations []model.Citation, label string) (model.Citation, bool) {
	for _, c := range citations {
		if c.CitationID == label {
			return c, true
		}
	}
	return model.Citation{}, false
}

func labelLookup(citations []model.Citation) map[string]model.Citation {
	if len(citations) == 0 {
		return nil
	}
	lookup := make(map[string]model.Citation, len(citations))
	for _, c := range citations {
		if _, seen := lookup[c.CitationID]; !seen {
			lookup[c.CitationID] = c
		}
	}
	return lookup
}

// writeInline renders one bold-free segment: citation markers where the
// label is known, escaped literal text everywhere else.
func writeInline(b *strings.Builder, segment string, lookup map[string]model.Citation) {
	last := 0
	if lookup != nil {
		for _, m := range markerRe.FindAllStringSubmatchIndex(segment, -1) {
			label := segment[m[2]:m[3]]
			c, ok := lookup[label]
			if !ok {
				continue
			}
			writeLiteral(b, segment[last:m[0]])
			b.WriteString(`<span class="citation-btn" data-citation-id="`)
			b.WriteString(label)
			b.WriteString(`" title="`)
			b.WriteString(html.EscapeString(c.Title))
			b.WriteString(`">[`)
			b.WriteString(label)
			b.WriteString(`]</span>`)
			last = m[1]
		}
	}
	writeLiteral(b, segment[last:])
}

func writeLiteral(b *strings.Builder, text string) {
	if text == "" {
		return
	}
	b.WriteString(strings.ReplaceAll(html.EscapeString(text), "\n", "<br>"))
}

package history

import (
	"strconv"
	"strings"

	"github.com/nao1215/phishscan/internal/model"
)

// EmptyPlaceholder is the markup shown when there is no history.
const EmptyPlaceholder = `<p class="history-empty">No recent scans</p>`

// htmlEscaper replaces the five characters that can break out of text or
// attribute context.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes & < > " and ' so that s is inert inside markup.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// RenderList renders a history as markup, one block per record in list
// order. A nil formatter uses the default locale.
func RenderList(list model.HistoryList, formatter *TimeFormatter) string {
	if len(list) == 0 {
		return EmptyPlaceholder
	}
	if formatter == nil {
		formatter = NewTimeFormatter(DefaultLocale, nil)
	}

	var b strings.Builder
	for _, rec := range list {
		renderRecord(&b, rec, formatter)
	}
	return b.String()
}

func renderRecord(b *strings.Builder, rec model.ScanRecord, formatter *TimeFormatter) {
	b.WriteString(`<div class="history-item `)
	b.WriteString(rec.Classification().String())
	b.WriteString(`">`)
	b.WriteString(`<div class="h-url">`)
	b.WriteString(EscapeHTML(rec.URL))
	b.WriteString(`</div>`)
	b.WriteString(`<div class="h-meta">`)
	b.WriteString(`<span class="h-label">`)
	b.WriteString(EscapeHTML(rec.Label))
	b.WriteString(`</span> · `)
	b.WriteString(FormatConfidence(rec.Confidence))
	b.WriteString(`% · `)
	b.WriteString(`<span class="h-time">`)
	b.WriteString(EscapeHTML(formatter.Format(rec.Time())))
	b.WriteString(`</span>`)
	b.WriteString(`</div>`)
	b.WriteString(`</div>`)
}

// FormatConfidence clamps a confidence to [0,100] and formats it with the
// shortest representation (97.5, 100, 0).
func FormatConfidence(v float64) string {
	return strconv.FormatFloat(model.ClampConfidence(v), 'f', -1, 64)
}

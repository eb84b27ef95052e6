package render

import (
	"fmt"
	"strings"

	"tradeview/internal/domain"
	"tradeview/internal/insight"
)

// toneClass maps the sign of an item's direction to its CSS class. The
// direction sign is a separate signal from the classifier's score-magnitude
// thresholds.
func toneClass(direction float64) string {
	switch {
	case direction > 0:
		return "pos"
	case direction < 0:
		return "neg"
	default:
		return "neutral"
	}
}

// itemRow renders one event item as a list row. Every backend-supplied
// field is escaped; the URL additionally lands inside a quoted attribute.
func itemRow(it domain.EventItem) string {
	var b strings.Builder
	b.WriteString(`<li class="insight-item ` + toneClass(it.Direction) + `">`)

	title := EscapeHTML(it.Title)
	if it.URL != "" {
		fmt.Fprintf(&b, `<a href="%s" target="_blank" rel="noopener">%s</a>`, EscapeHTML(it.URL), title)
	} else {
		fmt.Fprintf(&b, `<span class="title">%s</span>`, title)
	}

	if it.Type != "" {
		fmt.Fprintf(&b, `<span class="tag">%s</span>`, EscapeHTML(string(it.Type)))
	}
	fmt.Fprintf(&b, `<span class="meta">%s · %s</span>`, EscapeHTML(it.Source), EscapeHTML(it.Time))
	fmt.Fprintf(&b, `<span class="score">%+.1f</span>`, it.EventScore)

	if it.Why != "" {
		fmt.Fprintf(&b, `<div class="why">%s</div>`, EscapeHTML(it.Why))
	}
	b.WriteString("</li>")
	return b.String()
}

// InsightList renders the visible window of the list plus, when the item
// count exceeds the collapsed cap, a trailing control row for toggling.
func InsightList(l *insight.List) string {
	var b strings.Builder
	b.WriteString(`<ul class="insight-list">`)
	for _, it := range l.Visible() {
		b.WriteString(itemRow(it))
	}
	if l.ShowControl() {
		label := "show more"
		if l.Expanded() {
			label = "collapse"
		}
		fmt.Fprintf(&b, `<li class="insight-toggle" role="button">%s (%d)</li>`, label, l.Len())
	}
	b.WriteString("</ul>")
	return b.String()
}

// SummaryLine renders the aggregate sentiment banner above the list.
func SummaryLine(s insight.Summary) string {
	suffix := ""
	if s.Provisional {
		suffix = ` <span class="provisional">analyzing…</span>`
	}
	return fmt.Sprintf(`<div class="insight-summary %s">%+.2f %s · %s%s</div>`,
		toneForLabel(s.Label), s.Score, EscapeHTML(string(s.Label)), EscapeHTML(s.Advice), suffix)
}

func toneForLabel(l insight.Label) string {
	switch l {
	case insight.LabelBullish, insight.LabelPositive:
		return "pos"
	case insight.LabelBearish, insight.LabelNegative:
		return "neg"
	default:
		return "neutral"
	}
}

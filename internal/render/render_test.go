package render

import (
	"fmt"
	"strings"
	"testing"

	"tradeview/internal/domain"
	"tradeview/internal/insight"
)

func TestEscapeHTML(t *testing.T) {
	cases := []struct{ in, want string }{
		{`<script>alert("x")</script>`, `&lt;script&gt;alert(&quot;x&quot;)&lt;/script&gt;`},
		{`a & b`, `a &amp; b`},
		{`it's`, `it&#39;s`},
		{`plain`, `plain`},
		{``, ``},
	}
	for _, tc := range cases {
		if got := EscapeHTML(tc.in); got != tc.want {
			t.Errorf("EscapeHTML(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestEscapeHTMLIsSinglePass(t *testing.T) {
	// Escaping already-escaped text double-escapes; callers must apply
	// the escape exactly once.
	once := EscapeHTML("&")
	twice := EscapeHTML(once)
	if once != "&amp;" || twice != "&amp;amp;" {
		t.Errorf("expected &amp; then &amp;amp;, got %q then %q", once, twice)
	}
}

func TestItemRowEscapesEverything(t *testing.T) {
	it := domain.EventItem{
		Title:  `<b>Q2 "beat" & raise</b>`,
		Source: `rss<feed>`,
		Time:   "2026-08-29 10:00",
		URL:    `https://example.com/a?b=1&c=2`,
		Type:   "news",
		Why:    `guidance > consensus`,
	}
	row := itemRow(it)

	for _, raw := range []string{`<b>`, `"beat"`, `<feed>`, `b=1&c=2`, `> consensus`} {
		if strings.Contains(row, raw) {
			t.Errorf("raw text %q leaked into markup:\n%s", raw, row)
		}
	}
	for _, want := range []string{`&lt;b&gt;`, `&quot;beat&quot;`, `b=1&amp;c=2`, `&gt; consensus`} {
		if !strings.Contains(row, want) {
			t.Errorf("expected escaped form %q in markup:\n%s", want, row)
		}
	}
}

func TestItemRowTone(t *testing.T) {
	for dir, want := range map[float64]string{1: "pos", 0.2: "pos", -1: "neg", 0: "neutral"} {
		row := itemRow(domain.EventItem{Title: "t", Direction: dir})
		if !strings.Contains(row, `class="insight-item `+want+`"`) {
			t.Errorf("direction %v: expected tone class %q in %s", dir, want, row)
		}
	}
}

func TestInsightListControlRow(t *testing.T) {
	l := insight.NewList()
	for i := 0; i < insight.Page; i++ {
		l.Append(domain.EventItem{Title: fmt.Sprintf("item-%d", i)})
	}
	if strings.Contains(InsightList(l), "insight-toggle") {
		t.Error("control row must not render at exactly the cap")
	}

	l.Append(domain.EventItem{Title: "item-extra"})
	html := InsightList(l)
	if !strings.Contains(html, "show more (6)") {
		t.Errorf("expected collapsed control row, got:\n%s", html)
	}
	if strings.Count(html, "<li class=\"insight-item") != insight.Page {
		t.Errorf("expected %d item rows while collapsed:\n%s", insight.Page, html)
	}

	l.Expand()
	html = InsightList(l)
	if !strings.Contains(html, "collapse (6)") {
		t.Errorf("expected expanded control row, got:\n%s", html)
	}
	if strings.Count(html, "<li class=\"insight-item") != 6 {
		t.Errorf("expected all 6 item rows while expanded:\n%s", html)
	}
}

func TestSummaryLine(t *testing.T) {
	line := SummaryLine(insight.NewSummary(2.5, true))
	if !strings.Contains(line, "pos") || !strings.Contains(line, "bullish") {
		t.Errorf("unexpected summary line: %s", line)
	}
	if !strings.Contains(line, "analyzing") {
		t.Errorf("provisional summary should carry the analyzing marker: %s", line)
	}

	line = SummaryLine(insight.NewSummary(-1.0, false))
	if strings.Contains(line, "analyzing") {
		t.Errorf("final summary must not carry the analyzing marker: %s", line)
	}
}

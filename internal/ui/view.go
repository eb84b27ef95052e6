package ui

import (
	"fmt"
	"strings"

	"tradeview/internal/domain"
	"tradeview/internal/insight"
	"tradeview/internal/portfolio"
)

const (
	headerHeight = 2
	footerHeight = 1
)

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	return m.renderHeader() + "\n" + m.viewport.View() + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("tradeview"))
	b.WriteString("  ")
	b.WriteString(tickerStyle.Render(m.ticker))
	b.WriteString("  ")

	if m.lastPrice > 0 {
		style := neutralStyle
		arrow := " "
		if m.prevPrice > 0 && m.lastPrice > m.prevPrice {
			style, arrow = priceUpStyle, "▲"
		} else if m.prevPrice > 0 && m.lastPrice < m.prevPrice {
			style, arrow = priceDownStyle, "▼"
		}
		b.WriteString(style.Render(fmt.Sprintf("%.2f %s", m.lastPrice, arrow)))
	} else {
		b.WriteString(dimStyle.Render("--"))
	}

	if spark := Sparkline(m.book.PriceHistory(m.ticker)); spark != "" {
		b.WriteString("  ")
		b.WriteString(sparkStyle.Render(spark))
	}
	b.WriteString("\n")

	if m.inputOpen {
		b.WriteString("query: " + m.queryInput.View())
	} else {
		b.WriteString(dimStyle.Render("press / to query, tab to expand, m for more, r to refresh, q to quit"))
	}
	return b.String()
}

func (m Model) renderFooter() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("balance %s", portfolio.FormatCurrency(m.book.Balance())))
	parts = append(parts, fmt.Sprintf("assets %s", portfolio.FormatCurrency(m.book.TotalAssets())))
	pl := m.book.TotalPL()
	plStr := "P/L " + portfolio.FormatPL(pl)
	switch {
	case pl > 0:
		parts = append(parts, gainStyle.Render(plStr))
	case pl < 0:
		parts = append(parts, lossStyle.Render(plStr))
	default:
		parts = append(parts, dimStyle.Render(plStr))
	}
	if m.rankTotal > 0 {
		parts = append(parts, fmt.Sprintf("rank %d/%d", m.rank, m.rankTotal))
	}
	if m.status != "" {
		parts = append(parts, errStyle.Render(m.status))
	}
	return dimStyle.Render(strings.Join(parts, "  │  "))
}

func (m Model) renderContent() string {
	var b strings.Builder
	m.renderPortfolio(&b)
	b.WriteString("\n")
	m.renderInsight(&b)
	return b.String()
}

func (m Model) renderPortfolio(b *strings.Builder) {
	b.WriteString(sectionStyle.Render(" PORTFOLIO "))
	b.WriteString("\n")

	holdings := m.book.Holdings()
	if len(holdings) == 0 {
		b.WriteString(dimStyle.Render("  (no positions)"))
		b.WriteString("\n")
		return
	}

	b.WriteString(colHeaderStyle.Render(fmt.Sprintf("  %-8s %-12s %10s %10s %14s %10s",
		"ticker", "quantity", "cost", "last", "P/L", "P/L%")))
	b.WriteString("\n")

	for _, h := range holdings {
		plStyle := dimStyle
		if h.PL > 0 {
			plStyle = gainStyle
		} else if h.PL < 0 {
			plStyle = lossStyle
		}
		b.WriteString(fmt.Sprintf("  %s %-12s %10.2f %10.2f %s %s\n",
			tickerStyle.Render(fmt.Sprintf("%-8s", h.Ticker)),
			portfolio.FormatQuantity(h.Quantity),
			h.CostAvg,
			h.LastPrice,
			plStyle.Render(fmt.Sprintf("%14s", portfolio.FormatPL(h.PL))),
			plStyle.Render(fmt.Sprintf("%9.2f%%", h.PLPct)),
		))
	}
}

func (m Model) renderInsight(b *strings.Builder) {
	b.WriteString(sectionStyle.Render(" INSIGHT "))
	b.WriteString("\n")

	if sum, ok := m.ctrl.Summary(); ok {
		line := fmt.Sprintf("  %+.2f %s · %s", sum.Score, sum.Label, sum.Advice)
		b.WriteString(scoreStyle(sum.Score).Render(line))
		if sum.Provisional {
			b.WriteString(provisionStyle.Render("  analyzing…"))
		}
		b.WriteString("\n")
	}

	switch m.ctrl.State() {
	case insight.StateIdle:
		b.WriteString(dimStyle.Render("  press / to run a query"))
		b.WriteString("\n")
		return
	case insight.StateLoading:
		if m.ctrl.List().Len() == 0 {
			b.WriteString(dimStyle.Render("  loading…"))
			b.WriteString("\n")
			return
		}
	case insight.StateEmpty:
		b.WriteString(dimStyle.Render("  no recent events"))
		b.WriteString("\n")
		return
	case insight.StateFailed:
		msg := "query failed"
		if err := m.ctrl.Err(); err != nil {
			msg = err.Error()
		}
		b.WriteString(errStyle.Render("  " + msg))
		b.WriteString("\n")
		if m.ctrl.List().Len() == 0 {
			return
		}
	}

	for _, it := range m.ctrl.List().Visible() {
		m.renderItem(b, it)
	}

	if l := m.ctrl.List(); l.ShowControl() {
		label := fmt.Sprintf("  ▸ show %d more (tab)", l.Len()-insight.Page)
		if l.Expanded() {
			label = "  ▾ collapse (tab)"
		}
		b.WriteString(toggleStyle.Render(label))
		b.WriteString("\n")
	}
	if m.ctrl.HasMore() {
		b.WriteString(dimStyle.Render("  … more on server (m)"))
		b.WriteString("\n")
	}
}

func (m Model) renderItem(b *strings.Builder, it domain.EventItem) {
	score := scoreStyle(it.EventScore).Render(fmt.Sprintf("%+5.1f", it.EventScore))
	b.WriteString(fmt.Sprintf("  %s %s", score, it.Title))
	if it.Type != "" {
		b.WriteString(" " + tagStyle.Render("["+string(it.Type)+"]"))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("        " + it.Source))
	if it.Time != "" {
		b.WriteString(dimStyle.Render(" · " + it.Time))
	}
	b.WriteString("\n")
	if it.Why != "" {
		b.WriteString(sourceStyle.Render("        " + it.Why))
		b.WriteString("\n")
	}
}

package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"shelfcraft/internal/controller"
	"shelfcraft/internal/notify"
)

// View renders the full board.
func (m Model) View() string {
	if !m.ready {
		return m.spinner.View() + " Loading zones..."
	}

	header := m.renderHeader()
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderZones(),
		m.renderShelf(),
		m.renderInventory(),
	)
	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderMetrics(), footer)
}

func (m Model) renderHeader() string {
	title := m.styles.Title.Render("shelfcraft")
	status := ""
	if m.loading {
		status = " " + m.spinner.View()
	}
	toast := ""
	if m.hasNotice {
		if m.notice.Kind == notify.Error {
			toast = "  " + m.styles.ToastError.Render("✗ "+m.notice.Text)
		} else {
			toast = "  " + m.styles.ToastInfo.Render("✓ "+m.notice.Text)
		}
	}
	return title + status + toast
}

func (m Model) renderZones() string {
	var b strings.Builder
	b.WriteString(m.styles.PanelTitle.Render("Zones") + "\n")
	if len(m.zones) == 0 {
		b.WriteString(m.styles.Muted.Render("no zones"))
	}
	for i, z := range m.zones {
		line := fmt.Sprintf("%s (%d)", z.Name, z.Capacity)
		marker := "  "
		if z.ID == m.snap.ZoneID {
			marker = "● "
		}
		if i == m.zoneIdx && m.focus == focusZones {
			b.WriteString(m.styles.ListSelected.Render("> " + marker + line))
		} else {
			b.WriteString(m.styles.ListItem.Render("  " + marker + line))
		}
		b.WriteString("\n")
	}
	return m.panel(focusZones).Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderShelf() string {
	var b strings.Builder
	zoneName := m.snap.ZoneID
	if z, ok := m.session.ActiveZone(); ok {
		zoneName = z.Name
	}
	b.WriteString(m.styles.PanelTitle.Render("Shelf: "+zoneName) + "\n")

	switch m.snap.Phase {
	case controller.PhaseNoZone:
		b.WriteString(m.styles.Muted.Render("select a zone to see its shelf"))
	default:
		// During loading the prior layout stays visible; the header
		// spinner is the only loading cue.
		if len(m.snap.Layout) == 0 {
			b.WriteString(m.styles.Muted.Render("empty shelf"))
		} else {
			b.WriteString(m.renderSlots())
		}
	}
	if m.carrying {
		b.WriteString("\n" + m.styles.SlotCarried.UnsetBorderStyle().UnsetWidth().Render("carrying "+m.carryPID) +
			m.styles.Muted.Render("  (enter drops, esc cancels)"))
	}
	return m.panel(focusShelf).Render(b.String())
}

func (m Model) renderSlots() string {
	hovered := m.session.Drag().Hovered()
	var cells []string
	for i, pid := range m.snap.Layout {
		label := pid
		if label == "" {
			label = "·"
		}
		style := m.styles.Slot
		if pid == "" {
			style = m.styles.SlotEmpty
		}
		if m.carrying && i == hovered {
			style = m.styles.SlotHover
		} else if i == m.slotIdx && m.focus == focusShelf {
			style = m.styles.SlotSelected
		}
		cells = append(cells, style.Render(fmt.Sprintf("%d %s", i, label)))
	}

	// Wrap into rows of four slots.
	var rows []string
	for len(cells) > 4 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells[:4]...))
		cells = cells[4:]
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderInventory() string {
	var b strings.Builder
	title := "Inventory"
	if f := m.session.Products().Filter(); f.Sort != "" {
		title = fmt.Sprintf("Inventory (%s)", f.Sort)
	}
	b.WriteString(m.styles.PanelTitle.Render(title) + "\n")
	b.WriteString(m.search.View() + "\n")

	if len(m.products) == 0 {
		b.WriteString(m.styles.Muted.Render("no products match"))
	}
	for i, p := range m.products {
		line := fmt.Sprintf("%-18s $%.2f", p.Name, p.Price)
		if p.Score != nil {
			line += fmt.Sprintf("  %.2f", *p.Score)
		}
		if i == m.prodIdx && m.focus == focusInventory {
			b.WriteString(m.styles.ListSelected.Render("> " + line))
		} else {
			b.WriteString(m.styles.ListItem.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return m.panel(focusInventory).Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderMetrics() string {
	if m.snap.Phase == controller.PhaseNoZone {
		return ""
	}
	mt := m.snap.Metrics
	pairs := []struct {
		label string
		value string
	}{
		{"Fill", fmt.Sprintf("%.0f%%", mt.FillRate*100)},
		{"Avg Ticket", fmt.Sprintf("$%.2f", mt.AvgTicket)},
		{"Est Daily", fmt.Sprintf("$%.0f", mt.EstDailySales)},
		{"Margin", fmt.Sprintf("%.0f%%", mt.AvgMarginRate*100)},
		{"Categories", fmt.Sprintf("%d", mt.Categories)},
		{"Score", fmt.Sprintf("%.1f", mt.ScoreSum)},
	}
	var cells []string
	for _, p := range pairs {
		cells = append(cells, m.styles.MetricLabel.Render(p.label+" ")+m.styles.MetricValue.Render(p.value))
	}
	line := strings.Join(cells, m.styles.Muted.Render("  │  "))
	if len(mt.Top3) > 0 {
		var tops []string
		for _, t := range mt.Top3 {
			tops = append(tops, fmt.Sprintf("%s %.1f", t.Name, t.Score))
		}
		line += "\n" + m.styles.MetricLabel.Render("Top: ") + m.styles.MetricValue.Render(strings.Join(tops, ", "))
	}
	return m.styles.Panel.Render(line)
}

func (m Model) renderFooter() string {
	help := "tab focus · enter pick/drop · p predict · c clear · / search · s sort · r reload · esc cancel · q quit"
	return m.styles.Help.Render(help)
}

func (m Model) panel(area focusArea) lipgloss.Style {
	if m.focus == area {
		return m.styles.PanelFocus
	}
	return m.styles.Panel
}

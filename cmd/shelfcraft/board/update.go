package board

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"shelfcraft/internal/retail"
)

// Update is the bubbletea message loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case refreshMsg:
		first := !m.ready
		m.pull()
		m.ready = true
		if first {
			m.alignZoneCursor()
		}
		return m, nil

	case productsChangedMsg:
		m.pull()
		return m, m.waitProducts()

	case noticeChangedMsg:
		m.pull()
		return m, m.waitNotice()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Search owns most keys while focused.
	if m.focus == focusSearch {
		switch msg.String() {
		case "esc":
			m.focus = focusInventory
			m.search.Blur()
			return m, nil
		case "enter":
			m.focus = focusInventory
			m.search.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, tea.Batch(cmd, m.setQuery(m.search.Value()))
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.session.Close()
		return m, tea.Quit

	case "tab":
		m.focus = (m.focus + 1) % 3 // zones, shelf, inventory
		return m, nil
	case "shift+tab":
		m.focus = (m.focus + 2) % 3
		return m, nil

	case "/":
		m.focus = focusSearch
		m.search.Focus()
		return m, nil

	case "p":
		return m, m.runSession(func(ctx context.Context) { m.session.Predict(ctx) })
	case "c":
		return m, m.runSession(func(ctx context.Context) { m.session.Clear(ctx) })
	case "r":
		return m, m.runSession(func(ctx context.Context) { m.session.Reload(ctx) })

	case "esc":
		if m.carrying {
			m.session.CancelCarry()
			m.pull()
			return m, nil
		}
		m.session.Notifier().Dismiss()
		return m, nil

	case "s":
		return m, m.cycleSort()

	case "up", "k":
		return m.moveCursor(-1), nil
	case "down", "j":
		return m.moveCursor(+1), nil
	case "left", "h":
		if m.focus == focusShelf {
			return m.moveCursor(-1), nil
		}
		return m, nil
	case "right", "l":
		if m.focus == focusShelf {
			return m.moveCursor(+1), nil
		}
		return m, nil

	case "enter", " ":
		return m.activate()
	}
	return m, nil
}

// moveCursor shifts the focused pane's cursor and keeps the drop-target
// highlight in step while something is carried.
func (m Model) moveCursor(delta int) Model {
	switch m.focus {
	case focusZones:
		m.zoneIdx = clamp(m.zoneIdx+delta, 0, len(m.zones)-1)
	case focusShelf:
		prev := m.slotIdx
		m.slotIdx = clamp(m.slotIdx+delta, 0, len(m.snap.Layout)-1)
		if m.carrying && m.slotIdx != prev {
			m.session.Drag().Leave(prev)
			m.session.Drag().Enter(m.slotIdx)
		}
	case focusInventory:
		m.prodIdx = clamp(m.prodIdx+delta, 0, len(m.products)-1)
	}
	return m
}

// activate is enter/space on the focused pane: select a zone, pick up or
// drop on the shelf, or pick up from the inventory.
func (m Model) activate() (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusZones:
		if m.zoneIdx < len(m.zones) {
			id := m.zones[m.zoneIdx].ID
			m.slotIdx = 0
			return m, m.runSession(func(ctx context.Context) { m.session.SelectZone(ctx, id) })
		}

	case focusShelf:
		if m.slotIdx >= len(m.snap.Layout) {
			return m, nil
		}
		if m.carrying {
			slot := m.slotIdx
			return m, m.runSession(func(ctx context.Context) { m.session.Drop(ctx, slot) })
		}
		if pid := m.snap.Layout[m.slotIdx]; pid != "" {
			m.session.PickFromSlot(pid, m.slotIdx)
			m.session.Drag().Enter(m.slotIdx)
			m.pull()
		}

	case focusInventory:
		if m.carrying {
			m.session.CancelCarry()
			m.pull()
			return m, nil
		}
		if m.prodIdx < len(m.products) {
			m.session.PickFromInventory(m.products[m.prodIdx].ID)
			m.focus = focusShelf
			m.session.Drag().Enter(m.slotIdx)
			m.pull()
		}
	}
	return m, nil
}

// runSession executes a blocking session call off the UI loop and refreshes
// when it settles.
func (m Model) runSession(fn func(context.Context)) tea.Cmd {
	return func() tea.Msg {
		fn(context.Background())
		return refreshMsg{}
	}
}

func (m Model) setQuery(q string) tea.Cmd {
	return func() tea.Msg {
		m.session.SetQuery(context.Background(), q)
		return refreshMsg{}
	}
}

// cycleSort steps through the sort keys in wire order.
func (m Model) cycleSort() tea.Cmd {
	order := []retail.SortKey{
		retail.SortScore,
		retail.SortPriceDesc,
		retail.SortPriceAsc,
		retail.SortMarginDesc,
		retail.SortVelocityDesc,
	}
	current := m.session.Products().Filter().Sort
	next := order[0]
	for i, k := range order {
		if k == current {
			next = order[(i+1)%len(order)]
			break
		}
	}
	return func() tea.Msg {
		m.session.SetSort(context.Background(), next)
		return refreshMsg{}
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Package board is the interactive merchandising board: a zone picker, the
// active zone's shelf grid with its KPI panel, and a searchable product
// inventory, wired to a session that talks to the placement backend.
//
// The files are split by concern:
//   - model.go: types, construction, Init
//   - update.go: message handling and key bindings
//   - view.go: rendering
//   - styles.go: lipgloss styles
package board

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"shelfcraft/internal/controller"
	"shelfcraft/internal/notify"
	"shelfcraft/internal/retail"
	"shelfcraft/internal/session"
)

// focusArea names the pane keyboard input is routed to.
type focusArea int

const (
	focusZones focusArea = iota
	focusShelf
	focusInventory
	focusSearch
)

// Messages produced by session round-trips and event subscriptions.
type (
	// refreshMsg asks the model to re-read all session state.
	refreshMsg struct{}
	// productsChangedMsg signals that the debounced product query settled.
	productsChangedMsg struct{}
	// noticeChangedMsg signals a toast appeared, changed, or expired.
	noticeChangedMsg struct{}
)

// Model is the top-level bubbletea model for the board.
type Model struct {
	session *session.Session
	styles  Styles

	width  int
	height int
	ready  bool

	focus   focusArea
	zoneIdx int
	slotIdx int
	prodIdx int

	search  textinput.Model
	spinner spinner.Model

	// Session state, re-read on every refreshMsg. The board renders from
	// these copies only; it never holds locks during View.
	zones     []retail.Zone
	snap      controller.Snapshot
	products  []retail.Product
	notice    notify.Notice
	hasNotice bool
	carrying  bool
	carryPID  string
	loading   bool
}

// New builds the board around an initialized session.
func New(sess *session.Session, theme string) Model {
	search := textinput.New()
	search.Placeholder = "search products"
	search.Prompt = "/ "
	search.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		session: sess,
		styles:  NewStyles(theme),
		focus:   focusShelf,
		search:  search,
		spinner: sp,
	}
}

// Init starts the mount sequence and the event subscriptions.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.initSession(),
		m.waitProducts(),
		m.waitNotice(),
	)
}

func (m Model) initSession() tea.Cmd {
	return func() tea.Msg {
		m.session.Init(context.Background())
		return refreshMsg{}
	}
}

// waitProducts re-arms the subscription to the product controller. The events
// channel is coalesced, so one message can stand for several settles; the
// refresh reads whatever is current.
func (m Model) waitProducts() tea.Cmd {
	events := m.session.Products().Events()
	return func() tea.Msg {
		if _, ok := <-events; !ok {
			return nil
		}
		return productsChangedMsg{}
	}
}

func (m Model) waitNotice() tea.Cmd {
	events := m.session.Notifier().Events()
	return func() tea.Msg {
		if _, ok := <-events; !ok {
			return nil
		}
		return noticeChangedMsg{}
	}
}

// pull copies the session's current state into the model.
func (m *Model) pull() {
	m.zones = m.session.Zones().List()
	m.snap = m.session.State().Snapshot()
	m.products = m.session.Products().List()
	m.notice, m.hasNotice = m.session.Notifier().Current()
	d, carrying := m.session.Drag().Carrying()
	m.carrying = carrying
	m.carryPID = d.PID
	m.loading = m.snap.Phase == controller.PhaseLoading || m.session.Products().Loading()

	if m.zoneIdx >= len(m.zones) {
		m.zoneIdx = 0
	}
	if n := len(m.snap.Layout); n > 0 && m.slotIdx >= n {
		m.slotIdx = n - 1
	}
	if n := len(m.products); n > 0 && m.prodIdx >= n {
		m.prodIdx = n - 1
	}
}

// alignZoneCursor moves the zone cursor onto the selected zone. Used on the
// first refresh so auto-selection is reflected; later pulls leave the cursor
// wherever the user browsed it.
func (m *Model) alignZoneCursor() {
	for i, z := range m.zones {
		if z.ID == m.snap.ZoneID {
			m.zoneIdx = i
			return
		}
	}
}

package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/deskhours/sucktorial/internal/factorial"
	"github.com/deskhours/sucktorial/internal/logger"
	"github.com/deskhours/sucktorial/internal/model"
)

// tickMsg is sent every second; it advances the worked-time display and
// schedules the periodic state refresh
type tickMsg time.Time

// statusMsg carries a fresh snapshot of the clock state
type statusMsg struct {
	authed bool
	open   *model.Shift
	shifts []model.Shift
	err    error
}

// actionMsg reports the outcome of a clock in/out request
type actionMsg struct {
	label string
	err   error
}

const (
	requestTimeout = 15 * time.Second
	refreshEvery   = 5 * time.Minute
)

// Init starts the clock tick and the first status refresh
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd(), m.refreshCmd())
}

func tickCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd fetches the session state, the open shift and the month's
// shifts in one background round trip.
func (m Model) refreshCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		authed, err := client.IsAuthenticated(ctx)
		if err != nil {
			return statusMsg{err: err}
		}
		if !authed {
			return statusMsg{authed: false}
		}

		open, err := client.OpenShift(ctx)
		if err != nil {
			return statusMsg{authed: true, err: err}
		}

		now := time.Now()
		shifts, err := client.ListShifts(ctx, factorial.ShiftQuery{
			Year:  now.Year(),
			Month: int(now.Month()),
		})
		if err != nil {
			return statusMsg{authed: true, open: open, err: err}
		}

		return statusMsg{authed: true, open: open, shifts: shifts}
	}
}

func (m Model) clockInCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return actionMsg{label: "Clocked in", err: client.ClockIn(ctx, time.Time{})}
	}
}

func (m Model) clockOutCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return actionMsg{label: "Clocked out", err: client.ClockOut(ctx, time.Time{})}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.now = time.Time(msg)
		if !m.loading && time.Since(m.lastRefresh) >= refreshEvery {
			m.loading = true
			return m, tea.Batch(tickCmd(), m.spinner.Tick, m.refreshCmd())
		}
		return m, tickCmd()

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case statusMsg:
		m.loading = false
		m.lastRefresh = time.Now()
		m.authed = msg.authed
		m.lastErr = msg.err
		if msg.err == nil {
			m.open = msg.open
			m.shifts = msg.shifts
		}
		return m, nil

	case actionMsg:
		m.lastErr = msg.err
		if msg.err == nil {
			m.message = msg.label
		} else {
			logger.Error("Clock action failed", logger.F("error", msg.err))
			m.message = ""
		}
		// Pull the fresh state either way
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.refreshCmd())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.mode == ModeHelp {
			m.mode = ModeNormal
			return m, nil
		}
		return m.handleKeys(msg)
	}

	return m, nil
}

// handleKeys handles key presses in normal mode
func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.ClockIn):
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.message = "Clocking in..."
		return m, tea.Batch(m.spinner.Tick, m.clockInCmd())

	case key.Matches(msg, keys.ClockOut):
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.message = "Clocking out..."
		return m, tea.Batch(m.spinner.Tick, m.clockOutCmd())

	case key.Matches(msg, keys.Refresh):
		m.loading = true
		m.message = ""
		return m, tea.Batch(m.spinner.Tick, m.refreshCmd())

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
	}

	return m, nil
}

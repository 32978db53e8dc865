package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/deskhours/sucktorial/internal/model"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	status := m.renderClockState()
	table := m.renderShifts()
	statusBar := m.renderStatusBar()

	mainContent := lipgloss.JoinVertical(lipgloss.Left, header, "", status, "", table)

	if m.mode == ModeHelp {
		mainContent = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			m.renderHelp(),
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, statusBar)
}

func (m Model) renderHeader() string {
	title := HeaderStyle.Render("Sucktorial")
	account := HelpStyle.Render(truncate(m.client.Email(), 40))
	clock := HelpStyle.Render(m.now.Format("15:04:05"))

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(account) - lipgloss.Width(clock) - 4
	if gap < 1 {
		gap = 1
	}
	return title + " " + account + repeat(" ", gap) + clock
}

func (m Model) renderClockState() string {
	if m.loading {
		return WarningStyle.Render(m.spinner.View() + " " + m.orWorking())
	}
	if m.lastErr != nil {
		return ErrorStyle.Render("⚠ " + truncate(m.lastErr.Error(), m.width-4))
	}
	if !m.authed {
		return WarningStyle.Render("⚠ Not logged in. Quit and run 'sucktorial login' first.")
	}
	if m.open == nil {
		return ClockedOutStyle.Render("○ Not clocked in. Press 'i' to open a shift.")
	}

	since := clockLabel(m.open.ClockIn)
	worked := m.open.Duration(m.now).Round(time.Second)
	return ClockedInStyle.Render(fmt.Sprintf("● Clocked in since %s (%s worked)", since, worked))
}

func (m Model) orWorking() string {
	if m.message != "" {
		return m.message
	}
	return "Talking to Factorial..."
}

func (m Model) renderShifts() string {
	width := m.width - 4
	var s string

	title := fmt.Sprintf("%s · %s worked", m.now.Format("January 2006"), m.monthWorked().Round(time.Minute))
	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(title) + "\n"
	s += lipgloss.NewStyle().Foreground(Border).Render(repeat("─", min(width, 48))) + "\n"

	if len(m.shifts) == 0 {
		s += HelpStyle.Render("No shifts this month.")
		return TableStyle.Render(s)
	}

	s += TableHeaderStyle.Render(fmt.Sprintf("%-12s %-7s %-7s %-8s", "DATE", "IN", "OUT", "WORKED")) + "\n"

	// Newest shifts at the bottom, clipped to the visible rows.
	rows := m.height - 12
	if rows < 3 {
		rows = 3
	}
	shifts := m.shifts
	if len(shifts) > rows {
		shifts = shifts[len(shifts)-rows:]
	}

	for _, shift := range shifts {
		out := "—"
		style := lipgloss.NewStyle()
		if shift.IsOpen() {
			style = OpenShiftStyle
		} else {
			out = clockLabel(shift.ClockOut)
		}
		line := fmt.Sprintf("%-12s %-7s %-7s %-8s",
			shiftDay(shift), clockLabel(shift.ClockIn), out,
			shift.Duration(m.now).Round(time.Minute))
		s += style.Render(line) + "\n"
	}

	return TableStyle.Render(s)
}

func (m Model) renderStatusBar() string {
	left := ""
	if m.message != "" && !m.loading {
		left = m.message + "  ·  "
	}
	hints := []string{}
	for _, b := range []struct{ k, h string }{
		{keys.ClockIn.Help().Key, keys.ClockIn.Help().Desc},
		{keys.ClockOut.Help().Key, keys.ClockOut.Help().Desc},
		{keys.Refresh.Help().Key, keys.Refresh.Help().Desc},
		{keys.Help.Help().Key, keys.Help.Help().Desc},
		{keys.Quit.Help().Key, keys.Quit.Help().Desc},
	} {
		hints = append(hints, b.k+" "+b.h)
	}
	return StatusBarStyle.Width(m.width).Render(left + strings.Join(hints, " · "))
}

func (m Model) renderHelp() string {
	help := `Sucktorial keys

  i       clock in now
  o       clock out now
  r       refresh from Factorial
  ?       toggle this help
  q       quit

Clock actions use the current time. For a specific or randomized
time use the CLI: sucktorial clock in --at 09:00 --random

Press any key to close.`
	return ModalStyle.Render(help)
}

// clockLabel formats a stored clock value as HH:MM for display.
func clockLabel(raw string) string {
	t, ok := model.ParseClock(raw)
	if !ok {
		return truncate(raw, 7)
	}
	return t.Format("15:04")
}

func shiftDay(s model.Shift) string {
	if s.Date != "" {
		return s.Date
	}
	return fmt.Sprintf("%04d-%02d-%02d", s.Year, s.Month, s.Day)
}

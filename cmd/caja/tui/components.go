package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cajapos/caja/pkg/catalog"
)

// ConfirmationDialog represents a yes/no confirmation dialog
type ConfirmationDialog struct {
	Title       string
	Message     string
	YesSelected bool
	OnConfirm   func() tea.Cmd
	OnCancel    func() tea.Cmd
}

// NewConfirmationDialog creates a new confirmation dialog
func NewConfirmationDialog(title, message string) ConfirmationDialog {
	return ConfirmationDialog{
		Title:       title,
		Message:     message,
		YesSelected: false,
	}
}

// Update handles confirmation dialog updates
func (d *ConfirmationDialog) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			d.YesSelected = true
			return nil
		case "right", "l":
			d.YesSelected = false
			return nil
		case "enter":
			if d.YesSelected && d.OnConfirm != nil {
				return d.OnConfirm()
			}
			if !d.YesSelected && d.OnCancel != nil {
				return d.OnCancel()
			}
			return nil
		}
	}
	return nil
}

// View renders the confirmation dialog
func (d ConfirmationDialog) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(d.Title))
	b.WriteString("\n\n")
	b.WriteString(d.Message)
	b.WriteString("\n\n")

	yesButton := inactiveButtonStyle.Render("Yes")
	noButton := inactiveButtonStyle.Render("No")

	if d.YesSelected {
		yesButton = activeButtonStyle.Render("Yes")
	} else {
		noButton = activeButtonStyle.Render("No")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left, yesButton, "  ", noButton))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(FormatKey("←/→", "navigate") + " • " + FormatKey("enter", "confirm") + " • " + FormatKey("esc/q", "cancel")))

	return boxStyle.Render(b.String())
}

// CartPanel renders the pending sale lines and the running total.
type CartPanel struct {
	Lines  []catalog.CartLine
	Total  float64
	Cursor int
	Active bool
}

// View renders the cart panel
func (p CartPanel) View() string {
	var b strings.Builder

	b.WriteString(headerRowStyle.Render("Cart"))
	b.WriteString("\n\n")

	if len(p.Lines) == 0 {
		b.WriteString(mutedStyle.Render("No items yet"))
		b.WriteString("\n")
	}
	for i, line := range p.Lines {
		row := fmt.Sprintf("%dx %s  %.2f", line.Quantity, line.Name, line.Price*float64(line.Quantity))
		if p.Active && i == p.Cursor {
			b.WriteString(selectedItemStyle.Render("▸ " + row))
		} else {
			b.WriteString(unselectedItemStyle.Render("  " + row))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(successStyle.Render(fmt.Sprintf("Total: %.2f", p.Total)))

	if p.Active {
		return activeBoxStyle.Render(b.String())
	}
	return boxStyle.Render(b.String())
}

// StatusBar renders the one-line feedback area at the bottom of the screen.
type StatusBar struct {
	Message string
	IsError bool
}

// View renders the status bar
func (s StatusBar) View() string {
	if s.Message == "" {
		return ""
	}
	if s.IsError {
		return errorStyle.Render("✗ " + s.Message)
	}
	return infoStyle.Render("ℹ " + s.Message)
}

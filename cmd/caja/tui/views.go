package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cajapos/caja/pkg/view"
)

// View renders the UI
func (m Model) View() string {
	switch m.mode {
	case ModeProductForm:
		return m.centered(m.form.View())
	case ModeMasterForm:
		return m.centered(m.master.View())
	case ModeConfirm:
		return m.centered(m.confirm.View())
	}

	var b strings.Builder
	b.WriteString(m.tabBar())
	b.WriteString("\n\n")

	switch m.screen {
	case ScreenProducts:
		b.WriteString(m.productsView())
	case ScreenMasters:
		b.WriteString(m.mastersView())
	case ScreenBuy:
		b.WriteString(m.buyView())
	case ScreenSales:
		b.WriteString(m.salesView())
	}

	if status := m.status.View(); status != "" {
		b.WriteString("\n")
		b.WriteString(status)
	}
	b.WriteString("\n")
	b.WriteString(m.helpLine())
	return b.String()
}

func (m Model) centered(content string) string {
	if m.width == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) tabBar() string {
	tabs := make([]string, len(screenTitles))
	for i, title := range screenTitles {
		if Screen(i) == m.screen {
			tabs[i] = activeTabStyle.Render(title)
		} else {
			tabs[i] = inactiveTabStyle.Render(title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) searchLine() string {
	if m.mode == ModeSearch {
		return m.search.View()
	}
	if term := m.search.Value(); term != "" {
		return mutedStyle.Render("filter: ") + infoStyle.Render(term)
	}
	return mutedStyle.Render("press / to search")
}

// sortMarker decorates the active sort column's header.
func (m Model) sortMarker(col view.Column) string {
	if m.sort.Column != col {
		return ""
	}
	if m.sort.Ascending {
		return "▲"
	}
	return "▼"
}

func (m Model) productsView() string {
	var b strings.Builder

	b.WriteString(m.searchLine())
	b.WriteString("\n\n")

	products := m.visibleProducts()
	if len(products) == 0 {
		b.WriteString(mutedStyle.Render("No products"))
		b.WriteString("\n")
		return b.String()
	}

	header := fmt.Sprintf("  %-4s %-20s %-10s %-6s %-14s %-14s",
		"ID"+m.sortMarker(view.ColumnID),
		"NAME"+m.sortMarker(view.ColumnName),
		"PRICE"+m.sortMarker(view.ColumnPrice),
		"STK"+m.sortMarker(view.ColumnStock),
		"CATEGORY"+m.sortMarker(view.ColumnCategory),
		"SUBCATEGORY"+m.sortMarker(view.ColumnSubcategory),
	)
	b.WriteString(headerRowStyle.Render(header))
	b.WriteString("\n")

	cursor := clamp(m.productCursor, len(products))
	for i, p := range products {
		row := fmt.Sprintf("%-4d %-20s %-10.2f %-6d %-14s %-14s",
			p.ID, truncate(p.Name, 20), p.Price, p.Stock,
			truncate(p.Category, 14), truncate(p.Subcategory, 14))
		if i == cursor {
			b.WriteString(selectedItemStyle.Render("▸ " + row))
		} else {
			b.WriteString(unselectedItemStyle.Render("  " + row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) mastersView() string {
	categories := m.store.Categories()
	subs := m.store.Subcategories()

	var cats strings.Builder
	cats.WriteString(headerRowStyle.Render("Categories"))
	cats.WriteString("\n\n")
	if len(categories) == 0 {
		cats.WriteString(mutedStyle.Render("none"))
		cats.WriteString("\n")
	}
	catCursor := clamp(m.catCursor, len(categories))
	for i, cat := range categories {
		row := fmt.Sprintf("%-4d %s", cat.ID, cat.Name)
		if !m.mastersSub && i == catCursor {
			cats.WriteString(selectedItemStyle.Render("▸ " + row))
		} else {
			cats.WriteString(unselectedItemStyle.Render("  " + row))
		}
		cats.WriteString("\n")
	}

	var subsB strings.Builder
	subsB.WriteString(headerRowStyle.Render("Subcategories"))
	subsB.WriteString("\n\n")
	if len(subs) == 0 {
		subsB.WriteString(mutedStyle.Render("none"))
		subsB.WriteString("\n")
	}
	subCursor := clamp(m.subCursor, len(subs))
	for i, sub := range subs {
		row := fmt.Sprintf("%-4d %-16s %s", sub.ID, truncate(sub.Name, 16), mutedStyle.Render(sub.ParentCategory))
		if m.mastersSub && i == subCursor {
			subsB.WriteString(selectedItemStyle.Render("▸ ") + row)
		} else {
			subsB.WriteString("  " + row)
		}
		subsB.WriteString("\n")
	}

	left := boxStyle.Render(cats.String())
	right := boxStyle.Render(subsB.String())
	if m.mastersSub {
		right = activeBoxStyle.Render(subsB.String())
	} else {
		left = activeBoxStyle.Render(cats.String())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (m Model) buyView() string {
	var list strings.Builder
	list.WriteString(m.searchLine())
	list.WriteString("\n\n")
	list.WriteString(headerRowStyle.Render("Sellable products"))
	list.WriteString("\n\n")

	sellable := m.sellableProducts()
	if len(sellable) == 0 {
		list.WriteString(mutedStyle.Render("Nothing in stock"))
		list.WriteString("\n")
	}
	cursor := clamp(m.buyCursor, len(sellable))
	for i, p := range sellable {
		row := fmt.Sprintf("%-20s %8.2f  stock %s", truncate(p.Name, 20), p.Price, FormatStock(p.Stock))
		if !m.cartFocused && i == cursor {
			list.WriteString(selectedItemStyle.Render("▸ ") + row)
		} else {
			list.WriteString("  " + row)
		}
		list.WriteString("\n")
	}

	listBox := boxStyle.Render(list.String())
	if !m.cartFocused {
		listBox = activeBoxStyle.Render(list.String())
	}

	panel := CartPanel{
		Lines:  m.cart.Lines(),
		Total:  m.cart.Total(),
		Cursor: clamp(m.cartCursor, m.cart.Len()),
		Active: m.cartFocused,
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, listBox, " ", panel.View())
}

func (m Model) salesView() string {
	tickets := m.store.Tickets()

	var b strings.Builder
	b.WriteString(headerRowStyle.Render("Tickets"))
	b.WriteString("\n\n")
	if len(tickets) == 0 {
		b.WriteString(mutedStyle.Render("No sales yet"))
		b.WriteString("\n")
		return b.String()
	}

	cursor := clamp(m.ticketCursor, len(tickets))
	for i, t := range tickets {
		row := fmt.Sprintf("#%-5d %-20s %d line(s)  %8.2f", t.ID, t.Date, len(t.Lines), t.Total)
		if i == cursor {
			b.WriteString(selectedItemStyle.Render("▸ " + row))
		} else {
			b.WriteString(unselectedItemStyle.Render("  " + row))
		}
		b.WriteString("\n")
	}

	selected := tickets[cursor]
	var detail strings.Builder
	detail.WriteString(headerRowStyle.Render(fmt.Sprintf("Ticket #%d", selected.ID)))
	detail.WriteString("\n\n")
	if len(selected.Lines) == 0 {
		detail.WriteString(mutedStyle.Render("no line detail"))
		detail.WriteString("\n")
	}
	for _, line := range selected.Lines {
		detail.WriteString(fmt.Sprintf("%dx %-20s %8.2f\n", line.Quantity, truncate(line.Name, 20), line.Price*float64(line.Quantity)))
	}
	detail.WriteString("\n")
	detail.WriteString(successStyle.Render(fmt.Sprintf("Total: %.2f", selected.Total)))

	return lipgloss.JoinHorizontal(lipgloss.Top, b.String(), "   ", boxStyle.Render(detail.String()))
}

func (m Model) helpLine() string {
	common := FormatKey("1-4/tab", "view") + " • " + FormatKey("R", "reload") + " • " + FormatKey("q", "quit")
	switch m.screen {
	case ScreenProducts:
		return helpStyle.Render(
			FormatKey("/", "search") + " • " +
				FormatKey("n/d/p/k/c/b/i", "sort") + " • " +
				FormatKey("a", "add") + " • " +
				FormatKey("e", "edit") + " • " +
				FormatKey("x", "delete") + " • " + common,
		)
	case ScreenMasters:
		return helpStyle.Render(
			FormatKey("←/→", "pane") + " • " +
				FormatKey("a", "add") + " • " +
				FormatKey("x", "delete") + " • " + common,
		)
	case ScreenBuy:
		return helpStyle.Render(
			FormatKey("/", "search") + " • " +
				FormatKey("←/→", "pane") + " • " +
				FormatKey("enter", "add to cart") + " • " +
				FormatKey("x", "remove") + " • " +
				FormatKey("f", "finalize") + " • " + common,
		)
	default:
		return helpStyle.Render(FormatKey("↑/↓", "navigate") + " • " + common)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}

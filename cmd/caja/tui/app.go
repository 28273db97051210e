package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cajapos/caja/pkg/api"
	"github.com/cajapos/caja/pkg/cart"
	"github.com/cajapos/caja/pkg/catalog"
	"github.com/cajapos/caja/pkg/session"
	"github.com/cajapos/caja/pkg/store"
	"github.com/cajapos/caja/pkg/view"
)

// Screen is the active top-level view.
type Screen int

const (
	ScreenProducts Screen = iota
	ScreenMasters
	ScreenBuy
	ScreenSales
)

var screenTitles = [...]string{"1 Products", "2 Masters", "3 Buy", "4 Sales"}

// Mode represents the current input mode of the UI
type Mode int

const (
	ModeBrowse Mode = iota
	ModeSearch
	ModeProductForm
	ModeMasterForm
	ModeConfirm
)

// Model is the main Bubbletea model for the caja UI. Raw collections live in
// the entity store; every list shown on screen is re-derived from the store
// plus the current UI inputs on each render.
type Model struct {
	client *api.Client
	store  *store.Store
	cart   *cart.Cart

	screen Screen
	mode   Mode

	search textinput.Model
	sort   view.Sort

	productCursor int
	buyCursor     int
	cartCursor    int
	cartFocused   bool
	mastersSub    bool
	catCursor     int
	subCursor     int
	ticketCursor  int

	form    productForm
	master  masterForm
	confirm ConfirmationDialog
	status  StatusBar

	width  int
	height int
}

// NewModel creates the UI model around an API client.
func NewModel(client *api.Client) Model {
	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search"
	search.CharLimit = 64

	return Model{
		client: client,
		store:  store.New(),
		cart:   cart.New(),
		search: search,
		sort:   view.DefaultSort(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(append(reloadCmds(m.client), tea.EnterAltScreen)...)
}

// Messages. Each collection arrives in its own message so the four reload
// fetches can resolve in any order; applying one never touches the others.
type productsLoadedMsg []catalog.Product

type categoriesLoadedMsg []catalog.Category

type subcategoriesLoadedMsg []catalog.Subcategory

type ticketsLoadedMsg []catalog.Ticket

type fetchFailedMsg struct {
	kind string
	err  error
}

type mutationDoneMsg struct {
	info      string
	clearCart bool
	goToSales bool
}

type mutationFailedMsg struct {
	err error
}

// Commands
func reloadCmds(client *api.Client) []tea.Cmd {
	return []tea.Cmd{
		func() tea.Msg {
			ctx, cancel := fetchContext()
			defer cancel()
			rows, err := client.ListProducts(ctx)
			if err != nil {
				return fetchFailedMsg{kind: "products", err: err}
			}
			return productsLoadedMsg(rows)
		},
		func() tea.Msg {
			ctx, cancel := fetchContext()
			defer cancel()
			rows, err := client.ListCategories(ctx)
			if err != nil {
				return fetchFailedMsg{kind: "categories", err: err}
			}
			return categoriesLoadedMsg(rows)
		},
		func() tea.Msg {
			ctx, cancel := fetchContext()
			defer cancel()
			rows, err := client.ListSubcategories(ctx)
			if err != nil {
				return fetchFailedMsg{kind: "subcategories", err: err}
			}
			return subcategoriesLoadedMsg(rows)
		},
		func() tea.Msg {
			ctx, cancel := fetchContext()
			defer cancel()
			rows, err := client.ListTickets(ctx)
			if err != nil {
				return fetchFailedMsg{kind: "tickets", err: err}
			}
			return ticketsLoadedMsg(rows)
		},
	}
}

func fetchContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 15*time.Second)
}

// mutateCmd runs a mutation against the API. The store is never changed
// here: on success a full reload follows, on failure the server's message
// surfaces in the status bar and everything stays as it was.
func mutateCmd(done mutationDoneMsg, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := fetchContext()
		defer cancel()
		if err := fn(ctx); err != nil {
			return mutationFailedMsg{err: err}
		}
		return done
	}
}

// Derived views, recomputed on every access from the store snapshots.

func (m Model) visibleProducts() []catalog.Product {
	return view.FilterSort(m.store.Products(), m.search.Value(), m.sort)
}

func (m Model) sellableProducts() []catalog.Product {
	return view.Sellable(m.store.Products(), m.search.Value())
}

func clamp(cursor, length int) int {
	if cursor >= length {
		cursor = length - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case productsLoadedMsg:
		m.store.ReplaceProducts(msg)
		return m, nil

	case categoriesLoadedMsg:
		m.store.ReplaceCategories(msg)
		return m, nil

	case subcategoriesLoadedMsg:
		m.store.ReplaceSubcategories(msg)
		return m, nil

	case ticketsLoadedMsg:
		m.store.ReplaceTickets(msg)
		return m, nil

	case fetchFailedMsg:
		// The prior snapshot of this collection stays in place.
		m.status = StatusBar{Message: fmt.Sprintf("failed to load %s: %v", msg.kind, msg.err), IsError: true}
		return m, nil

	case mutationDoneMsg:
		if msg.clearCart {
			m.cart.Clear()
		}
		if msg.goToSales {
			m.screen = ScreenSales
		}
		m.mode = ModeBrowse
		m.status = StatusBar{Message: msg.info}
		return m, tea.Batch(reloadCmds(m.client)...)

	case mutationFailedMsg:
		m.mode = ModeBrowse
		if msg.err != nil {
			m.status = StatusBar{Message: msg.err.Error(), IsError: true}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeSearch:
		switch msg.String() {
		case "esc", "enter":
			m.mode = ModeBrowse
			return m, nil
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.productCursor = 0
			m.buyCursor = 0
			return m, cmd
		}

	case ModeProductForm:
		switch msg.String() {
		case "esc":
			m.mode = ModeBrowse
			return m, nil
		case "ctrl+s":
			s, err := m.form.submit()
			if err != nil {
				m.form.err = err.Error()
				return m, nil
			}
			return m, m.saveProductCmd(s)
		default:
			return m, m.form.Update(msg)
		}

	case ModeMasterForm:
		switch msg.String() {
		case "esc":
			m.mode = ModeBrowse
			return m, nil
		case "ctrl+s", "enter":
			return m.submitMasterForm()
		default:
			return m, m.master.Update(msg)
		}

	case ModeConfirm:
		switch msg.String() {
		case "esc", "q":
			m.mode = ModeBrowse
			return m, nil
		default:
			return m, m.confirm.Update(msg)
		}
	}

	// ModeBrowse
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "1":
		m.screen = ScreenProducts
		return m, nil
	case "2":
		m.screen = ScreenMasters
		return m, nil
	case "3":
		m.screen = ScreenBuy
		return m, nil
	case "4":
		m.screen = ScreenSales
		return m, nil
	case "tab":
		m.screen = (m.screen + 1) % 4
		return m, nil
	case "R":
		m.status = StatusBar{Message: "reloading"}
		return m, tea.Batch(reloadCmds(m.client)...)
	case "/":
		if m.screen == ScreenProducts || m.screen == ScreenBuy {
			m.mode = ModeSearch
			m.search.Focus()
			return m, textinput.Blink
		}
	}

	switch m.screen {
	case ScreenProducts:
		return m.handleProductsKey(msg)
	case ScreenMasters:
		return m.handleMastersKey(msg)
	case ScreenBuy:
		return m.handleBuyKey(msg)
	case ScreenSales:
		return m.handleSalesKey(msg)
	}
	return m, nil
}

var sortKeys = map[string]view.Column{
	"n": view.ColumnName,
	"d": view.ColumnDescription,
	"p": view.ColumnPrice,
	"k": view.ColumnStock,
	"c": view.ColumnCategory,
	"b": view.ColumnSubcategory,
	"i": view.ColumnID,
}

func (m Model) handleProductsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	products := m.visibleProducts()

	if col, ok := sortKeys[msg.String()]; ok {
		m.sort = m.sort.Toggle(col)
		return m, nil
	}

	switch msg.String() {
	case "up":
		m.productCursor = clamp(m.productCursor-1, len(products))
	case "down":
		m.productCursor = clamp(m.productCursor+1, len(products))
	case "a":
		var s session.ProductSession
		s.OpenForCreate()
		m.form = newProductForm(s, m.store.Categories(), m.store.Subcategories())
		m.mode = ModeProductForm
	case "e":
		if len(products) == 0 {
			return m, nil
		}
		var s session.ProductSession
		s.OpenForEdit(products[clamp(m.productCursor, len(products))], m.store.Subcategories())
		m.form = newProductForm(s, m.store.Categories(), m.store.Subcategories())
		m.mode = ModeProductForm
	case "x":
		if len(products) == 0 {
			return m, nil
		}
		p := products[clamp(m.productCursor, len(products))]
		m.confirm = NewConfirmationDialog(
			"Delete product",
			fmt.Sprintf("Delete product %q?", p.Name),
		)
		m.confirm.OnConfirm = func() tea.Cmd {
			return mutateCmd(
				mutationDoneMsg{info: fmt.Sprintf("Product %q deleted", p.Name)},
				func(ctx context.Context) error { return m.client.DeleteProduct(ctx, p.ID) },
			)
		}
		m.confirm.OnCancel = cancelConfirm
		m.mode = ModeConfirm
	}
	return m, nil
}

func (m Model) handleMastersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	categories := m.store.Categories()
	subs := m.store.Subcategories()

	switch msg.String() {
	case "left", "right":
		m.mastersSub = !m.mastersSub
	case "up":
		if m.mastersSub {
			m.subCursor = clamp(m.subCursor-1, len(subs))
		} else {
			m.catCursor = clamp(m.catCursor-1, len(categories))
		}
	case "down":
		if m.mastersSub {
			m.subCursor = clamp(m.subCursor+1, len(subs))
		} else {
			m.catCursor = clamp(m.catCursor+1, len(categories))
		}
	case "a":
		m.master = newMasterForm(m.mastersSub)
		m.mode = ModeMasterForm
	case "x":
		if m.mastersSub {
			if len(subs) == 0 {
				return m, nil
			}
			sub := subs[clamp(m.subCursor, len(subs))]
			m.confirm = NewConfirmationDialog(
				"Delete subcategory",
				fmt.Sprintf("Delete subcategory %q?", sub.Name),
			)
			m.confirm.OnConfirm = func() tea.Cmd {
				return mutateCmd(
					mutationDoneMsg{info: fmt.Sprintf("Subcategory %q deleted", sub.Name)},
					func(ctx context.Context) error { return m.client.DeleteSubcategory(ctx, sub.ID) },
				)
			}
		} else {
			if len(categories) == 0 {
				return m, nil
			}
			cat := categories[clamp(m.catCursor, len(categories))]
			m.confirm = NewConfirmationDialog(
				"Delete category",
				fmt.Sprintf("Delete category %q? Its subcategories and products will be deleted too.", cat.Name),
			)
			m.confirm.OnConfirm = func() tea.Cmd {
				return mutateCmd(
					mutationDoneMsg{info: fmt.Sprintf("Category %q deleted", cat.Name)},
					func(ctx context.Context) error { return m.client.DeleteCategory(ctx, cat.ID) },
				)
			}
		}
		m.confirm.OnCancel = cancelConfirm
		m.mode = ModeConfirm
	}
	return m, nil
}

func (m Model) handleBuyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sellable := m.sellableProducts()
	lines := m.cart.Lines()

	switch msg.String() {
	case "left", "right":
		m.cartFocused = !m.cartFocused
	case "up":
		if m.cartFocused {
			m.cartCursor = clamp(m.cartCursor-1, len(lines))
		} else {
			m.buyCursor = clamp(m.buyCursor-1, len(sellable))
		}
	case "down":
		if m.cartFocused {
			m.cartCursor = clamp(m.cartCursor+1, len(lines))
		} else {
			m.buyCursor = clamp(m.buyCursor+1, len(sellable))
		}
	case "enter", "a", "+":
		if m.cartFocused || len(sellable) == 0 {
			return m, nil
		}
		p := sellable[clamp(m.buyCursor, len(sellable))]
		if err := m.cart.Add(p); err != nil {
			m.status = StatusBar{Message: fmt.Sprintf("%s: %v", p.Name, err), IsError: true}
		} else {
			m.status = StatusBar{Message: fmt.Sprintf("%s added to cart", p.Name)}
		}
	case "x", "-":
		if !m.cartFocused || len(lines) == 0 {
			return m, nil
		}
		line := lines[clamp(m.cartCursor, len(lines))]
		m.cart.Remove(line.ProductID)
		m.cartCursor = clamp(m.cartCursor, m.cart.Len())
	case "f":
		if m.cart.Len() == 0 {
			m.status = StatusBar{Message: "cart is empty", IsError: true}
			return m, nil
		}
		req := m.cart.SaleRequest()
		m.confirm = NewConfirmationDialog(
			"Finalize sale",
			fmt.Sprintf("Submit %d line(s) for a total of %.2f?", m.cart.Len(), m.cart.Total()),
		)
		m.confirm.OnConfirm = func() tea.Cmd {
			return mutateCmd(
				mutationDoneMsg{info: "Sale completed", clearCart: true, goToSales: true},
				func(ctx context.Context) error { return m.client.FinalizeSale(ctx, req) },
			)
		}
		m.confirm.OnCancel = cancelConfirm
		m.mode = ModeConfirm
	}
	return m, nil
}

func (m Model) handleSalesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tickets := m.store.Tickets()
	switch msg.String() {
	case "up":
		m.ticketCursor = clamp(m.ticketCursor-1, len(tickets))
	case "down":
		m.ticketCursor = clamp(m.ticketCursor+1, len(tickets))
	}
	return m, nil
}

// cancelConfirm is shared by every confirmation dialog: declining performs
// nothing, the browse mode is restored by the dialog key handling.
func cancelConfirm() tea.Cmd {
	return func() tea.Msg {
		return mutationFailedMsg{err: nil}
	}
}

func (m Model) saveProductCmd(s session.ProductSession) tea.Cmd {
	info := fmt.Sprintf("Product %q created", s.Name)
	if s.Editing() {
		info = fmt.Sprintf("Product %q updated", s.Name)
	}
	return mutateCmd(mutationDoneMsg{info: info}, func(ctx context.Context) error {
		if s.Editing() {
			return m.client.UpdateProduct(ctx, s.Input())
		}
		return m.client.CreateProduct(ctx, s.Input())
	})
}

func (m Model) submitMasterForm() (tea.Model, tea.Cmd) {
	if m.master.isSubcategory {
		s, err := m.master.subcategorySession()
		if err == nil {
			err = s.Validate()
		}
		if err != nil {
			m.master.err = err.Error()
			return m, nil
		}
		return m, mutateCmd(
			mutationDoneMsg{info: fmt.Sprintf("Subcategory %q created", s.Name)},
			func(ctx context.Context) error { return m.client.CreateSubcategory(ctx, s.Input()) },
		)
	}

	s := m.master.categorySession()
	if err := s.Validate(); err != nil {
		m.master.err = err.Error()
		return m, nil
	}
	return m, mutateCmd(
		mutationDoneMsg{info: fmt.Sprintf("Category %q created", s.Name)},
		func(ctx context.Context) error { return m.client.CreateCategory(ctx, s.Input()) },
	)
}

// Run starts the interactive UI.
func Run(client *api.Client) error {
	p := tea.NewProgram(NewModel(client))
	_, err := p.Run()
	return err
}

//go:build integration
// +build integration

package caja_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/cajapos/caja/pkg/api"
	"github.com/cajapos/caja/pkg/cart"
	"github.com/cajapos/caja/pkg/catalog"
	"github.com/cajapos/caja/pkg/session"
	"github.com/cajapos/caja/pkg/store"
	casync "github.com/cajapos/caja/pkg/sync"
	"github.com/cajapos/caja/pkg/view"
)

// tiendaServer is a minimal in-memory rendition of the backend: it persists
// entities, denormalizes names onto products, decrements stock on sales and
// rejects oversold carts with an operator-readable message.
type tiendaServer struct {
	mux    *http.ServeMux
	nextID int64

	products      []catalog.Product
	categories    []catalog.Category
	subcategories []catalog.Subcategory
	tickets       []catalog.Ticket
}

func newTiendaServer() *tiendaServer {
	s := &tiendaServer{mux: http.NewServeMux(), nextID: 1}

	s.mux.HandleFunc("GET /productos", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.products)
	})
	s.mux.HandleFunc("GET /categorias", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.categories)
	})
	s.mux.HandleFunc("GET /subcategorias", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.subcategories)
	})
	s.mux.HandleFunc("GET /tickets", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.tickets)
	})

	s.mux.HandleFunc("POST /categorias", func(w http.ResponseWriter, r *http.Request) {
		var in catalog.CategoryInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		s.categories = append(s.categories, catalog.Category{ID: s.id(), Name: in.Name})
		w.WriteHeader(http.StatusCreated)
	})
	s.mux.HandleFunc("POST /subcategorias", func(w http.ResponseWriter, r *http.Request) {
		var in catalog.SubcategoryInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		parent := ""
		for _, c := range s.categories {
			if c.ID == in.CategoryID {
				parent = c.Name
			}
		}
		if parent == "" {
			http.Error(w, "categoria no encontrada", http.StatusBadRequest)
			return
		}
		s.subcategories = append(s.subcategories, catalog.Subcategory{
			ID: s.id(), Name: in.Name, CategoryID: in.CategoryID, ParentCategory: parent,
		})
		w.WriteHeader(http.StatusCreated)
	})
	s.mux.HandleFunc("POST /productos", func(w http.ResponseWriter, r *http.Request) {
		var in catalog.ProductInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		p := catalog.Product{
			ID: s.id(), Name: in.Name, Description: in.Description,
			Price: in.Price, Stock: in.Stock, CategoryID: in.CategoryID,
			Category: in.Category,
		}
		if in.SubcategoryID != nil {
			for _, sub := range s.subcategories {
				if sub.ID == *in.SubcategoryID {
					p.Subcategory = sub.Name
				}
			}
		}
		s.products = append(s.products, p)
		w.WriteHeader(http.StatusCreated)
	})
	s.mux.HandleFunc("PUT /productos/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var in catalog.ProductInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		for i := range s.products {
			if s.products[i].ID == id {
				s.products[i].Name = in.Name
				s.products[i].Price = in.Price
				s.products[i].Stock = in.Stock
				w.WriteHeader(http.StatusOK)
				return
			}
		}
		http.Error(w, "producto no encontrado", http.StatusNotFound)
	})
	s.mux.HandleFunc("DELETE /productos/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		for i := range s.products {
			if s.products[i].ID == id {
				s.products = append(s.products[:i], s.products[i+1:]...)
				w.WriteHeader(http.StatusOK)
				return
			}
		}
		http.Error(w, "producto no encontrado", http.StatusNotFound)
	})
	s.mux.HandleFunc("POST /ventas/realizar", func(w http.ResponseWriter, r *http.Request) {
		var req catalog.SaleRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		ticket := catalog.Ticket{ID: s.id(), Date: "2026-08-31"}
		for _, item := range req.Items {
			found := false
			for i := range s.products {
				if s.products[i].ID != item.ProductID {
					continue
				}
				found = true
				if s.products[i].Stock < item.Quantity {
					http.Error(w, "Stock insuficiente para "+s.products[i].Name, http.StatusConflict)
					return
				}
				s.products[i].Stock -= item.Quantity
				ticket.Lines = append(ticket.Lines, catalog.TicketLine{
					ProductID: item.ProductID,
					Name:      s.products[i].Name,
					Price:     s.products[i].Price,
					Quantity:  item.Quantity,
				})
				ticket.Total += s.products[i].Price * float64(item.Quantity)
			}
			if !found {
				http.Error(w, "producto no encontrado", http.StatusNotFound)
				return
			}
		}
		s.tickets = append(s.tickets, ticket)
		w.WriteHeader(http.StatusOK)
	})

	return s
}

func (s *tiendaServer) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type autoUI struct {
	notified []string
}

func (u *autoUI) Confirm(string) bool   { return true }
func (u *autoUI) Notify(message string) { u.notified = append(u.notified, message) }

// setupController wires a controller against a fresh in-memory backend.
func setupController(t *testing.T) (*casync.Controller, *autoUI) {
	t.Helper()

	backend := newTiendaServer()
	server := httptest.NewServer(backend.mux)
	t.Cleanup(server.Close)

	client, err := api.NewClient(api.Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	ui := &autoUI{}
	return casync.NewController(client, store.New(), cart.New(), ui), ui
}

// TestFullSaleFlow walks the complete operator path: build the master data,
// create products, browse the derived views, assemble a cart and sell.
func TestFullSaleFlow(t *testing.T) {
	c, ui := setupController(t)
	ctx := context.Background()

	// Master data.
	if err := c.SaveCategory(ctx, &session.CategorySession{Name: "Peripherals"}); err != nil {
		t.Fatalf("SaveCategory failed: %v", err)
	}
	catID := c.Store().Categories()[0].ID

	if err := c.SaveSubcategory(ctx, &session.SubcategorySession{Name: "Mice", CategoryID: catID}); err != nil {
		t.Fatalf("SaveSubcategory failed: %v", err)
	}
	if got := c.Store().Subcategories()[0].ParentCategory; got != "Peripherals" {
		t.Fatalf("expected denormalized parent name, got %q", got)
	}

	// Products through the edit session, including the derived options.
	var ps session.ProductSession
	ps.OpenForCreate()
	ps.Name = "Mouse"
	ps.Description = "Wireless"
	ps.Price = 12.5
	ps.Stock = 2
	ps.SetCategory(catID, c.Store().Categories())

	opts := ps.SubcategoryOptions(c.Store().Subcategories())
	if len(opts) != 1 || opts[0].Name != "Mice" {
		t.Fatalf("expected the Mice option, got %+v", opts)
	}
	subID := opts[0].ID
	ps.SubcategoryID = &subID

	if err := c.SaveProduct(ctx, &ps); err != nil {
		t.Fatalf("SaveProduct failed: %v", err)
	}

	var ps2 session.ProductSession
	ps2.OpenForCreate()
	ps2.Name = "Keyboard"
	ps2.Price = 30
	ps2.Stock = 0 // not persistable: stock must be positive
	ps2.SetCategory(catID, c.Store().Categories())
	if err := c.SaveProduct(ctx, &ps2); err == nil {
		t.Fatal("expected validation failure for zero stock")
	}
	ps2.Stock = 5
	if err := c.SaveProduct(ctx, &ps2); err != nil {
		t.Fatalf("SaveProduct failed: %v", err)
	}

	// Derived views over the reloaded store.
	products := c.Store().Products()
	sorted := view.FilterSort(products, "", view.Sort{Column: view.ColumnPrice, Ascending: false})
	if sorted[0].Name != "Keyboard" {
		t.Fatalf("expected Keyboard first by price desc, got %q", sorted[0].Name)
	}
	sellable := view.Sellable(products, "mou")
	if len(sellable) != 1 || sellable[0].Name != "Mouse" {
		t.Fatalf("unexpected sellable view: %+v", sellable)
	}

	// Cart: stock cap at 2, then sell.
	mouseID := sellable[0].ID
	if err := c.AddToCart(mouseID); err != nil {
		t.Fatalf("AddToCart failed: %v", err)
	}
	if err := c.AddToCart(mouseID); err != nil {
		t.Fatalf("AddToCart failed: %v", err)
	}
	if err := c.AddToCart(mouseID); err == nil {
		t.Fatal("expected insufficient stock on third add")
	}
	if total := c.Cart().Total(); total != 25 {
		t.Fatalf("expected cart total 25, got %v", total)
	}

	if err := c.FinalizeSale(ctx); err != nil {
		t.Fatalf("FinalizeSale failed: %v", err)
	}
	if c.Cart().Len() != 0 {
		t.Fatal("cart must be cleared after a successful sale")
	}
	if len(ui.notified) == 0 {
		t.Fatal("expected a sale notification")
	}

	// The reload reflects the server's new state: stock consumed, ticket cut.
	tickets := c.Store().Tickets()
	if len(tickets) != 1 || tickets[0].Total != 25 {
		t.Fatalf("unexpected tickets: %+v", tickets)
	}
	for _, p := range c.Store().Products() {
		if p.Name == "Mouse" && p.Stock != 0 {
			t.Fatalf("expected Mouse stock 0 after sale, got %d", p.Stock)
		}
	}

	// Overselling is rejected with the server's message and the cart stays.
	var keyboardID int64
	for _, p := range c.Store().Products() {
		if p.Name == "Keyboard" {
			keyboardID = p.ID
		}
	}
	for i := 0; i < 5; i++ {
		if err := c.AddToCart(keyboardID); err != nil {
			t.Fatalf("AddToCart failed: %v", err)
		}
	}
	// Shrink the server-side stock behind the client's back.
	var ps3 session.ProductSession
	for _, p := range c.Store().Products() {
		if p.ID == keyboardID {
			ps3.OpenForEdit(p, c.Store().Subcategories())
		}
	}
	ps3.Stock = 1
	if err := c.SaveProduct(ctx, &ps3); err != nil {
		t.Fatalf("SaveProduct failed: %v", err)
	}

	err := c.FinalizeSale(ctx)
	if err == nil {
		t.Fatal("expected oversell rejection")
	}
	if !strings.Contains(err.Error(), "Stock insuficiente") {
		t.Fatalf("expected the server message verbatim, got %v", err)
	}
	if c.Cart().Len() != 1 {
		t.Fatal("failed sale must leave the cart untouched")
	}
}

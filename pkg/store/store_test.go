package store

import (
	"testing"

	"github.com/cajapos/caja/pkg/catalog"
)

func TestStore_Replace(t *testing.T) {
	s := New()

	t.Run("collections start empty", func(t *testing.T) {
		if len(s.Products()) != 0 || len(s.Categories()) != 0 {
			t.Error("expected empty snapshots")
		}
	})

	t.Run("replace swaps the whole collection", func(t *testing.T) {
		s.ReplaceProducts([]catalog.Product{{ID: 1, Name: "Mouse"}})
		s.ReplaceProducts([]catalog.Product{{ID: 2, Name: "Keyboard"}, {ID: 3, Name: "Monitor"}})

		products := s.Products()
		if len(products) != 2 || products[0].ID != 2 {
			t.Errorf("expected wholesale replacement, got %+v", products)
		}
	})

	t.Run("kinds are independent", func(t *testing.T) {
		s.ReplaceCategories([]catalog.Category{{ID: 1, Name: "Peripherals"}})
		s.ReplaceTickets([]catalog.Ticket{{ID: 7}})

		if len(s.Products()) != 2 {
			t.Error("replacing other kinds must not touch products")
		}
		if len(s.Categories()) != 1 || len(s.Tickets()) != 1 {
			t.Error("expected categories and tickets to be replaced")
		}
	})
}

func TestStore_Subscribe(t *testing.T) {
	s := New()

	var fired int
	s.Subscribe(func() { fired++ })

	s.ReplaceProducts(nil)
	s.ReplaceCategories(nil)
	s.ReplaceSubcategories(nil)
	s.ReplaceTickets(nil)

	if fired != 4 {
		t.Errorf("expected 4 notifications, got %d", fired)
	}
}

func TestStore_CategoryByID(t *testing.T) {
	s := New()
	s.ReplaceCategories([]catalog.Category{
		{ID: 1, Name: "Peripherals"},
		{ID: 2, Name: "Displays"},
	})

	t.Run("existing id", func(t *testing.T) {
		c, ok := s.CategoryByID(2)
		if !ok || c.Name != "Displays" {
			t.Errorf("expected Displays, got %+v (ok=%v)", c, ok)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, ok := s.CategoryByID(99); ok {
			t.Error("expected not found")
		}
	})
}

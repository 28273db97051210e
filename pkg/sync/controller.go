// Package sync orchestrates reload-after-mutation: every confirmed server
// mutation triggers a full re-fetch, and the store only ever changes in
// response to confirmed server state.
package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/cajapos/caja/pkg/api"
	"github.com/cajapos/caja/pkg/cart"
	"github.com/cajapos/caja/pkg/session"
	"github.com/cajapos/caja/pkg/store"
)

// ErrEmptyCart is returned when finalizing a sale with no lines.
var ErrEmptyCart = errors.New("cart is empty")

// UI is the operator interaction capability injected into the controller.
// Confirm gates destructive actions; Notify reports outcomes.
type UI interface {
	Confirm(message string) bool
	Notify(message string)
}

// Controller wires the API client, the entity store and the cart together.
// Mutations never touch the store optimistically: a failed call leaves both
// the store and the cart exactly as they were.
type Controller struct {
	client *api.Client
	store  *store.Store
	cart   *cart.Cart
	ui     UI
}

// NewController builds a controller around its collaborators.
func NewController(client *api.Client, st *store.Store, ct *cart.Cart, ui UI) *Controller {
	return &Controller{client: client, store: st, cart: ct, ui: ui}
}

// Store exposes the entity store for read access.
func (c *Controller) Store() *store.Store {
	return c.store
}

// Cart exposes the cart engine.
func (c *Controller) Cart() *cart.Cart {
	return c.cart
}

// ReloadAll re-fetches the four collections. Each fetch is independent: a
// collection is replaced only when its own fetch succeeds, so one failure
// never corrupts the others. All failures are joined into the returned error.
func (c *Controller) ReloadAll(ctx context.Context) error {
	var errs []error

	if products, err := c.client.ListProducts(ctx); err != nil {
		errs = append(errs, fmt.Errorf("products: %w", err))
	} else {
		c.store.ReplaceProducts(products)
	}

	if categories, err := c.client.ListCategories(ctx); err != nil {
		errs = append(errs, fmt.Errorf("categories: %w", err))
	} else {
		c.store.ReplaceCategories(categories)
	}

	if subs, err := c.client.ListSubcategories(ctx); err != nil {
		errs = append(errs, fmt.Errorf("subcategories: %w", err))
	} else {
		c.store.ReplaceSubcategories(subs)
	}

	if tickets, err := c.client.ListTickets(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tickets: %w", err))
	} else {
		c.store.ReplaceTickets(tickets)
	}

	return errors.Join(errs...)
}

// SaveProduct validates the session and dispatches a create or update
// depending on its edit flag, then reloads.
func (c *Controller) SaveProduct(ctx context.Context, s *session.ProductSession) error {
	if err := s.Validate(); err != nil {
		return err
	}
	var err error
	if s.Editing() {
		err = c.client.UpdateProduct(ctx, s.Input())
	} else {
		err = c.client.CreateProduct(ctx, s.Input())
	}
	if err != nil {
		return err
	}
	return c.ReloadAll(ctx)
}

// SaveCategory validates and creates a category, then reloads.
func (c *Controller) SaveCategory(ctx context.Context, s *session.CategorySession) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := c.client.CreateCategory(ctx, s.Input()); err != nil {
		return err
	}
	return c.ReloadAll(ctx)
}

// SaveSubcategory validates and creates a subcategory, then reloads.
func (c *Controller) SaveSubcategory(ctx context.Context, s *session.SubcategorySession) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := c.client.CreateSubcategory(ctx, s.Input()); err != nil {
		return err
	}
	return c.ReloadAll(ctx)
}

// DeleteProduct deletes a product after operator confirmation. Declining
// issues no request and is not an error.
func (c *Controller) DeleteProduct(ctx context.Context, id int64) error {
	if !c.ui.Confirm(fmt.Sprintf("Delete product %d?", id)) {
		return nil
	}
	if err := c.client.DeleteProduct(ctx, id); err != nil {
		return err
	}
	return c.ReloadAll(ctx)
}

// DeleteCategory deletes a category after operator confirmation. The warning
// names the cascade: the server also removes dependent subcategories and
// products.
func (c *Controller) DeleteCategory(ctx context.Context, id int64) error {
	if !c.ui.Confirm(fmt.Sprintf("Delete category %d? Its subcategories and products will be deleted too.", id)) {
		return nil
	}
	if err := c.client.DeleteCategory(ctx, id); err != nil {
		return err
	}
	return c.ReloadAll(ctx)
}

// DeleteSubcategory deletes a subcategory after operator confirmation.
func (c *Controller) DeleteSubcategory(ctx context.Context, id int64) error {
	if !c.ui.Confirm(fmt.Sprintf("Delete subcategory %d?", id)) {
		return nil
	}
	if err := c.client.DeleteSubcategory(ctx, id); err != nil {
		return err
	}
	return c.ReloadAll(ctx)
}

// FinalizeSale submits the cart. On success the cart is cleared, the
// collections reload and the operator is notified. On failure the cart and
// store are untouched and the server's message comes back as the error.
func (c *Controller) FinalizeSale(ctx context.Context) error {
	if c.cart.Len() == 0 {
		return ErrEmptyCart
	}
	if err := c.client.FinalizeSale(ctx, c.cart.SaleRequest()); err != nil {
		return err
	}
	c.cart.Clear()
	c.ui.Notify("Sale completed")
	return c.ReloadAll(ctx)
}

// AddToCart puts one unit of the product with id in the cart, resolving it
// against the current product snapshot.
func (c *Controller) AddToCart(id int64) error {
	for _, p := range c.store.Products() {
		if p.ID == id {
			return c.cart.Add(p)
		}
	}
	return fmt.Errorf("product %d not found", id)
}

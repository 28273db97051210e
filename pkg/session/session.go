// Package session holds the transient editable copy of an entity while a
// create/edit form is open.
package session

import (
	"fmt"

	"github.com/cajapos/caja/pkg/catalog"
	"github.com/cajapos/caja/pkg/view"
)

// ValidationError is a pre-submission business-rule failure. It blocks the
// save entirely; no request is sent.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// ProductSession is the editable copy of one product. Editing reports whether
// the session updates an existing row or creates a new one.
type ProductSession struct {
	ID            int64
	Name          string
	Description   string
	Price         float64
	Stock         int
	CategoryID    int64
	CategoryName  string
	SubcategoryID *int64

	editing bool
}

// OpenForCreate resets the session to an empty template.
func (s *ProductSession) OpenForCreate() {
	*s = ProductSession{}
}

// OpenForEdit copies p into the session. The row carries the subcategory
// name only, so its id is recovered by matching the name against the full
// subcategory collection.
func (s *ProductSession) OpenForEdit(p catalog.Product, subs []catalog.Subcategory) {
	*s = ProductSession{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Stock:        p.Stock,
		CategoryID:   p.CategoryID,
		CategoryName: p.Category,
		editing:      true,
	}
	for _, sub := range subs {
		if sub.Name == p.Subcategory {
			id := sub.ID
			s.SubcategoryID = &id
			break
		}
	}
}

// Editing reports whether the session edits an existing row.
func (s *ProductSession) Editing() bool {
	return s.editing
}

// SetCategory records the chosen category's id and denormalized name, and
// clears the previously chosen subcategory, which is no longer valid under
// the new parent. An unknown id clears the category name.
func (s *ProductSession) SetCategory(id int64, categories []catalog.Category) {
	s.CategoryID = id
	s.CategoryName = ""
	s.SubcategoryID = nil
	for _, c := range categories {
		if c.ID == id {
			s.CategoryName = c.Name
			return
		}
	}
}

// SubcategoryOptions returns the subcategories valid under the session's
// current category; empty when no category is chosen.
func (s *ProductSession) SubcategoryOptions(subs []catalog.Subcategory) []catalog.Subcategory {
	return view.SubcategoryOptions(subs, s.CategoryName)
}

// Validate checks the business rules before submission.
func (s *ProductSession) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if s.Price <= 0 {
		return &ValidationError{Field: "price", Message: "price must be greater than 0"}
	}
	if s.Stock <= 0 {
		return &ValidationError{Field: "stock", Message: "stock must be greater than 0"}
	}
	return nil
}

// Input builds the create/update payload from the session.
func (s *ProductSession) Input() catalog.ProductInput {
	return catalog.ProductInput{
		ID:            s.ID,
		Name:          s.Name,
		Description:   s.Description,
		Price:         s.Price,
		Stock:         s.Stock,
		CategoryID:    s.CategoryID,
		Category:      s.CategoryName,
		SubcategoryID: s.SubcategoryID,
	}
}

// CategorySession is the editable copy of one category.
type CategorySession struct {
	Name string
}

// Validate checks the business rules before submission.
func (s *CategorySession) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	return nil
}

// Input builds the create payload.
func (s *CategorySession) Input() catalog.CategoryInput {
	return catalog.CategoryInput{Name: s.Name}
}

// SubcategorySession is the editable copy of one subcategory.
type SubcategorySession struct {
	Name       string
	CategoryID int64
}

// Validate checks the business rules before submission.
func (s *SubcategorySession) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if s.CategoryID == 0 {
		return &ValidationError{Field: "category", Message: "a parent category is required"}
	}
	return nil
}

// Input builds the create payload.
func (s *SubcategorySession) Input() catalog.SubcategoryInput {
	return catalog.SubcategoryInput{Name: s.Name, CategoryID: s.CategoryID}
}

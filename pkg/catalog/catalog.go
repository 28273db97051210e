// Package catalog defines the entity types exchanged with the tienda backend.
package catalog

// Product is a sellable item as returned by GET /productos. Category and
// Subcategory carry the denormalized names; CategoryID links the parent.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"nombre"`
	Description string  `json:"descripcion"`
	Price       float64 `json:"precio"`
	Stock       int     `json:"stock"`
	CategoryID  int64   `json:"categoriaId"`
	Category    string  `json:"categoria"`
	Subcategory string  `json:"subcategoria"`
}

// Category is a top-level product grouping.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
}

// Subcategory belongs to exactly one category. ParentCategory is the
// denormalized parent name the backend filters on.
type Subcategory struct {
	ID             int64  `json:"id"`
	Name           string `json:"nombre"`
	CategoryID     int64  `json:"categoriaId"`
	ParentCategory string `json:"categoriaPadre"`
}

// Ticket is a finalized sale record. Read-only on the client.
type Ticket struct {
	ID    int64        `json:"id"`
	Date  string       `json:"fecha"`
	Total float64      `json:"total"`
	Lines []TicketLine `json:"lineas"`
}

// TicketLine is one sold item inside a ticket.
type TicketLine struct {
	ProductID int64   `json:"productoId"`
	Name      string  `json:"nombre"`
	Price     float64 `json:"precio"`
	Quantity  int     `json:"cantidad"`
}

// CartLine is a product queued for sale. Name and Price are snapshots taken
// when the line was created; they are not re-read from the catalog.
type CartLine struct {
	ProductID int64   `json:"productoId"`
	Name      string  `json:"nombre"`
	Price     float64 `json:"precio"`
	Quantity  int     `json:"cantidad"`
}

// SaleItem is one line of a sale submission.
type SaleItem struct {
	ProductID int64 `json:"productoId"`
	Quantity  int   `json:"cantidad"`
}

// SaleRequest is the body of POST /ventas/realizar.
type SaleRequest struct {
	Items []SaleItem `json:"items"`
}

// ProductInput is the payload for creating or updating a product. The
// subcategory id is a pointer so "no subcategory" serializes as null.
type ProductInput struct {
	ID            int64   `json:"id,omitempty"`
	Name          string  `json:"nombre"`
	Description   string  `json:"descripcion"`
	Price         float64 `json:"precio"`
	Stock         int     `json:"stock"`
	CategoryID    int64   `json:"categoriaId"`
	Category      string  `json:"categoriaNombre"`
	SubcategoryID *int64  `json:"subcategoriaId"`
}

// CategoryInput is the payload for creating a category.
type CategoryInput struct {
	Name string `json:"nombre"`
}

// SubcategoryInput is the payload for creating a subcategory.
type SubcategoryInput struct {
	Name       string `json:"nombre"`
	CategoryID int64  `json:"categoriaId"`
}

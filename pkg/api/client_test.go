package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cajapos/caja/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL})
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("rejects empty base URL", func(t *testing.T) {
		_, err := NewClient(Config{})
		assert.ErrorIs(t, err, ErrEmptyBaseURL)
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /productos", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode([]catalog.Product{})
		})
		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)

		client, err := NewClient(Config{BaseURL: server.URL + "/"})
		require.NoError(t, err)

		_, err = client.ListProducts(context.Background())
		assert.NoError(t, err)
	})
}

func TestClient_ListProducts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /productos", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]catalog.Product{
			{ID: 1, Name: "Mouse", Price: 12.5, Stock: 3, CategoryID: 1, Category: "Peripherals", Subcategory: "Mice"},
		})
	})
	client := newTestClient(t, mux)

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Mouse", products[0].Name)
	assert.Equal(t, "Peripherals", products[0].Category)
}

func TestClient_MutationPathsAndBodies(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotBody = nil
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
		}
		w.WriteHeader(http.StatusOK)
	})
	client := newTestClient(t, handler)
	ctx := context.Background()

	t.Run("update product", func(t *testing.T) {
		subID := int64(10)
		err := client.UpdateProduct(ctx, catalog.ProductInput{
			ID: 5, Name: "Mouse", Price: 12.5, Stock: 3,
			CategoryID: 1, Category: "Peripherals", SubcategoryID: &subID,
		})
		require.NoError(t, err)
		assert.Equal(t, http.MethodPut, gotMethod)
		assert.Equal(t, "/productos/5", gotPath)
		assert.Equal(t, "Mouse", gotBody["nombre"])
		assert.Equal(t, float64(10), gotBody["subcategoriaId"])
	})

	t.Run("nil subcategory serializes as null", func(t *testing.T) {
		err := client.CreateProduct(ctx, catalog.ProductInput{
			Name: "Mouse", Price: 12.5, Stock: 3, CategoryID: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, "/productos", gotPath)
		val, present := gotBody["subcategoriaId"]
		assert.True(t, present)
		assert.Nil(t, val)
	})

	t.Run("delete category", func(t *testing.T) {
		require.NoError(t, client.DeleteCategory(ctx, 3))
		assert.Equal(t, http.MethodDelete, gotMethod)
		assert.Equal(t, "/categorias/3", gotPath)
	})

	t.Run("create subcategory", func(t *testing.T) {
		require.NoError(t, client.CreateSubcategory(ctx, catalog.SubcategoryInput{Name: "Mice", CategoryID: 1}))
		assert.Equal(t, "/subcategorias", gotPath)
		assert.Equal(t, float64(1), gotBody["categoriaId"])
	})

	t.Run("finalize sale", func(t *testing.T) {
		err := client.FinalizeSale(ctx, catalog.SaleRequest{
			Items: []catalog.SaleItem{{ProductID: 2, Quantity: 2}},
		})
		require.NoError(t, err)
		assert.Equal(t, "/ventas/realizar", gotPath)
		items := gotBody["items"].([]any)
		require.Len(t, items, 1)
	})
}

func TestClient_ErrorMessages(t *testing.T) {
	t.Run("plain-text body surfaced verbatim", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Stock insuficiente para Mouse", http.StatusConflict)
		}))

		err := client.FinalizeSale(context.Background(), catalog.SaleRequest{})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusConflict, apiErr.Status)
		assert.Equal(t, "Stock insuficiente para Mouse", apiErr.Message)
		assert.Equal(t, "Stock insuficiente para Mouse", err.Error())
	})

	t.Run("json message envelope", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "nombre requerido"})
		}))

		err := client.CreateCategory(context.Background(), catalog.CategoryInput{})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "nombre requerido", apiErr.Message)
	})

	t.Run("connection failure wraps as RequestError", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		client, err := NewClient(Config{BaseURL: url})
		require.NoError(t, err)

		_, err = client.ListProducts(context.Background())
		var reqErr *RequestError
		assert.True(t, errors.As(err, &reqErr), "expected RequestError, got %v", err)
	})
}

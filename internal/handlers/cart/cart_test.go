package cart_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"velora_back_end/internal/handlers/cart"
	"velora_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCartStore : panier en mémoire, même contrat que le store Scylla
type fakeCartStore struct {
	rows map[string]models.CartItem // product_id → ligne
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{rows: map[string]models.CartItem{}}
}

func (f *fakeCartStore) Items(ctx context.Context, userID string) ([]models.CartItem, error) {
	items := []models.CartItem{}
	for _, item := range f.rows {
		items = append(items, item)
	}
	return items, nil
}

func (f *fakeCartStore) Upsert(ctx context.Context, userID string, item models.CartItem) error {
	if existing, ok := f.rows[item.ProductID]; ok {
		item.Quantity += existing.Quantity
	}
	f.rows[item.ProductID] = item
	return nil
}

func (f *fakeCartStore) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	item, ok := f.rows[productID]
	if !ok {
		return nil
	}
	item.Quantity = quantity
	f.rows[productID] = item
	return nil
}

func (f *fakeCartStore) Remove(ctx context.Context, userID, productID string) error {
	delete(f.rows, productID)
	return nil
}

func (f *fakeCartStore) Clear(ctx context.Context, userID string) error {
	f.rows = map[string]models.CartItem{}
	return nil
}

func testProduct(id string) *models.Product {
	return &models.Product{
		Name:      "Produit " + id,
		Price:     25,
		ImageURLs: []string{"https://img.example.com/" + id + ".jpg"},
	}
}

func newCartRouter(carts *fakeCartStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := &cart.Handler{
		Carts: carts,
		Products: func(productID string) (*models.Product, error) {
			if productID == "missing" {
				return nil, fmt.Errorf("produit introuvable")
			}
			return testProduct(productID), nil
		},
	}

	r := gin.New()
	// user_id injecté normalement par le middleware JWT
	r.Use(func(c *gin.Context) { c.Set("user_id", "user-1") })
	r.GET("/api/cart", handler.GetCart)
	r.POST("/api/cart/add", handler.AddToCart)
	r.PUT("/api/cart/items/:productId", handler.UpdateQuantity)
	r.DELETE("/api/cart/items/:productId", handler.RemoveFromCart)
	r.DELETE("/api/cart", handler.ClearCart)
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCartHandler(t *testing.T) {
	t.Run("AddThenGet", func(t *testing.T) {
		carts := newFakeCartStore()
		r := newCartRouter(carts)

		w := doJSON(r, http.MethodPost, "/api/cart/add", gin.H{"productId": "p1", "quantity": 2})
		require.Equal(t, http.StatusOK, w.Code)

		require.Len(t, carts.rows, 1)
		assert.Equal(t, 2, carts.rows["p1"].Quantity)
		assert.Equal(t, 25.0, carts.rows["p1"].Price)

		// Ajout du même produit : cumul des quantités
		w = doJSON(r, http.MethodPost, "/api/cart/add", gin.H{"productId": "p1", "quantity": 3})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 5, carts.rows["p1"].Quantity)
	})

	t.Run("AddRejectsNonPositiveQuantity", func(t *testing.T) {
		carts := newFakeCartStore()
		r := newCartRouter(carts)

		w := doJSON(r, http.MethodPost, "/api/cart/add", gin.H{"productId": "p1", "quantity": 0})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = doJSON(r, http.MethodPost, "/api/cart/add", gin.H{"productId": "p1", "quantity": -4})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, carts.rows)
	})

	t.Run("AddUnknownProductIs404", func(t *testing.T) {
		carts := newFakeCartStore()
		r := newCartRouter(carts)

		w := doJSON(r, http.MethodPost, "/api/cart/add", gin.H{"productId": "missing", "quantity": 1})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("UpdateQuantityZeroRemovesLine", func(t *testing.T) {
		carts := newFakeCartStore()
		r := newCartRouter(carts)

		doJSON(r, http.MethodPost, "/api/cart/add", gin.H{"productId": "p1", "quantity": 2})

		w := doJSON(r, http.MethodPut, "/api/cart/items/p1", gin.H{"quantity": 0})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, carts.rows, "quantité 0 doit supprimer la ligne, pas la garder")
	})

	t.Run("UpdateQuantityNegativeRemovesLine", func(t *testing.T) {
		carts := newFakeCartStore()
		r := newCartRouter(carts)

		doJSON(r, http.MethodPost, "/api/cart/add", gin.H{"productId": "p1", "quantity": 2})

		w := doJSON(r, http.MethodPut, "/api/cart/items/p1", gin.H{"quantity": -3})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, carts.rows)
	})

	t.Run("UpdateQuantityPositiveSetsExactValue", func(t *testing.T) {
		carts := newFakeCartStore()
		r := newCartRouter(carts)

		doJSON(r, http.MethodPost, "/api/cart/add", gin.H{"productId": "p1", "quantity": 2})

		w := doJSON(r, http.MethodPut, "/api/cart/items/p1", gin.H{"quantity": 7})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 7, carts.rows["p1"].Quantity)
	})

	t.Run("GetReturnsTotals", func(t *testing.T) {
		carts := newFakeCartStore()
		r := newCartRouter(carts)

		doJSON(r, http.MethodPost, "/api/cart/add", gin.H{"productId": "p1", "quantity": 2})

		w := doJSON(r, http.MethodGet, "/api/cart", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Items  []models.CartItem `json:"items"`
			Totals models.CartTotals `json:"totals"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Items, 1)
		assert.Equal(t, 50.0, resp.Totals.Subtotal)
		assert.InDelta(t, 5.0, resp.Totals.Tax, 1e-9)
		assert.Equal(t, 10.0, resp.Totals.Shipping)
		assert.InDelta(t, 65.0, resp.Totals.Total, 1e-9)
	})

	t.Run("ClearEmptiesCart", func(t *testing.T) {
		carts := newFakeCartStore()
		r := newCartRouter(carts)

		doJSON(r, http.MethodPost, "/api/cart/add", gin.H{"productId": "p1", "quantity": 2})
		doJSON(r, http.MethodPost, "/api/cart/add", gin.H{"productId": "p2", "quantity": 1})

		w := doJSON(r, http.MethodDelete, "/api/cart", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, carts.rows)
	})
}

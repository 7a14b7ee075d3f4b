package cart

import (
	"log"
	"net/http"

	"velora_back_end/internal/cache"
	"velora_back_end/internal/models"
	"velora_back_end/internal/store"

	"github.com/gin-gonic/gin"
)

// ProductLookup résout un produit du catalogue pour dénormaliser
// nom, prix et image dans la ligne de panier
type ProductLookup func(productID string) (*models.Product, error)

// Handler : opérations panier par-dessus un CartStore injecté.
// Aucun état partagé côté serveur, le store est la seule source de vérité.
type Handler struct {
	Carts    store.CartStore
	Products ProductLookup
}

func NewHandler(carts store.CartStore) *Handler {
	return &Handler{
		Carts:    carts,
		Products: cache.GetProductFromCache,
	}
}

// GET /api/cart
func (h *Handler) GetCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	items, err := h.Carts.Items(c.Request.Context(), userID)
	if err != nil {
		log.Println("❌ Erreur lecture panier:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"totals": models.TotalsFor(items),
	})
}

// POST /api/cart/add
func (h *Handler) AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	var input struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide"})
		return
	}

	product, err := h.Products(input.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	imageURL := ""
	if len(product.ImageURLs) > 0 {
		imageURL = product.ImageURLs[0]
	}

	item := models.CartItem{
		ProductID: input.ProductID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  input.Quantity,
		ImageURL:  imageURL,
	}

	if err := h.Carts.Upsert(c.Request.Context(), userID, item); err != nil {
		log.Println("❌ Erreur ajout panier:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout panier"})
		return
	}

	h.respondWithCart(c, userID, "Produit ajouté au panier")
}

// PUT /api/cart/items/:productId
func (h *Handler) UpdateQuantity(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	productID := c.Param("productId")

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	// Quantité nulle ou négative = suppression de la ligne,
	// jamais de quantité négative en base
	var err error
	if input.Quantity < 1 {
		err = h.Carts.Remove(c.Request.Context(), userID, productID)
	} else {
		err = h.Carts.SetQuantity(c.Request.Context(), userID, productID, input.Quantity)
	}
	if err != nil {
		log.Println("❌ Erreur mise à jour panier:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour panier"})
		return
	}

	h.respondWithCart(c, userID, "Panier mis à jour")
}

// DELETE /api/cart/items/:productId
func (h *Handler) RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	productID := c.Param("productId")

	if err := h.Carts.Remove(c.Request.Context(), userID, productID); err != nil {
		log.Println("❌ Erreur suppression article:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression article"})
		return
	}

	h.respondWithCart(c, userID, "Produit supprimé du panier")
}

// DELETE /api/cart
func (h *Handler) ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	if err := h.Carts.Clear(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du vidage du panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé avec succès"})
}

func (h *Handler) respondWithCart(c *gin.Context, userID, message string) {
	items, err := h.Carts.Items(c.Request.Context(), userID)
	if err != nil {
		log.Println("❌ Erreur relecture panier:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"items":   items,
		"totals":  models.TotalsFor(items),
	})
}

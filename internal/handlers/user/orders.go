package user

import (
	"errors"
	"net/http"

	"velora_back_end/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// OrderHandler expose les lectures de commandes côté client
type OrderHandler struct {
	Orders store.OrderStore
}

func NewOrderHandler(orders store.OrderStore) *OrderHandler {
	return &OrderHandler{Orders: orders}
}

// GET /api/orders — historique de l'utilisateur connecté
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")

	orders, err := h.Orders.ByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

// GET /api/orders/:id
func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	userID := c.GetString("user_id")

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	order, err := h.Orders.ByID(c.Request.Context(), gocql.UUID(orderID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commande"})
		return
	}

	// Une commande n'est visible que par son propriétaire
	if order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// GET /api/orders/session/:session_id — page de confirmation après checkout
func (h *OrderHandler) GetOrderBySession(c *gin.Context) {
	userID := c.GetString("user_id")
	sessionID := c.Param("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id manquant"})
		return
	}

	order, err := h.Orders.BySession(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Le webhook n'est peut-être pas encore passé, le front réessaye
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande pas encore disponible"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commande"})
		return
	}

	if order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	c.JSON(http.StatusOK, order)
}

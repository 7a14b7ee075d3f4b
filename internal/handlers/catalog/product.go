package catalog

import (
	"net/http"
	"strconv"

	"velora_back_end/internal/cache"
	"velora_back_end/internal/database"
	"velora_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GET /api/products — liste paginée du catalogue
func GetProducts(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	page, limit := parsePagination(c)

	iter := session.Query(`SELECT product_id, name, slug, description, price, sku, erp_id, category_ids, image_urls, tags, is_active, created_at, updated_at
		FROM products`).Iter()

	products := []models.Product{}
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.SKU, &p.ERPID,
		&p.CategoryIDs, &p.ImageURLs, &p.Tags, &p.IsActive, &p.CreatedAt, &p.UpdatedAt) {
		if p.IsActive {
			products = append(products, p)
		}
		p = models.Product{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catalogue"})
		return
	}

	total := len(products)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products[start:end],
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// GET /api/products/:id
func GetProductByID(c *gin.Context) {
	productID := c.Param("id")
	if _, err := uuid.Parse(productID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	product, err := cache.GetProductFromCache(productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// GET /api/products/slug/:slug
func GetProductBySlug(c *gin.Context) {
	slug := c.Param("slug")

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var p models.Product
	err = session.Query(`SELECT product_id, name, slug, description, price, sku, erp_id, category_ids, image_urls, tags, is_active, created_at, updated_at
		FROM products WHERE slug = ? ALLOW FILTERING`, slug).Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.SKU, &p.ERPID,
		&p.CategoryIDs, &p.ImageURLs, &p.Tags, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	c.JSON(http.StatusOK, p)
}

func parsePagination(c *gin.Context) (int, int) {
	page := 1
	limit := 20
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	return page, limit
}

package catalog

import (
	"log"
	"net/http"
	"time"

	"velora_back_end/internal/cache"
	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
	"velora_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// Endpoints d'administration du catalogue. Le contenu est normalement
// géré par l'outillage externe ; ces routes servent à la synchronisation
// (import ERP, réindexation) et restent derrière AuthRequired.

// POST /api/admin/products
func CreateProduct(c *gin.Context) {
	var input struct {
		Name        string   `json:"name" binding:"required"`
		Slug        string   `json:"slug" binding:"required"`
		Description string   `json:"description"`
		Price       float64  `json:"price"`
		SKU         string   `json:"sku" binding:"required"`
		ERPID       string   `json:"erp_id"`
		CategoryIDs []string `json:"category_ids"`
		Tags        []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	categoryIDs := make([]gocql.UUID, 0, len(input.CategoryIDs))
	for _, raw := range input.CategoryIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide: " + raw})
			return
		}
		categoryIDs = append(categoryIDs, gocql.UUID(id))
	}

	now := time.Now()
	product := models.Product{
		ID:          gocql.TimeUUID(),
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		Price:       input.Price,
		SKU:         input.SKU,
		ERPID:       input.ERPID,
		CategoryIDs: categoryIDs,
		ImageURLs:   []string{},
		Tags:        input.Tags,
		IsActive:    true,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}

	err = session.Query(`INSERT INTO products (product_id, name, slug, description, price, sku, erp_id, category_ids, image_urls, tags, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID, product.Name, product.Slug, product.Description, product.Price,
		product.SKU, product.ERPID, product.CategoryIDs, product.ImageURLs,
		product.Tags, product.IsActive, now, now).Exec()
	if err != nil {
		log.Println("❌ Erreur insertion produit:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit"})
		return
	}

	services.IndexProduct(product)

	c.JSON(http.StatusCreated, product)
}

// PUT /api/admin/products/:id
func UpdateProduct(c *gin.Context) {
	productID := c.Param("id")
	pid, err := uuid.Parse(productID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var input struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		IsActive    *bool    `json:"is_active"`
		Tags        []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	product, err := cache.GetProductFromCache(productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.Tags != nil {
		product.Tags = input.Tags
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now()
	err = session.Query(`UPDATE products SET name = ?, description = ?, price = ?, is_active = ?, tags = ?, updated_at = ?
		WHERE product_id = ?`,
		product.Name, product.Description, product.Price, product.IsActive, product.Tags, now,
		gocql.UUID(pid)).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	product.UpdatedAt = &now
	cache.InvalidateProductCache(productID)
	services.IndexProduct(*product)

	c.JSON(http.StatusOK, product)
}

// DELETE /api/admin/products/:id
func DeleteProduct(c *gin.Context) {
	productID := c.Param("id")
	pid, err := uuid.Parse(productID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`DELETE FROM products WHERE product_id = ?`, gocql.UUID(pid)).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression produit"})
		return
	}

	cache.InvalidateProductCache(productID)
	services.RemoveProductFromIndex(productID)

	if err := services.DeleteProductImages(productID); err != nil {
		log.Println("⚠️ Nettoyage images MinIO échoué:", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé"})
}

// POST /api/admin/products/:id/images — upload d'une image vers MinIO
func UploadProductImage(c *gin.Context) {
	productID := c.Param("id")
	pid, err := uuid.Parse(productID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier image manquant"})
		return
	}

	objectName, err := services.UploadProductImage(productID, file)
	if err != nil {
		log.Println("❌ Erreur upload image:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image"})
		return
	}

	imageURL, err := services.PresignedImageURL(objectName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération URL image"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	err = session.Query(`UPDATE products SET image_urls = image_urls + ?, updated_at = ? WHERE product_id = ?`,
		[]string{imageURL}, time.Now(), gocql.UUID(pid)).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement image"})
		return
	}

	cache.InvalidateProductCache(productID)

	c.JSON(http.StatusOK, gin.H{"image_url": imageURL, "object": objectName})
}

// POST /api/admin/categories
func CreateCategory(c *gin.Context) {
	var input struct {
		Name             string `json:"name" binding:"required"`
		Slug             string `json:"slug" binding:"required"`
		Description      string `json:"description"`
		ImageURL         string `json:"image_url"`
		ParentCategoryID string `json:"parent_category_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	var parentID *gocql.UUID
	if input.ParentCategoryID != "" {
		id, err := uuid.Parse(input.ParentCategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie parente invalide"})
			return
		}
		gid := gocql.UUID(id)
		parentID = &gid
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	categoryID := gocql.TimeUUID()
	now := time.Now()
	err = session.Query(`INSERT INTO categories (category_id, name, slug, description, image_url, parent_category_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		categoryID, input.Name, input.Slug, input.Description, input.ImageURL, parentID, now).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création catégorie"})
		return
	}

	cache.InvalidateCategoriesCache()

	c.JSON(http.StatusCreated, gin.H{"id": categoryID, "slug": input.Slug})
}

package cache

import (
	"context"
	"encoding/json"
	"time"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

const (
	ProductCacheTTL  = 10 * time.Minute
	CategoryCacheTTL = 30 * time.Minute
)

// GetProductFromCache récupère un produit depuis Redis ou ScyllaDB
func GetProductFromCache(productID string) (*models.Product, error) {
	ctx := context.Background()
	key := "product:" + productID

	// 1. Essayer le cache Redis
	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var product models.Product
		if json.Unmarshal([]byte(data), &product) == nil {
			return &product, nil
		}
	}

	// 2. Récupérer de ScyllaDB
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, err
	}

	var product models.Product
	err = session.Query(`SELECT product_id, name, slug, description, price, sku, erp_id, category_ids, image_urls, tags, is_active, created_at, updated_at
		FROM products WHERE product_id = ?`, gocql.UUID(pid)).Scan(
		&product.ID, &product.Name, &product.Slug, &product.Description, &product.Price,
		&product.SKU, &product.ERPID, &product.CategoryIDs, &product.ImageURLs,
		&product.Tags, &product.IsActive, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}

	// 3. Mettre en cache
	jsonData, _ := json.Marshal(product)
	database.Redis.Set(ctx, key, jsonData, ProductCacheTTL)

	return &product, nil
}

// InvalidateProductCache invalide le cache d'un produit
func InvalidateProductCache(productID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "product:"+productID)
}

// GetCategoriesFromCache récupère l'arbre des catégories depuis Redis ou ScyllaDB
func GetCategoriesFromCache() ([]models.Category, error) {
	ctx := context.Background()
	key := "categories:all"

	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var categories []models.Category
		if json.Unmarshal([]byte(data), &categories) == nil {
			return categories, nil
		}
	}

	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT category_id, name, slug, description, image_url, parent_category_id, created_at
		FROM categories`).Iter()

	categories := []models.Category{}
	var category models.Category
	for iter.Scan(&category.ID, &category.Name, &category.Slug, &category.Description,
		&category.ImageURL, &category.ParentCategoryID, &category.CreatedAt) {
		categories = append(categories, category)
		category = models.Category{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	jsonData, _ := json.Marshal(categories)
	database.Redis.Set(ctx, key, jsonData, CategoryCacheTTL)

	return categories, nil
}

// InvalidateCategoriesCache invalide le cache des catégories
func InvalidateCategoriesCache() {
	ctx := context.Background()
	database.Redis.Del(ctx, "categories:all")
}

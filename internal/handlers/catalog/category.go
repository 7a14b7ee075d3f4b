package catalog

import (
	"net/http"

	"velora_back_end/internal/cache"
	"velora_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// GET /api/categories — arbre complet des catégories
func GetCategories(c *gin.Context) {
	categories, err := cache.GetCategoriesFromCache()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catégories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": buildCategoryTree(categories)})
}

// GET /api/categories/:slug — une catégorie et ses enfants directs
func GetCategoryBySlug(c *gin.Context) {
	slug := c.Param("slug")

	categories, err := cache.GetCategoriesFromCache()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catégories"})
		return
	}

	for _, category := range categories {
		if category.Slug != slug {
			continue
		}

		children := []models.Category{}
		for _, child := range categories {
			if child.ParentCategoryID != nil && *child.ParentCategoryID == category.ID {
				children = append(children, child)
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"category": category,
			"children": children,
		})
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie introuvable"})
}

// buildCategoryTree reconstruit l'arbre parent/enfants (profondeur libre)
func buildCategoryTree(categories []models.Category) []*models.CategoryNode {
	nodes := make(map[string]*models.CategoryNode, len(categories))
	for _, category := range categories {
		nodes[category.ID.String()] = &models.CategoryNode{Category: category}
	}

	roots := []*models.CategoryNode{}
	for _, category := range categories {
		node := nodes[category.ID.String()]
		if category.ParentCategoryID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[category.ParentCategoryID.String()]
		if !ok {
			// Parent supprimé : la catégorie remonte à la racine
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	return roots
}

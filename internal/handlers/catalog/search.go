package catalog

import (
	"net/http"
	"strconv"

	"velora_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/search — recherche produits : texte libre, filtres catégorie
// et prix, tri, pagination et facettes, le tout délégué à l'index hébergé
func SearchProducts(c *gin.Context) {
	minPrice, _ := strconv.ParseFloat(c.Query("min_price"), 64)
	maxPrice, _ := strconv.ParseFloat(c.Query("max_price"), 64)
	page, limit := services.ParsePagination(c.Query("page"), c.Query("limit"))

	params := services.SearchParams{
		Query:      c.Query("q"),
		CategoryID: c.Query("category"),
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		SortBy:     c.DefaultQuery("sort", "relevance"),
		Page:       page,
		Limit:      limit,
	}

	result, err := services.SearchProducts(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur recherche produits"})
		return
	}

	c.JSON(http.StatusOK, result)
}

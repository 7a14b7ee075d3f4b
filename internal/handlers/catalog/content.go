package catalog

import (
	"encoding/json"
	"net/http"
	"sort"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// GET /api/posts — articles publiés, du plus récent au plus ancien
func GetPosts(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT post_id, title, slug, excerpt, cover_image_url, published_at
		FROM posts`).Iter()

	posts := []models.Post{}
	var post models.Post
	for iter.Scan(&post.ID, &post.Title, &post.Slug, &post.Excerpt, &post.CoverImageURL, &post.PublishedAt) {
		posts = append(posts, post)
		post = models.Post{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture articles"})
		return
	}

	// Tri par date de publication décroissante
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].PublishedAt == nil {
			return false
		}
		if posts[j].PublishedAt == nil {
			return true
		}
		return posts[i].PublishedAt.After(*posts[j].PublishedAt)
	})

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GET /api/posts/:slug — article complet avec ses blocs de contenu
func GetPostBySlug(c *gin.Context) {
	slug := c.Param("slug")

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var post models.Post
	err = session.Query(`SELECT post_id, title, slug, excerpt, cover_image_url, content, published_at
		FROM posts WHERE slug = ? ALLOW FILTERING`, slug).Scan(
		&post.ID, &post.Title, &post.Slug, &post.Excerpt, &post.CoverImageURL, &post.Content, &post.PublishedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article introuvable"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// GET /api/forms/:slug — déclaration d'un formulaire dynamique
func GetFormBySlug(c *gin.Context) {
	slug := c.Param("slug")

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var form models.Form
	var fieldsJSON string
	err = session.Query(`SELECT form_id, title, slug, fields FROM forms WHERE slug = ? ALLOW FILTERING`, slug).
		Scan(&form.ID, &form.Title, &form.Slug, &fieldsJSON)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Formulaire introuvable"})
		return
	}

	if fieldsJSON != "" {
		if err := json.Unmarshal([]byte(fieldsJSON), &form.Fields); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage formulaire"})
			return
		}
	}

	c.JSON(http.StatusOK, form)
}

package user

import (
	"log"
	"net/http"
	"time"

	"velora_back_end/internal/database"

	"github.com/gin-gonic/gin"
)

// GET /api/me
func Me(c *gin.Context) {
	userID := c.GetString("user_id")

	profile, err := findProfileByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profil introuvable"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// PUT /api/me
func UpdateMe(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	err = session.Query(`UPDATE profiles SET name = ?, updated_at = ? WHERE user_id = ?`,
		input.Name, time.Now(), userID).Exec()
	if err != nil {
		log.Println("❌ Erreur mise à jour profil:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour profil"})
		return
	}

	profile, err := findProfileByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture profil"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

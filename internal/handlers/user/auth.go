package user

import (
	"log"
	"net/http"
	"strings"
	"time"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
	"velora_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// ================== AUTH LOCALE ==================

func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur hash mot de passe"})
		return
	}

	userID := uuid.NewString()
	now := time.Now()

	// LWT sur profiles_by_email : garantit l'unicité de l'email
	var existingEmail, existingUserID string
	applied, err := database.GetPreparedInsertProfileEmail().
		Bind(email, userID).
		ScanCAS(&existingEmail, &existingUserID)
	if err != nil {
		log.Println("❌ Erreur réservation email:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création compte"})
		return
	}
	if !applied {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Un compte avec cet email existe déjà",
			"email": email,
		})
		return
	}

	err = database.GetPreparedInsertProfile().
		Bind(userID, email, hashedPassword, input.Name, "local", "customer", now, now).
		Exec()
	if err != nil {
		log.Println("❌ Erreur insertion profil:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création compte"})
		return
	}

	// Email de bienvenue en asynchrone, un échec SMTP ne bloque pas l'inscription
	go func() {
		if err := utils.SendWelcomeEmail(email, input.Name); err != nil {
			log.Println("⚠️ Échec envoi email de bienvenue:", err)
		}
	}()

	c.JSON(http.StatusCreated, gin.H{
		"id":    userID,
		"email": email,
		"role":  "customer",
	})
}

func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	profile, err := findProfileByEmail(email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	if profile.Provider != "local" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Ce compte utilise une connexion " + profile.Provider})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, profile.Password)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Mot de passe incorrect"})
		return
	}

	token, err := utils.GenerateJWT(*profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"userId": profile.ID,
		"name":   profile.Name,
		"email":  profile.Email,
		"role":   profile.Role,
	})
}

// ================== LECTURE PROFILS ==================

func findProfileByEmail(email string) (*models.Profile, error) {
	var userID string
	if err := database.GetPreparedGetProfileByEmail().Bind(email).Scan(&userID); err != nil {
		return nil, err
	}
	return findProfileByID(userID)
}

func findProfileByID(userID string) (*models.Profile, error) {
	profile := models.Profile{ID: userID}
	var createdAt, updatedAt time.Time

	err := database.GetPreparedGetProfileByID().Bind(userID).Scan(
		&profile.Email, &profile.Password, &profile.Name,
		&profile.Provider, &profile.Role, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if !createdAt.IsZero() {
		profile.CreatedAt = &createdAt
	}
	if !updatedAt.IsZero() {
		profile.UpdatedAt = &updatedAt
	}
	if profile.Role == "" {
		profile.Role = "customer"
	}
	return &profile, nil
}

// upsertSocialProfile crée le profil s'il n'existe pas encore (connexion OAuth)
func upsertSocialProfile(email, name, provider string) (*models.Profile, error) {
	if existing, err := findProfileByEmail(email); err == nil {
		return existing, nil
	} else if err != gocql.ErrNotFound {
		return nil, err
	}

	userID := uuid.NewString()
	now := time.Now()

	var existingEmail, existingUserID string
	applied, err := database.GetPreparedInsertProfileEmail().
		Bind(email, userID).
		ScanCAS(&existingEmail, &existingUserID)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Course perdue : un autre callback vient de créer le compte
		return findProfileByID(existingUserID)
	}

	err = database.GetPreparedInsertProfile().
		Bind(userID, email, "", name, provider, "customer", now, now).
		Exec()
	if err != nil {
		return nil, err
	}

	return &models.Profile{
		ID:        userID,
		Email:     email,
		Name:      name,
		Provider:  provider,
		Role:      "customer",
		CreatedAt: &now,
		UpdatedAt: &now,
	}, nil
}

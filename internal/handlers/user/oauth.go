package user

import (
	"context"
	"net/http"
	"strings"

	"velora_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"
)

type ctxKey string

const providerKey ctxKey = "provider"

// ================== AUTH SOCIALE ==================

func BeginAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun provider spécifié"})
		return
	}

	c.Request = c.Request.WithContext(
		context.WithValue(c.Request.Context(), providerKey, provider),
	)

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

func CallbackAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun provider spécifié"})
		return
	}

	c.Request = c.Request.WithContext(
		context.WithValue(c.Request.Context(), providerKey, provider),
	)

	userInfo, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if userInfo.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le provider n'a pas fourni d'email"})
		return
	}

	email := strings.ToLower(userInfo.Email)
	profile, err := upsertSocialProfile(email, userInfo.Name, provider)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement utilisateur"})
		return
	}

	token, err := utils.GenerateJWT(*profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"provider": provider,
		"email":    profile.Email,
		"name":     profile.Name,
		"role":     profile.Role,
	})
}

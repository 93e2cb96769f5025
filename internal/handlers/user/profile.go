package user

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"vastra_back_end/internal/store"
)

// GetProfile retourne le profil de l'utilisateur connecté
func (h *Handler) GetProfile(c *gin.Context) {
	u, err := h.cache.GetUser(c.Request.Context(), c.GetString("user_id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur lecture profil: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture profil"})
		return
	}

	c.JSON(http.StatusOK, u)
}

// UpdateProfile modifie les infos du profil, champs partiels
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req struct {
		Name       *string `json:"name"`
		Phone      *string `json:"phone"`
		Street     *string `json:"street"`
		Apartment  *string `json:"apartment"`
		City       *string `json:"city"`
		PostalCode *string `json:"postal_code"`
		Country    *string `json:"country"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	u, err := h.users.GetUser(c.Request.Context(), c.GetString("user_id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur lecture profil: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour profil"})
		return
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.Street != nil {
		u.Street = *req.Street
	}
	if req.Apartment != nil {
		u.Apartment = *req.Apartment
	}
	if req.City != nil {
		u.City = *req.City
	}
	if req.PostalCode != nil {
		u.PostalCode = *req.PostalCode
	}
	if req.Country != nil {
		u.Country = *req.Country
	}

	if err := h.users.UpdateUser(c.Request.Context(), u); err != nil {
		log.Printf("❌ Erreur mise à jour profil: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour profil"})
		return
	}
	h.cache.InvalidateUser(c.Request.Context(), u.ID)

	c.JSON(http.StatusOK, u)
}

package user

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"vastra_back_end/internal/models"
	"vastra_back_end/internal/store"
)

// GetWishlist retourne la liste d'envies de l'utilisateur
func (h *Handler) GetWishlist(c *gin.Context) {
	u, err := h.cache.GetUser(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		log.Printf("❌ Erreur lecture wishlist: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"wishlist": u.Wishlist})
}

// AddToWishlist ajoute un produit à la liste d'envies (copie figée,
// comme les lignes de commande)
func (h *Handler) AddToWishlist(c *gin.Context) {
	var req struct {
		Product string `json:"product" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	productID, err := gocql.ParseUUID(req.Product)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	p, err := h.cache.GetProduct(c.Request.Context(), productID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur lecture produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout wishlist"})
		return
	}

	u, err := h.users.GetUser(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		log.Printf("❌ Erreur lecture utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout wishlist"})
		return
	}

	for _, item := range u.Wishlist {
		if item.ProductID == productID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Produit déjà dans la wishlist"})
			return
		}
	}

	u.Wishlist = append(u.Wishlist, models.WishlistItem{
		ProductID:    productID,
		ProductName:  p.Name,
		ProductImage: p.Image,
		ProductPrice: p.Price,
	})
	if err := h.users.UpdateUser(c.Request.Context(), u); err != nil {
		log.Printf("❌ Erreur mise à jour wishlist: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout wishlist"})
		return
	}
	h.cache.InvalidateUser(c.Request.Context(), u.ID)

	c.JSON(http.StatusOK, gin.H{"wishlist": u.Wishlist})
}

// RemoveFromWishlist retire un produit de la liste d'envies
func (h *Handler) RemoveFromWishlist(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	u, err := h.users.GetUser(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		log.Printf("❌ Erreur lecture utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression wishlist"})
		return
	}

	next := u.Wishlist[:0]
	for _, item := range u.Wishlist {
		if item.ProductID != productID {
			next = append(next, item)
		}
	}
	u.Wishlist = next

	if err := h.users.UpdateUser(c.Request.Context(), u); err != nil {
		log.Printf("❌ Erreur mise à jour wishlist: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression wishlist"})
		return
	}
	h.cache.InvalidateUser(c.Request.Context(), u.ID)

	c.JSON(http.StatusOK, gin.H{"wishlist": u.Wishlist})
}

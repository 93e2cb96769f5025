package product

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"vastra_back_end/internal/services"
)

// CreateReview ajoute un avis sur un produit (un seul avis par
// utilisateur et par produit)
func (h *Handler) CreateReview(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var req struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}
	req.Comment = strings.TrimSpace(req.Comment)
	if req.Comment != "" && len(req.Comment) < 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Commentaire trop court (3 caractères minimum)"})
		return
	}

	userID := c.GetString("user_id")
	user, err := h.cache.GetUser(c.Request.Context(), userID)
	if err != nil {
		log.Printf("❌ Erreur lecture utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture utilisateur"})
		return
	}

	review, err := h.reviews.AddReview(c.Request.Context(), productID, userID, user.Name, req.Rating, req.Comment)
	if err != nil {
		h.writeReviewError(c, err)
		return
	}

	h.cache.InvalidateProduct(c.Request.Context(), productID)
	log.Printf("⭐ Avis ajouté sur %s par %s (note %d)", productID, userID, req.Rating)

	c.JSON(http.StatusCreated, review)
}

// GetProductReviews liste les avis d'un produit
func (h *Handler) GetProductReviews(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	reviews, err := h.reviews.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		h.writeReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "total": len(reviews)})
}

// UpdateReview modifie un avis, réservé à son auteur
func (h *Handler) UpdateReview(c *gin.Context) {
	reviewID, err := gocql.ParseUUID(c.Param("reviewId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID avis invalide"})
		return
	}

	var req struct {
		Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
		Comment *string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}
	if req.Comment != nil {
		trimmed := strings.TrimSpace(*req.Comment)
		if trimmed != "" && len(trimmed) < 3 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Commentaire trop court (3 caractères minimum)"})
			return
		}
		req.Comment = &trimmed
	}

	review, err := h.reviews.UpdateReview(c.Request.Context(), reviewID, c.GetString("user_id"), req.Rating, req.Comment)
	if err != nil {
		h.writeReviewError(c, err)
		return
	}

	h.cache.InvalidateProduct(c.Request.Context(), review.ProductID)

	c.JSON(http.StatusOK, review)
}

// DeleteReview supprime un avis, réservé à son auteur
func (h *Handler) DeleteReview(c *gin.Context) {
	reviewID, err := gocql.ParseUUID(c.Param("reviewId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID avis invalide"})
		return
	}

	if err := h.reviews.DeleteReview(c.Request.Context(), reviewID, c.GetString("user_id")); err != nil {
		h.writeReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Avis supprimé"})
}

func (h *Handler) writeReviewError(c *gin.Context, err error) {
	var notFound *services.ProductNotFoundError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable", "product": notFound.ProductID})
	case errors.Is(err, services.ErrDuplicateReview):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vous avez déjà laissé un avis sur ce produit"})
	case errors.Is(err, services.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Avis introuvable"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Conflit d'écriture, veuillez réessayer"})
	default:
		log.Printf("❌ Erreur avis: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur traitement avis"})
	}
}

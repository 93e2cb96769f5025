package user

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"

	"vastra_back_end/internal/models"
	"vastra_back_end/internal/store"
)

const (
	// Durée de vie du panier dans Redis
	CartTTL = 30 * 24 * time.Hour
	// Durée de la réservation de stock d'une ligne de panier
	CartReservation = 30 * time.Minute
)

func cartKey(userID string) string { return "cart:" + userID }

// loadCart lit le panier et écarte les lignes dont la réservation a expiré
func (h *Handler) loadCart(c *gin.Context, userID string) ([]models.CartItem, error) {
	data, err := h.rdb.Get(c.Request.Context(), cartKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return []models.CartItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	active := items[:0]
	for _, item := range items {
		if item.ReservedUntil.After(now) {
			active = append(active, item)
		}
	}
	return active, nil
}

func (h *Handler) saveCart(c *gin.Context, userID string, items []models.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return h.rdb.Set(c.Request.Context(), cartKey(userID), data, CartTTL).Err()
}

// GetCart retourne le panier de l'utilisateur connecté
func (h *Handler) GetCart(c *gin.Context) {
	items, err := h.loadCart(c, c.GetString("user_id"))
	if err != nil {
		log.Printf("❌ Erreur lecture panier: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	total := 0.0
	for _, item := range items {
		total += item.ProductPrice * float64(item.Quantity)
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// AddToCart ajoute un produit au panier avec une réservation de 30 minutes
func (h *Handler) AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		Product        string `json:"product" binding:"required"`
		Quantity       int    `json:"quantity" binding:"required,min=1"`
		SelectedSize   string `json:"selected_size"`
		SelectedColour string `json:"selected_colour"`
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
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout panier"})
		return
	}

	items, err := h.loadCart(c, userID)
	if err != nil {
		log.Printf("❌ Erreur lecture panier: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout panier"})
		return
	}

	reservedUntil := time.Now().UTC().Add(CartReservation)
	quantity := req.Quantity
	for i, item := range items {
		if item.ProductID == req.Product && item.SelectedSize == req.SelectedSize && item.SelectedColour == req.SelectedColour {
			quantity += item.Quantity
			items = append(items[:i], items[i+1:]...)
			break
		}
	}

	if quantity > p.Stock {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Stock insuffisant",
			"requested": quantity,
			"available": p.Stock,
		})
		return
	}

	items = append(items, models.CartItem{
		ProductID:      req.Product,
		ProductName:    p.Name,
		ProductImage:   p.Image,
		ProductPrice:   p.Price,
		Quantity:       quantity,
		SelectedSize:   req.SelectedSize,
		SelectedColour: req.SelectedColour,
		ReservedUntil:  reservedUntil,
	})

	if err := h.saveCart(c, userID, items); err != nil {
		log.Printf("❌ Erreur écriture panier: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout panier"})
		return
	}

	log.Printf("🪣 Panier %s: +%d × %s", userID, req.Quantity, p.Name)
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// UpdateCartItem change la quantité d'une ligne, 0 la supprime
func (h *Handler) UpdateCartItem(c *gin.Context) {
	userID := c.GetString("user_id")
	productID := c.Param("productId")

	var req struct {
		Quantity *int `json:"quantity" binding:"required,min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	items, err := h.loadCart(c, userID)
	if err != nil {
		log.Printf("❌ Erreur lecture panier: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour panier"})
		return
	}

	found := false
	next := items[:0]
	for _, item := range items {
		if item.ProductID == productID {
			found = true
			if *req.Quantity == 0 {
				continue
			}
			item.Quantity = *req.Quantity
			item.ReservedUntil = time.Now().UTC().Add(CartReservation)
		}
		next = append(next, item)
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit absent du panier"})
		return
	}

	if err := h.saveCart(c, userID, next); err != nil {
		log.Printf("❌ Erreur écriture panier: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": next})
}

// RemoveFromCart retire une ligne du panier
func (h *Handler) RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	productID := c.Param("productId")

	items, err := h.loadCart(c, userID)
	if err != nil {
		log.Printf("❌ Erreur lecture panier: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression panier"})
		return
	}

	next := items[:0]
	for _, item := range items {
		if item.ProductID != productID {
			next = append(next, item)
		}
	}

	if err := h.saveCart(c, userID, next); err != nil {
		log.Printf("❌ Erreur écriture panier: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": next})
}

// ClearCart vide le panier
func (h *Handler) ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := h.rdb.Del(c.Request.Context(), cartKey(userID)).Err(); err != nil {
		log.Printf("❌ Erreur suppression panier: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé"})
}

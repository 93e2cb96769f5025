package order

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"vastra_back_end/internal/models"
	"vastra_back_end/internal/services"
	"vastra_back_end/internal/store"
)

type Handler struct {
	orders *services.OrderService
}

func NewHandler(orders *services.OrderService) *Handler {
	return &Handler{orders: orders}
}

// PlaceOrder crée une commande à partir du panier soumis
func (h *Handler) PlaceOrder(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		Items []struct {
			Product        string `json:"product" binding:"required"`
			Quantity       int    `json:"quantity" binding:"required,min=1"`
			SelectedSize   string `json:"selected_size"`
			SelectedColour string `json:"selected_colour"`
		} `json:"items" binding:"required,min=1,dive"`
		ShippingAddress string `json:"shipping_address" binding:"required"`
		City            string `json:"city" binding:"required"`
		PostalCode      string `json:"postal_code"`
		Country         string `json:"country" binding:"required"`
		Phone           string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	items := make([]services.LineItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		pid, err := gocql.ParseUUID(item.Product)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide", "product": item.Product})
			return
		}
		items = append(items, services.LineItemInput{
			ProductID:      pid,
			Quantity:       item.Quantity,
			SelectedSize:   item.SelectedSize,
			SelectedColour: item.SelectedColour,
		})
	}

	order, err := h.orders.PlaceOrder(c.Request.Context(), userID, items, services.ShippingInput{
		Address:    req.ShippingAddress,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		Phone:      req.Phone,
	})
	if err != nil {
		var notFound *services.ProductNotFoundError
		var insufficient *store.InsufficientStockError

		switch {
		case errors.As(err, &notFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable", "product": notFound.ProductID})
		case errors.As(err, &insufficient):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Stock insuffisant",
				"product":   insufficient.ProductID,
				"requested": insufficient.Requested,
				"available": insufficient.Available,
			})
		default:
			log.Printf("❌ Erreur création commande: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création commande"})
		}
		return
	}

	// Confirmation par e-mail, sans bloquer la réponse
	h.orders.SendConfirmation(order, c.GetString("email"))

	c.JSON(http.StatusCreated, order)
}

// GetMyOrders liste les commandes de l'utilisateur connecté
func (h *Handler) GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")

	orders, err := h.orders.GetMyOrders(c.Request.Context(), userID)
	if err != nil {
		log.Printf("❌ Erreur récupération commandes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrderByID retourne une commande si elle appartient à l'utilisateur
func (h *Handler) GetOrderByID(c *gin.Context) {
	userID := c.GetString("user_id")

	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), orderID, userID)
	if errors.Is(err, services.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur lecture commande: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commande"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// GetAllOrders liste toutes les commandes (admin)
func (h *Handler) GetAllOrders(c *gin.Context) {
	orders, err := h.orders.GetAllOrders(c.Request.Context())
	if err != nil {
		log.Printf("❌ Erreur récupération commandes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
}

// UpdateOrderStatus assigne un nouveau statut (admin). Chaque assignation,
// répétition comprise, est ajoutée à l'historique.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if !models.IsValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut invalide", "status": req.Status})
		return
	}

	order, err := h.orders.SetStatus(c.Request.Context(), orderID, req.Status)
	if errors.Is(err, services.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur mise à jour statut: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour statut"})
		return
	}

	c.JSON(http.StatusOK, order)
}

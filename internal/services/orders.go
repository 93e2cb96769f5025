package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gocql/gocql"

	"vastra_back_end/internal/models"
	"vastra_back_end/internal/store"
)

// LineItemInput est une ligne du panier soumise à la commande
type LineItemInput struct {
	ProductID      gocql.UUID
	Quantity       int
	SelectedSize   string
	SelectedColour string
}

// ShippingInput porte l'adresse de livraison
type ShippingInput struct {
	Address    string
	City       string
	PostalCode string
	Country    string
	Phone      string
}

// OrderService orchestre la prise de commande et le cycle de vie des statuts
type OrderService struct {
	catalog store.Catalog
	orders  store.Orders
	mailer  OrderMailer // optionnel, nil en test
}

// OrderMailer envoie la confirmation de commande (implémenté par Mailer)
type OrderMailer interface {
	SendOrderConfirmation(order *models.Order, email string) error
}

func NewOrderService(catalog store.Catalog, orders store.Orders, mailer OrderMailer) *OrderService {
	return &OrderService{catalog: catalog, orders: orders, mailer: mailer}
}

// PlaceOrder valide puis commet une commande en deux phases.
//
// Phase 1 : chaque ligne est validée (produit existant, stock suffisant)
// et les instantanés nom/image/prix sont constitués — aucune écriture.
// Phase 2 : décrément atomique par produit (decrement-if-sufficient au
// niveau du store). Si un décrément échoue parce qu'une commande
// concurrente est passée entre-temps, les décréments déjà commis sont
// restitués avant de remonter l'erreur.
//
// La validation préalable garantit qu'une commande refusée ne laisse
// jamais de stock entamé.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, items []LineItemInput, shipping ShippingInput) (*models.Order, error) {
	if len(items) == 0 {
		return nil, errors.New("la commande ne contient aucun article")
	}

	// --- Phase 1 : tout valider, ne rien écrire ---
	orderItems := make([]models.OrderItem, 0, len(items))
	var totalPrice float64

	for _, item := range items {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, &ProductNotFoundError{ProductID: item.ProductID.String()}
		}
		if err != nil {
			return nil, err
		}

		if product.Stock < item.Quantity {
			return nil, &store.InsufficientStockError{
				ProductID: item.ProductID.String(),
				Requested: item.Quantity,
				Available: product.Stock,
			}
		}

		// Instantané figé : les éditions futures du catalogue ne doivent
		// jamais réécrire une commande passée
		orderItems = append(orderItems, models.OrderItem{
			ProductID:      product.ID,
			ProductName:    product.Name,
			ProductImage:   product.Image,
			ProductPrice:   product.Price,
			Quantity:       item.Quantity,
			SelectedSize:   item.SelectedSize,
			SelectedColour: item.SelectedColour,
		})
		totalPrice += product.Price * float64(item.Quantity)
	}

	// --- Phase 2 : commettre les décréments, compenser en cas de course ---
	for i, item := range items {
		if err := s.catalog.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.rollbackDecrements(ctx, items[:i])

			var insufficient *store.InsufficientStockError
			if errors.As(err, &insufficient) {
				return nil, insufficient
			}
			if errors.Is(err, store.ErrNotFound) {
				return nil, &ProductNotFoundError{ProductID: item.ProductID.String()}
			}
			return nil, err
		}
	}

	order := &models.Order{
		ID:              gocql.TimeUUID(),
		UserID:          userID,
		Items:           orderItems,
		ShippingAddress: shipping.Address,
		City:            shipping.City,
		PostalCode:      shipping.PostalCode,
		Country:         shipping.Country,
		Phone:           shipping.Phone,
		Status:          models.StatusPending,
		StatusHistory:   []string{models.StatusPending},
		TotalPrice:      totalPrice,
		DateOrdered:     time.Now(),
	}

	if err := s.orders.InsertOrder(ctx, order); err != nil {
		// La commande n'existera pas : restituer tout le stock décrémenté
		s.rollbackDecrements(ctx, items)
		return nil, err
	}

	log.Printf("📦 Commande %s créée pour %s (%d articles, total %.2f)",
		order.ID, userID, len(order.Items), order.TotalPrice)

	return order, nil
}

// rollbackDecrements restitue le stock des lignes déjà commises (best effort)
func (s *OrderService) rollbackDecrements(ctx context.Context, committed []LineItemInput) {
	for _, item := range committed {
		if err := s.catalog.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("⚠️ Compensation stock échouée pour %s (+%d): %v",
				item.ProductID, item.Quantity, err)
		}
	}
}

// SetStatus assigne un nouveau statut et l'ajoute à l'historique.
// Toute assignation est enregistrée, y compris la réassignation du
// statut courant.
func (s *OrderService) SetStatus(ctx context.Context, orderID gocql.UUID, status string) (*models.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	order.Status = status
	order.StatusHistory = append(order.StatusHistory, status)

	if err := s.orders.UpdateStatus(ctx, orderID, order.Status, order.StatusHistory); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	log.Printf("🚚 Commande %s → %s", orderID, status)
	return order, nil
}

// GetOrder retourne une commande si elle appartient à l'utilisateur.
// Une commande d'un autre client est indiscernable d'une commande absente.
func (s *OrderService) GetOrder(ctx context.Context, orderID gocql.UUID, userID string) (*models.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetMyOrders liste les commandes d'un client, plus récentes d'abord
func (s *OrderService) GetMyOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// GetAllOrders liste toutes les commandes (admin)
func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.ListAll(ctx)
}

// SendConfirmation envoie l'e-mail de confirmation sans bloquer la réponse
func (s *OrderService) SendConfirmation(order *models.Order, email string) {
	if s.mailer == nil || email == "" {
		return
	}
	go func() {
		if err := s.mailer.SendOrderConfirmation(order, email); err != nil {
			log.Printf("⚠️ Envoi confirmation commande %s échoué: %v", order.ID, err)
		}
	}()
}

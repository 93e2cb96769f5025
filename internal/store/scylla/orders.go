package scylla

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gocql/gocql"

	"vastra_back_end/internal/database"
	"vastra_back_end/internal/models"
	"vastra_back_end/internal/store"
)

// OrderStore persiste les commandes dans orders (lookup par id) et maintient
// orders_by_user pour lister les commandes d'un client triées par date.
// Les lignes de commande sont des instantanés figés, sérialisés en JSON.
type OrderStore struct {
	conns *database.Connections
}

func NewOrderStore(conns *database.Connections) *OrderStore {
	return &OrderStore{conns: conns}
}

var _ store.Orders = (*OrderStore)(nil)

const orderColumns = `order_id, user_id, items, shipping_address, city, postal_code,
	country, phone, payment_id, status, status_history, total_price, date_ordered`

func (s *OrderStore) InsertOrder(ctx context.Context, o *models.Order) error {
	session, err := s.conns.OrdersSession()
	if err != nil {
		return err
	}

	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}

	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`
		INSERT INTO orders (`+orderColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		o.ID, o.UserID, string(itemsJSON), o.ShippingAddress, o.City, o.PostalCode,
		o.Country, o.Phone, o.PaymentID, o.Status, o.StatusHistory, o.TotalPrice, o.DateOrdered,
	)
	batch.Query(`
		INSERT INTO orders_by_user (user_id, date_ordered, order_id) VALUES (?, ?, ?)
	`, o.UserID, o.DateOrdered, o.ID)
	return session.ExecuteBatch(batch)
}

func (s *OrderStore) GetOrder(ctx context.Context, id gocql.UUID) (*models.Order, error) {
	session, err := s.conns.OrdersSession()
	if err != nil {
		return nil, err
	}

	var (
		o         models.Order
		itemsJSON string
	)
	err = session.Query(
		"SELECT "+orderColumns+" FROM orders WHERE order_id = ?", id,
	).WithContext(ctx).Scan(
		&o.ID, &o.UserID, &itemsJSON, &o.ShippingAddress, &o.City, &o.PostalCode,
		&o.Country, &o.Phone, &o.PaymentID, &o.Status, &o.StatusHistory, &o.TotalPrice, &o.DateOrdered,
	)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(itemsJSON), &o.Items); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrderStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	session, err := s.conns.OrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(
		"SELECT order_id FROM orders_by_user WHERE user_id = ?", userID,
	).WithContext(ctx).Iter()

	var ids []gocql.UUID
	var id gocql.UUID
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	out := make([]models.Order, 0, len(ids))
	for _, oid := range ids {
		o, err := s.GetOrder(ctx, oid)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, nil
}

func (s *OrderStore) ListAll(ctx context.Context) ([]models.Order, error) {
	session, err := s.conns.OrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query("SELECT " + orderColumns + " FROM orders").WithContext(ctx).Iter()

	var out []models.Order
	for {
		var (
			o         models.Order
			itemsJSON string
		)
		if !iter.Scan(
			&o.ID, &o.UserID, &itemsJSON, &o.ShippingAddress, &o.City, &o.PostalCode,
			&o.Country, &o.Phone, &o.PaymentID, &o.Status, &o.StatusHistory, &o.TotalPrice, &o.DateOrdered,
		) {
			break
		}
		if err := json.Unmarshal([]byte(itemsJSON), &o.Items); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id gocql.UUID, status string, history []string) error {
	session, err := s.conns.OrdersSession()
	if err != nil {
		return err
	}

	applied, err := session.Query(`
		UPDATE orders SET status = ?, status_history = ? WHERE order_id = ? IF EXISTS
	`, status, history, id).WithContext(ctx).ScanCAS()
	if err != nil {
		return err
	}
	if !applied {
		return store.ErrNotFound
	}
	return nil
}

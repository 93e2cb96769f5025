package scylla

import (
	"context"
	"errors"

	"github.com/gocql/gocql"

	"vastra_back_end/internal/database"
	"vastra_back_end/internal/models"
	"vastra_back_end/internal/store"
)

type CategoryStore struct {
	conns *database.Connections
}

func NewCategoryStore(conns *database.Connections) *CategoryStore {
	return &CategoryStore{conns: conns}
}

var _ store.Categories = (*CategoryStore)(nil)

const categoryColumns = "category_id, name, image, colour, parent_id, created_at"

func (s *CategoryStore) GetCategory(ctx context.Context, id gocql.UUID) (*models.Category, error) {
	session, err := s.conns.ProductsSession()
	if err != nil {
		return nil, err
	}

	var c models.Category
	err = session.Query(
		"SELECT "+categoryColumns+" FROM categories WHERE category_id = ?", id,
	).WithContext(ctx).Scan(&c.ID, &c.Name, &c.Image, &c.Colour, &c.ParentID, &c.CreatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoryStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	session, err := s.conns.ProductsSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query("SELECT " + categoryColumns + " FROM categories").WithContext(ctx).Iter()

	var out []models.Category
	var c models.Category
	for iter.Scan(&c.ID, &c.Name, &c.Image, &c.Colour, &c.ParentID, &c.CreatedAt) {
		out = append(out, c)
		c = models.Category{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CategoryStore) InsertCategory(ctx context.Context, c *models.Category) error {
	session, err := s.conns.ProductsSession()
	if err != nil {
		return err
	}
	return session.Query(
		"INSERT INTO categories ("+categoryColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		c.ID, c.Name, c.Image, c.Colour, c.ParentID, c.CreatedAt,
	).WithContext(ctx).Exec()
}

func (s *CategoryStore) UpdateCategory(ctx context.Context, c *models.Category) error {
	session, err := s.conns.ProductsSession()
	if err != nil {
		return err
	}

	applied, err := session.Query(
		"UPDATE categories SET name = ?, image = ?, colour = ?, parent_id = ? WHERE category_id = ? IF EXISTS",
		c.Name, c.Image, c.Colour, c.ParentID, c.ID,
	).WithContext(ctx).ScanCAS()
	if err != nil {
		return err
	}
	if !applied {
		return store.ErrNotFound
	}
	return nil
}

func (s *CategoryStore) DeleteCategory(ctx context.Context, id gocql.UUID) error {
	session, err := s.conns.ProductsSession()
	if err != nil {
		return err
	}

	applied, err := session.Query(
		"DELETE FROM categories WHERE category_id = ? IF EXISTS", id,
	).WithContext(ctx).ScanCAS()
	if err != nil {
		return err
	}
	if !applied {
		return store.ErrNotFound
	}
	return nil
}

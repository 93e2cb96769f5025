// Package scylla implémente les interfaces de store sur ScyllaDB.
// Les mutations concurrentes (stock, agrégats d'avis) passent par des
// transactions légères (LWT) pour garantir l'atomicité conditionnelle.
package scylla

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gocql/gocql"

	"vastra_back_end/internal/database"
	"vastra_back_end/internal/models"
	"vastra_back_end/internal/store"
)

// Nombre maximal de tentatives CAS avant d'abandonner
const maxCASRetries = 10

type CatalogStore struct {
	conns *database.Connections
}

func NewCatalogStore(conns *database.Connections) *CatalogStore {
	return &CatalogStore{conns: conns}
}

var _ store.Catalog = (*CatalogStore)(nil)

const productColumns = `product_id, name, description, price, stock, colours, sizes,
	image, images, category_id, gender_age_category, reviews, number_of_reviews,
	average_rating, date_added, updated_at`

func scanProduct(scanner interface{ Scan(...interface{}) error }) (*models.Product, error) {
	var p models.Product
	err := scanner.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Colours, &p.Sizes,
		&p.Image, &p.Images, &p.CategoryID, &p.GenderAgeCategory, &p.Reviews,
		&p.NumberOfReviews, &p.AverageRating, &p.DateAdded, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *CatalogStore) GetProduct(ctx context.Context, id gocql.UUID) (*models.Product, error) {
	session, err := s.conns.ProductsSession()
	if err != nil {
		return nil, err
	}

	q := session.Query(
		fmt.Sprintf("SELECT %s FROM products WHERE product_id = ?", productColumns), id,
	).WithContext(ctx)

	p, err := scanProduct(q)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListProducts parcourt la table et applique les filtres côté application.
// Le catalogue reste petit ; la recherche plein-texte passe par Elasticsearch.
func (s *CatalogStore) ListProducts(ctx context.Context, filter store.ProductFilter) ([]models.Product, int, error) {
	session, err := s.conns.ProductsSession()
	if err != nil {
		return nil, 0, err
	}

	var (
		cql  = fmt.Sprintf("SELECT %s FROM products", productColumns)
		args []interface{}
	)
	if filter.CategoryID != nil {
		cql += " WHERE category_id = ? ALLOW FILTERING"
		args = append(args, *filter.CategoryID)
	}

	iter := session.Query(cql, args...).WithContext(ctx).Iter()

	var all []models.Product
	for {
		var p models.Product
		if !iter.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Colours, &p.Sizes,
			&p.Image, &p.Images, &p.CategoryID, &p.GenderAgeCategory, &p.Reviews,
			&p.NumberOfReviews, &p.AverageRating, &p.DateAdded, &p.UpdatedAt,
		) {
			break
		}
		if matchesFilter(p, filter) {
			all = append(all, p)
		}
	}
	if err := iter.Close(); err != nil {
		return nil, 0, err
	}

	sortProducts(all, filter.Sort)

	total := len(all)
	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= total {
		return []models.Product{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func matchesFilter(p models.Product, f store.ProductFilter) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.GenderAgeCategory != "" && p.GenderAgeCategory != f.GenderAgeCategory {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if len(f.Colours) > 0 && !intersects(p.Colours, f.Colours) {
		return false
	}
	if len(f.Sizes) > 0 && !intersects(p.Sizes, f.Sizes) {
		return false
	}
	return true
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if strings.EqualFold(x, y) {
				return true
			}
		}
	}
	return false
}

func sortProducts(ps []models.Product, spec string) {
	field, desc := "date_added", true
	if spec != "" {
		parts := strings.SplitN(spec, ":", 2)
		field = parts[0]
		desc = len(parts) == 2 && parts[1] == "desc"
	}
	sort.SliceStable(ps, func(i, j int) bool {
		var less bool
		switch field {
		case "price":
			less = ps[i].Price < ps[j].Price
		case "name":
			less = ps[i].Name < ps[j].Name
		case "average_rating":
			less = ps[i].AverageRating < ps[j].AverageRating
		default:
			less = ps[i].DateAdded.Before(ps[j].DateAdded)
		}
		if desc {
			return !less
		}
		return less
	})
}

func (s *CatalogStore) InsertProduct(ctx context.Context, p *models.Product) error {
	session, err := s.conns.ProductsSession()
	if err != nil {
		return err
	}

	return session.Query(fmt.Sprintf(`
		INSERT INTO products (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, productColumns),
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.Colours, p.Sizes,
		p.Image, p.Images, p.CategoryID, p.GenderAgeCategory, p.Reviews,
		p.NumberOfReviews, p.AverageRating, p.DateAdded, p.UpdatedAt,
	).WithContext(ctx).Exec()
}

// UpdateProduct met à jour les champs catalogue. Le stock et les agrégats
// d'avis ont leurs propres chemins atomiques et ne passent pas par ici.
func (s *CatalogStore) UpdateProduct(ctx context.Context, p *models.Product) error {
	session, err := s.conns.ProductsSession()
	if err != nil {
		return err
	}

	applied, err := session.Query(`
		UPDATE products SET name = ?, description = ?, price = ?, colours = ?, sizes = ?,
			image = ?, images = ?, category_id = ?, gender_age_category = ?, updated_at = ?
		WHERE product_id = ? IF EXISTS
	`,
		p.Name, p.Description, p.Price, p.Colours, p.Sizes,
		p.Image, p.Images, p.CategoryID, p.GenderAgeCategory, time.Now(),
		p.ID,
	).WithContext(ctx).ScanCAS()
	if err != nil {
		return err
	}
	if !applied {
		return store.ErrNotFound
	}
	return nil
}

func (s *CatalogStore) DeleteProduct(ctx context.Context, id gocql.UUID) error {
	session, err := s.conns.ProductsSession()
	if err != nil {
		return err
	}

	applied, err := session.Query(
		"DELETE FROM products WHERE product_id = ? IF EXISTS", id,
	).WithContext(ctx).ScanCAS()
	if err != nil {
		return err
	}
	if !applied {
		return store.ErrNotFound
	}
	return nil
}

// DecrementStock décrémente le stock en une opération conditionnelle :
// lecture du stock courant puis UPDATE ... IF stock = ?. Si un autre
// appel gagne la course, la condition échoue et on recommence.
// Deux commandes concurrentes ne peuvent donc jamais survendre.
func (s *CatalogStore) DecrementStock(ctx context.Context, id gocql.UUID, qty int) error {
	session, err := s.conns.ProductsSession()
	if err != nil {
		return err
	}

	for attempt := 0; attempt < maxCASRetries; attempt++ {
		var current int
		err := session.Query(
			"SELECT stock FROM products WHERE product_id = ?", id,
		).WithContext(ctx).Scan(&current)
		if errors.Is(err, gocql.ErrNotFound) {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}

		if current < qty {
			return &store.InsufficientStockError{
				ProductID: id.String(),
				Requested: qty,
				Available: current,
			}
		}

		var prev int
		applied, err := session.Query(
			"UPDATE products SET stock = ?, updated_at = ? WHERE product_id = ? IF stock = ?",
			current-qty, time.Now(), id, current,
		).WithContext(ctx).ScanCAS(&prev)
		if err != nil {
			return err
		}
		if applied {
			return nil
		}
		// Perdu la course, on relit et on retente
	}

	return fmt.Errorf("décrément stock %s: trop de conflits concurrents", id)
}

func (s *CatalogStore) IncrementStock(ctx context.Context, id gocql.UUID, qty int) error {
	session, err := s.conns.ProductsSession()
	if err != nil {
		return err
	}

	for attempt := 0; attempt < maxCASRetries; attempt++ {
		var current int
		err := session.Query(
			"SELECT stock FROM products WHERE product_id = ?", id,
		).WithContext(ctx).Scan(&current)
		if errors.Is(err, gocql.ErrNotFound) {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}

		var prev int
		applied, err := session.Query(
			"UPDATE products SET stock = ?, updated_at = ? WHERE product_id = ? IF stock = ?",
			current+qty, time.Now(), id, current,
		).WithContext(ctx).ScanCAS(&prev)
		if err != nil {
			return err
		}
		if applied {
			return nil
		}
	}

	return fmt.Errorf("incrément stock %s: trop de conflits concurrents", id)
}

// SetStock assigne une valeur absolue (réassort admin). L'écriture passe
// par une LWT pour rester sérialisée avec les décréments conditionnels.
func (s *CatalogStore) SetStock(ctx context.Context, id gocql.UUID, stock int) error {
	session, err := s.conns.ProductsSession()
	if err != nil {
		return err
	}

	applied, err := session.Query(
		"UPDATE products SET stock = ?, updated_at = ? WHERE product_id = ? IF EXISTS",
		stock, time.Now(), id,
	).WithContext(ctx).ScanCAS()
	if err != nil {
		return err
	}
	if !applied {
		return store.ErrNotFound
	}
	return nil
}

// ApplyReviewAggregate écrit la nouvelle liste d'avis et les agrégats,
// conditionné à ce que la liste n'ait pas bougé entre-temps (CAS).
func (s *CatalogStore) ApplyReviewAggregate(ctx context.Context, id gocql.UUID, prev, next []gocql.UUID, count int, avg float64) (bool, error) {
	session, err := s.conns.ProductsSession()
	if err != nil {
		return false, err
	}

	// Scylla stocke une liste vide comme null : normaliser la condition
	var prevCond interface{}
	if len(prev) > 0 {
		prevCond = prev
	}
	var nextVal interface{}
	if len(next) > 0 {
		nextVal = next
	}

	var stored []gocql.UUID
	applied, err := session.Query(`
		UPDATE products SET reviews = ?, number_of_reviews = ?, average_rating = ?, updated_at = ?
		WHERE product_id = ? IF reviews = ?
	`, nextVal, count, avg, time.Now(), id, prevCond).WithContext(ctx).ScanCAS(&stored)
	if err != nil {
		return false, err
	}
	return applied, nil
}

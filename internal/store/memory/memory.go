// Package memory fournit une implémentation en mémoire des interfaces de
// store, avec les mêmes garanties d'atomicité que l'implémentation ScyllaDB
// (décrément conditionnel, CAS sur les agrégats). Utilisée par les tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/gocql/gocql"

	"vastra_back_end/internal/models"
	"vastra_back_end/internal/store"
)

type Store struct {
	mu         sync.Mutex
	products   map[gocql.UUID]models.Product
	reviews    map[gocql.UUID]models.Review
	orders     map[gocql.UUID]models.Order
	users      map[string]models.User
	categories map[gocql.UUID]models.Category
}

func New() *Store {
	return &Store{
		products:   make(map[gocql.UUID]models.Product),
		reviews:    make(map[gocql.UUID]models.Review),
		orders:     make(map[gocql.UUID]models.Order),
		users:      make(map[string]models.User),
		categories: make(map[gocql.UUID]models.Category),
	}
}

// Vérification statique des interfaces
var (
	_ store.Catalog    = (*Store)(nil)
	_ store.Reviews    = (*Store)(nil)
	_ store.Orders     = (*Store)(nil)
	_ store.Users      = (*Store)(nil)
	_ store.Categories = (*Store)(nil)
)

// --- Catalog ---

func (s *Store) GetProduct(_ context.Context, id gocql.UUID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := p
	cp.Colours = append([]string(nil), p.Colours...)
	cp.Sizes = append([]string(nil), p.Sizes...)
	cp.Images = append([]string(nil), p.Images...)
	cp.Reviews = append([]gocql.UUID(nil), p.Reviews...)
	return &cp, nil
}

func (s *Store) ListProducts(_ context.Context, filter store.ProductFilter) ([]models.Product, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []models.Product
	for _, p := range s.products {
		if !matchesFilter(p, filter) {
			continue
		}
		all = append(all, p)
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
	if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
		return false
	}
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

func (s *Store) InsertProduct(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = *p
	return nil
}

// UpdateProduct met à jour les champs catalogue uniquement. Le stock et
// les agrégats d'avis sont conservés depuis l'état persistant : une struct
// périmée ne doit jamais écraser un décrément ou un recalcul concurrent.
func (s *Store) UpdateProduct(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.products[p.ID]
	if !ok {
		return store.ErrNotFound
	}
	cp := *p
	cp.Stock = existing.Stock
	cp.Reviews = existing.Reviews
	cp.NumberOfReviews = existing.NumberOfReviews
	cp.AverageRating = existing.AverageRating
	s.products[p.ID] = cp
	return nil
}

func (s *Store) DeleteProduct(_ context.Context, id gocql.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *Store) DecrementStock(_ context.Context, id gocql.UUID, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return store.ErrNotFound
	}
	if p.Stock < qty {
		return &store.InsufficientStockError{
			ProductID: id.String(),
			Requested: qty,
			Available: p.Stock,
		}
	}
	p.Stock -= qty
	s.products[id] = p
	return nil
}

func (s *Store) IncrementStock(_ context.Context, id gocql.UUID, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Stock += qty
	s.products[id] = p
	return nil
}

func (s *Store) SetStock(_ context.Context, id gocql.UUID, stock int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Stock = stock
	s.products[id] = p
	return nil
}

func (s *Store) ApplyReviewAggregate(_ context.Context, id gocql.UUID, prev, next []gocql.UUID, count int, avg float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return false, store.ErrNotFound
	}
	if !equalUUIDs(p.Reviews, prev) {
		return false, nil
	}
	p.Reviews = append([]gocql.UUID(nil), next...)
	p.NumberOfReviews = count
	p.AverageRating = avg
	s.products[id] = p
	return true, nil
}

func equalUUIDs(a, b []gocql.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// --- Reviews ---

func (s *Store) GetReview(_ context.Context, id gocql.UUID) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := r
	return &cp, nil
}

func (s *Store) GetByUserAndProduct(_ context.Context, userID string, productID gocql.UUID) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reviews {
		if r.UserID == userID && r.ProductID == productID {
			cp := r
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetReviews(_ context.Context, ids []gocql.UUID) ([]models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Review, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.reviews[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) ListByProduct(_ context.Context, productID gocql.UUID) ([]models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Review
	for _, r := range s.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) InsertReview(_ context.Context, r *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[r.ID] = *r
	return nil
}

func (s *Store) UpdateReview(_ context.Context, r *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[r.ID]; !ok {
		return store.ErrNotFound
	}
	s.reviews[r.ID] = *r
	return nil
}

func (s *Store) DeleteReview(_ context.Context, id gocql.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.reviews, id)
	return nil
}

// --- Orders ---

func (s *Store) InsertOrder(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *o
	cp.Items = append([]models.OrderItem(nil), o.Items...)
	cp.StatusHistory = append([]string(nil), o.StatusHistory...)
	s.orders[o.ID] = cp
	return nil
}

func (s *Store) GetOrder(_ context.Context, id gocql.UUID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := o
	cp.Items = append([]models.OrderItem(nil), o.Items...)
	cp.StatusHistory = append([]string(nil), o.StatusHistory...)
	return &cp, nil
}

func (s *Store) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateOrdered.After(out[j].DateOrdered) })
	return out, nil
}

func (s *Store) ListAll(_ context.Context) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateOrdered.After(out[j].DateOrdered) })
	return out, nil
}

func (s *Store) UpdateStatus(_ context.Context, id gocql.UUID, status string, history []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.Status = status
	o.StatusHistory = append([]string(nil), history...)
	s.orders[id] = o
	return nil
}

// --- Users ---

func (s *Store) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := u
	cp.Wishlist = append([]models.WishlistItem(nil), u.Wishlist...)
	return &cp, nil
}

func (s *Store) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetByPhone(_ context.Context, phone string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Phone == phone {
			cp := u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) InsertUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
	return nil
}

func (s *Store) UpdateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return store.ErrNotFound
	}
	s.users[u.ID] = *u
	return nil
}

// --- Categories ---

func (s *Store) GetCategory(_ context.Context, id gocql.UUID) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := c
	return &cp, nil
}

func (s *Store) ListCategories(_ context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) InsertCategory(_ context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = *c
	return nil
}

func (s *Store) UpdateCategory(_ context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[c.ID]; !ok {
		return store.ErrNotFound
	}
	s.categories[c.ID] = *c
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, id gocql.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

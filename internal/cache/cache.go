package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"

	"vastra_back_end/internal/models"
	"vastra_back_end/internal/store"
)

const (
	UserCacheTTL    = 5 * time.Minute
	ProductCacheTTL = 10 * time.Minute
)

// Cache est un read-through Redis devant les stores Scylla
type Cache struct {
	rdb     *redis.Client
	catalog store.Catalog
	users   store.Users
}

func New(rdb *redis.Client, catalog store.Catalog, users store.Users) *Cache {
	return &Cache{rdb: rdb, catalog: catalog, users: users}
}

// GetProduct récupère un produit depuis Redis, sinon depuis le store
func (c *Cache) GetProduct(ctx context.Context, id gocql.UUID) (*models.Product, error) {
	key := "product:" + id.String()

	if data, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var p models.Product
		if json.Unmarshal([]byte(data), &p) == nil {
			return &p, nil
		}
	}

	p, err := c.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(p); err == nil {
		c.rdb.Set(ctx, key, data, ProductCacheTTL)
	}
	return p, nil
}

// InvalidateProduct purge le cache d'un produit après mutation
func (c *Cache) InvalidateProduct(ctx context.Context, id gocql.UUID) {
	c.rdb.Del(ctx, "product:"+id.String())
}

// GetUser récupère un utilisateur depuis Redis, sinon depuis le store
func (c *Cache) GetUser(ctx context.Context, id string) (*models.User, error) {
	key := "user:" + id

	if data, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var u models.User
		if json.Unmarshal([]byte(data), &u) == nil {
			return &u, nil
		}
	}

	u, err := c.users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(u); err == nil {
		c.rdb.Set(ctx, key, data, UserCacheTTL)
	}
	return u, nil
}

// InvalidateUser purge le cache d'un utilisateur
func (c *Cache) InvalidateUser(ctx context.Context, id string) {
	c.rdb.Del(ctx, "user:"+id)
}

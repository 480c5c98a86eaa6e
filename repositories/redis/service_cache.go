package redis

import (
	"context"
	"strings"
	"time"

	"github.com/cardoctor/server/models"
	"github.com/cardoctor/server/repositories"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	catalogListKey    = "catalog:services"
	catalogServiceKey = "catalog:service:"
)

// ServiceCache is a read-through cache in front of a ServiceRepository.
// The catalog is read-only to this server so entries only age out by TTL.
type ServiceCache struct {
	next  repositories.ServiceRepository
	list  *ViewCache[[]models.Document]
	items *ViewCache[models.Document]
}

// NewServiceCache wraps next with a Redis cache
func NewServiceCache(next repositories.ServiceRepository, client goredis.Cmdable, ttl time.Duration, logger *zap.Logger) repositories.ServiceRepository {
	return &ServiceCache{
		next:  next,
		list:  NewViewCache[[]models.Document](client, ttl, logger),
		items: NewViewCache[models.Document](client, ttl, logger),
	}
}

// Find serves the catalog from Redis, loading it on a miss
func (c *ServiceCache) Find(ctx context.Context) ([]models.Document, error) {
	if docs, ok := c.list.Get(ctx, catalogListKey); ok {
		return *docs, nil
	}

	docs, err := c.next.Find(ctx)
	if err != nil {
		return nil, err
	}

	c.list.Set(ctx, catalogListKey, &docs)
	return docs, nil
}

// FindOne serves a projected service from Redis, loading it on a miss.
// Lookup failures, not found included, are never cached.
func (c *ServiceCache) FindOne(ctx context.Context, id uuid.UUID, projection []string) (models.Document, error) {
	key := serviceKey(id, projection)
	if doc, ok := c.items.Get(ctx, key); ok {
		return *doc, nil
	}

	doc, err := c.next.FindOne(ctx, id, projection)
	if err != nil {
		return nil, err
	}

	c.items.Set(ctx, key, &doc)
	return doc, nil
}

func serviceKey(id uuid.UUID, projection []string) string {
	return catalogServiceKey + id.String() + ":" + strings.Join(projection, ",")
}

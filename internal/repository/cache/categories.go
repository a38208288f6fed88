package cache

import (
	"time"

	categorydomain "subtrack-go/internal/domain/category"
	"github.com/dgraph-io/ristretto"
)

const categoriesKey = "categories:all"

// CategoryCache keeps the full category list under a single key. Ristretto
// handles the TTL; invalidation on writes keeps readers from serving stale
// lists longer than one admission window.
type CategoryCache struct {
	store *ristretto.Cache
}

func NewCategoryCache() (*CategoryCache, error) {
	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1 << 10,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &CategoryCache{store: store}, nil
}

func (c *CategoryCache) GetAll() ([]categorydomain.Category, bool) {
	value, ok := c.store.Get(categoriesKey)
	if !ok {
		return nil, false
	}
	categories, ok := value.([]categorydomain.Category)
	return categories, ok
}

func (c *CategoryCache) SetAll(categories []categorydomain.Category, ttl time.Duration) {
	c.store.SetWithTTL(categoriesKey, categories, 1, ttl)
	// Ristretto admits asynchronously; Wait makes the write visible to the
	// next read, which the list handler relies on.
	c.store.Wait()
}

func (c *CategoryCache) Invalidate() {
	c.store.Del(categoriesKey)
}

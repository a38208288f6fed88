package category

import "time"

// Cache holds the full category list. The table is small and read on almost
// every page load, so a single-key cache is enough.
type Cache interface {
	GetAll() ([]Category, bool)
	SetAll(categories []Category, ttl time.Duration)
	Invalidate()
}

type noopCache struct{}

func (noopCache) GetAll() ([]Category, bool) { return nil, false }

func (noopCache) SetAll([]Category, time.Duration) {}

func (noopCache) Invalidate() {}

package builtin

import (
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Row is one result row keyed by column name.
type Row = map[string]any

// ResultCache keeps recent query results so render_chart can reference them by id.
// Safe for concurrent use.
type ResultCache struct {
	lru *lru.Cache[string, []Row]
}

// NewResultCache creates a cache holding at most size results.
func NewResultCache(size int) (*ResultCache, error) {
	c, err := lru.New[string, []Row](size)
	if err != nil {
		return nil, err
	}
	return &ResultCache{lru: c}, nil
}

// Put stores rows under id, evicting the least recently used result when full.
func (c *ResultCache) Put(id string, rows []Row) {
	c.lru.Add(id, rows)
}

// Get returns the rows stored under id.
func (c *ResultCache) Get(id string) ([]Row, bool) {
	return c.lru.Get(id)
}

// Len returns the number of cached results.
func (c *ResultCache) Len() int {
	return c.lru.Len()
}

// shortID returns an 8 character random identifier.
func shortID() string {
	return uuid.NewString()[:8]
}

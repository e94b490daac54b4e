// Package cache provides an in-memory cache for synthesized plans, keyed
// by a hash of the generation inputs so identical requests reuse a prior
// result instead of another LLM round trip.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/taskflow-ai/taskflow/internal/models"
)

const defaultCapacity = 100

// Stats reports cache effectiveness counters.
type Stats struct {
	Hits    int `json:"hits"`
	Misses  int `json:"misses"`
	Entries int `json:"entries"`
}

// Cache is a fixed-capacity plan cache with FIFO eviction.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*models.Plan
	order    []string
	inflight map[string]chan struct{}
	capacity int
	hits     int
	misses   int
}

// New creates a cache with the given capacity. Zero or negative means the
// default capacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Cache{
		entries:  make(map[string]*models.Plan),
		inflight: make(map[string]chan struct{}),
		capacity: capacity,
	}
}

// Key derives a stable cache key from a plan request.
func Key(req *models.PlanRequest) string {
	data, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Get returns the cached plan for key, or nil on a miss.
func (c *Cache) Get(key string) *models.Plan {
	c.mu.Lock()
	defer c.mu.Unlock()

	plan, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil
	}
	c.hits++
	return plan
}

// Put stores a plan under key, evicting the oldest entry at capacity.
func (c *Cache) Put(key string, plan *models.Plan) {
	if key == "" || plan == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if len(c.order) >= c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = plan
}

// Begin marks key as being generated. Returns true and a done func for the
// first caller; later callers get false and a channel that closes when the
// first caller finishes, letting them re-check the cache instead of issuing
// a duplicate generation.
func (c *Cache) Begin(key string) (first bool, wait <-chan struct{}, done func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ch, ok := c.inflight[key]; ok {
		return false, ch, nil
	}

	ch := make(chan struct{})
	c.inflight[key] = ch
	return true, nil, func() {
		c.mu.Lock()
		delete(c.inflight, key)
		c.mu.Unlock()
		close(ch)
	}
}

// InvalidatePlan drops every entry holding the given plan, for when the
// plan is mutated or deleted.
func (c *Cache) InvalidatePlan(planID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, plan := range c.entries {
		if plan.ID != planID {
			continue
		}
		delete(c.entries, key)
		for i, k := range c.order {
			if k == key {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}

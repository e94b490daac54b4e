package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordRequest(t *testing.T) {
	c := NewCollector()

	c.RecordRequest("POST /api/plans", 100*time.Millisecond, 200)
	c.RecordRequest("POST /api/plans", 300*time.Millisecond, 500)
	c.RecordRequest("GET /api/plans", 50*time.Millisecond, 200)

	stats := c.Snapshot()
	assert.Equal(t, 3, stats.TotalRequests)
	assert.Equal(t, 1, stats.TotalErrors)
	assert.Equal(t, 33.33, stats.ErrorRate)
	assert.Equal(t, 150.0, stats.AvgResponseTimeMS)
	assert.Equal(t, 2, stats.EndpointStats["POST /api/plans"].Count)
	assert.Equal(t, 1, stats.EndpointStats["GET /api/plans"].Count)
}

func TestLLMAndCacheCounters(t *testing.T) {
	c := NewCollector()

	c.RecordLLMCall(512)
	c.RecordLLMCall(256)
	c.RecordCacheHit()
	c.RecordCacheHit()
	c.RecordCacheHit()
	c.RecordCacheMiss()

	stats := c.Snapshot()
	assert.Equal(t, 2, stats.LLMCalls)
	assert.Equal(t, 768, stats.LLMTokensUsed)
	assert.Equal(t, 75.0, stats.CacheHitRate)
	assert.Equal(t, 3, stats.CacheHits)
	assert.Equal(t, 1, stats.CacheMisses)
}

func TestEmptySnapshot(t *testing.T) {
	stats := NewCollector().Snapshot()

	assert.Equal(t, 0, stats.TotalRequests)
	assert.Equal(t, 0.0, stats.ErrorRate)
	assert.Equal(t, 0.0, stats.CacheHitRate)
	assert.NotNil(t, stats.EndpointStats)
}

func TestReset(t *testing.T) {
	c := NewCollector()
	c.RecordRequest("GET /api/health", time.Millisecond, 200)
	c.RecordLLMCall(10)

	c.Reset()

	stats := c.Snapshot()
	assert.Equal(t, 0, stats.TotalRequests)
	assert.Equal(t, 0, stats.LLMCalls)
	assert.Empty(t, stats.EndpointStats)
}

func TestConcurrentAccess(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.RecordRequest("GET /api/plans", time.Millisecond, 200)
				c.RecordCacheHit()
			}
		}()
	}
	wg.Wait()

	stats := c.Snapshot()
	assert.Equal(t, 1000, stats.TotalRequests)
	assert.Equal(t, 1000, stats.CacheHits)
}

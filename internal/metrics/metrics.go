// Package metrics collects in-memory request and planner counters.
package metrics

import (
	"math"
	"sync"
	"time"
)

// EndpointStats holds per-endpoint counters.
type EndpointStats struct {
	Count         int     `json:"count"`
	TotalDuration float64 `json:"total_duration"`
}

// Stats is a point-in-time snapshot of the collector.
type Stats struct {
	TotalRequests     int                      `json:"total_requests"`
	TotalErrors       int                      `json:"total_errors"`
	ErrorRate         float64                  `json:"error_rate"`
	AvgResponseTimeMS float64                  `json:"avg_response_time_ms"`
	LLMCalls          int                      `json:"llm_calls"`
	LLMTokensUsed     int                      `json:"llm_tokens_used"`
	CacheHitRate      float64                  `json:"cache_hit_rate"`
	CacheHits         int                      `json:"cache_hits"`
	CacheMisses       int                      `json:"cache_misses"`
	EndpointStats     map[string]EndpointStats `json:"endpoint_stats"`
}

// Collector accumulates counters. Safe for concurrent use.
type Collector struct {
	mu            sync.Mutex
	requestCount  int
	errorCount    int
	totalDuration float64
	endpoints     map[string]EndpointStats
	llmCalls      int
	llmTokens     int
	cacheHits     int
	cacheMisses   int
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{endpoints: make(map[string]EndpointStats)}
}

// RecordRequest records one handled HTTP request.
func (c *Collector) RecordRequest(endpoint string, duration time.Duration, statusCode int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	seconds := duration.Seconds()
	c.requestCount++
	c.totalDuration += seconds

	stats := c.endpoints[endpoint]
	stats.Count++
	stats.TotalDuration += seconds
	c.endpoints[endpoint] = stats

	if statusCode >= 400 {
		c.errorCount++
	}
}

// RecordLLMCall records one LLM round trip.
func (c *Collector) RecordLLMCall(tokens int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.llmCalls++
	c.llmTokens += tokens
}

// RecordCacheHit records a plan cache hit.
func (c *Collector) RecordCacheHit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cacheHits++
}

// RecordCacheMiss records a plan cache miss.
func (c *Collector) RecordCacheMiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cacheMisses++
}

// Snapshot returns the current statistics.
func (c *Collector) Snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var avgDuration, errorRate, cacheHitRate float64
	if c.requestCount > 0 {
		avgDuration = c.totalDuration / float64(c.requestCount)
		errorRate = float64(c.errorCount) / float64(c.requestCount)
	}
	if lookups := c.cacheHits + c.cacheMisses; lookups > 0 {
		cacheHitRate = float64(c.cacheHits) / float64(lookups)
	}

	endpoints := make(map[string]EndpointStats, len(c.endpoints))
	for k, v := range c.endpoints {
		endpoints[k] = v
	}

	return Stats{
		TotalRequests:     c.requestCount,
		TotalErrors:       c.errorCount,
		ErrorRate:         round2(errorRate * 100),
		AvgResponseTimeMS: round2(avgDuration * 1000),
		LLMCalls:          c.llmCalls,
		LLMTokensUsed:     c.llmTokens,
		CacheHitRate:      round2(cacheHitRate * 100),
		CacheHits:         c.cacheHits,
		CacheMisses:       c.cacheMisses,
		EndpointStats:     endpoints,
	}
}

// Reset clears all counters.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requestCount = 0
	c.errorCount = 0
	c.totalDuration = 0
	c.endpoints = make(map[string]EndpointStats)
	c.llmCalls = 0
	c.llmTokens = 0
	c.cacheHits = 0
	c.cacheMisses = 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

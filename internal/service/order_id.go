package service

import (
	"strconv"
	"sync"
	"time"
)

const orderIDPrefix = "CMD"

// OrderIDGenerator issues CMD<unix-ms> ids, strictly increasing within one process.
// Ids from different processes may still collide; the store rejects those as conflicts.
type OrderIDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewOrderIDGenerator(now func() time.Time) *OrderIDGenerator {
	if now == nil {
		now = time.Now
	}
	return &OrderIDGenerator{now: now}
}

func (g *OrderIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms

	return orderIDPrefix + strconv.FormatInt(ms, 10)
}

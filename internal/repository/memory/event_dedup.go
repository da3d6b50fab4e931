// FILE: internal/repository/memory/event_dedup.go
// Package memory holds in-process caches. EventDedup is the webhook fast
// path: recently seen event ids are answered from cache before the request
// ever opens a transaction. The database ledger stays the source of truth;
// a cache miss just means the slow path decides.
package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const dedupKeyPrefix = "billing:event:"

type EventDedup struct {
	local *cache.Cache
	rdb   *redis.Client
	ttl   time.Duration
}

// NewEventDedup builds the two-level dedup cache. rdb may be nil; the local
// cache alone still absorbs same-instance redeliveries.
func NewEventDedup(rdb *redis.Client, ttl time.Duration) *EventDedup {
	return &EventDedup{
		local: cache.New(ttl, 10*time.Minute),
		rdb:   rdb,
		ttl:   ttl,
	}
}

// Seen reports whether the event id was already marked on this instance or,
// when redis is configured, by any instance. Redis errors degrade to "not
// seen" so a cache outage never blocks webhook processing.
func (d *EventDedup) Seen(ctx context.Context, eventId string) bool {
	if _, found := d.local.Get(eventId); found {
		return true
	}
	if d.rdb == nil {
		return false
	}
	n, err := d.rdb.Exists(ctx, dedupKeyPrefix+eventId).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// Mark records the event id after the ledger has accepted it.
func (d *EventDedup) Mark(ctx context.Context, eventId string) {
	d.local.Set(eventId, struct{}{}, cache.DefaultExpiration)
	if d.rdb != nil {
		d.rdb.Set(ctx, dedupKeyPrefix+eventId, 1, d.ttl)
	}
}

// Package badge keeps per-user unread badge counts warm. It subscribes to
// the notification change channel and serves cached counts, re-querying the
// database whenever a change signal arrives. The signal payload is advisory:
// the aggregator never trusts it, it only marks its cache stale.
package badge

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"irs-portal/internal/domain"
	"irs-portal/internal/repository"
)

type Aggregator struct {
	notifRepo repository.NotificationRepository
	redis     *redis.Client

	mu      sync.Mutex
	entries map[uuid.UUID]*entry
}

type entry struct {
	counts domain.UnreadCounts
	stale  bool
}

func NewAggregator(notifRepo repository.NotificationRepository, redisClient *redis.Client) *Aggregator {
	return &Aggregator{
		notifRepo: notifRepo,
		redis:     redisClient,
		entries:   make(map[uuid.UUID]*entry),
	}
}

// Run subscribes to the change channel and invalidates the cache on every
// signal until ctx is cancelled. Bursts coalesce naturally: invalidation is
// idempotent and the next Counts call does a single re-query.
func (a *Aggregator) Run(ctx context.Context) {
	if a.redis == nil {
		return
	}

	sub := a.redis.Subscribe(ctx, domain.NotificationsChangedChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			a.invalidateAll()
		}
	}
}

// Counts returns the per-type unread counts for a user, re-querying when the
// cached entry is stale. A failed re-query falls back to the last known
// counts rather than erroring the badge away.
func (a *Aggregator) Counts(ctx context.Context, userID uuid.UUID) (domain.UnreadCounts, error) {
	a.mu.Lock()
	e, ok := a.entries[userID]
	if ok && !e.stale {
		counts := cloneCounts(e.counts)
		a.mu.Unlock()
		return counts, nil
	}
	a.mu.Unlock()

	counts, err := a.notifRepo.CountUnreadByType(ctx, userID)
	if err != nil {
		if ok {
			log.Printf("Failed to refresh badge counts for user %s, serving stale: %v", userID, err)
			a.mu.Lock()
			counts := cloneCounts(e.counts)
			a.mu.Unlock()
			return counts, nil
		}
		return nil, err
	}

	a.mu.Lock()
	a.entries[userID] = &entry{counts: counts}
	a.mu.Unlock()
	return cloneCounts(counts), nil
}

// Invalidate drops the freshness of one user's entry, forcing the next
// Counts call to re-query.
func (a *Aggregator) Invalidate(userID uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if e, ok := a.entries[userID]; ok {
		e.stale = true
	}
}

func (a *Aggregator) invalidateAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, e := range a.entries {
		e.stale = true
	}
}

func cloneCounts(counts domain.UnreadCounts) domain.UnreadCounts {
	out := make(domain.UnreadCounts, len(counts))
	for k, v := range counts {
		out[k] = v
	}
	return out
}

package store

import (
	"context"
	"sync"
	"time"
)

// FeedRefresher re-fetches the activity feed on a fixed interval. Each
// tick issues its own request; a slow response may overlap the next
// tick, no coalescing is performed.
type FeedRefresher struct {
	store    *Store
	interval time.Duration
	stopCh   chan struct{}

	mu       sync.Mutex
	onUpdate func()
}

// NewFeedRefresher starts a background refresher for the store
func NewFeedRefresher(store *Store, interval time.Duration) *FeedRefresher {
	r := &FeedRefresher{
		store:    store,
		interval: interval,
		stopCh:   make(chan struct{}),
	}

	go r.pollLoop()

	return r
}

// SetOnUpdate sets a callback invoked after each successful refresh
func (r *FeedRefresher) SetOnUpdate(callback func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onUpdate = callback
}

func (r *FeedRefresher) pollLoop() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			go r.refresh()
		case <-r.stopCh:
			return
		}
	}
}

func (r *FeedRefresher) refresh() {
	if r.store.Session() == nil {
		return
	}

	if r.store.FetchActivity(context.Background()) != OutcomeApplied {
		return
	}

	r.mu.Lock()
	callback := r.onUpdate
	r.mu.Unlock()

	if callback != nil {
		callback()
	}
}

// Stop stops the refresher
func (r *FeedRefresher) Stop() {
	close(r.stopCh)
}

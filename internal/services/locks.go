package services

import (
	"sync"

	"github.com/google/uuid"
)

// SiteLocker serializes sync runs per site. Only one run may hold a
// site's lock at a time; a second acquisition attempt is rejected rather
// than queued.
type SiteLocker struct {
	mu    sync.Mutex
	inUse map[uuid.UUID]bool
}

// NewSiteLocker creates a new SiteLocker
func NewSiteLocker() *SiteLocker {
	return &SiteLocker{
		inUse: make(map[uuid.UUID]bool),
	}
}

// TryAcquire attempts to take the lock for a site. On success it returns
// a release function and true; the caller must invoke release exactly
// once when the run reaches a terminal state.
func (l *SiteLocker) TryAcquire(siteID uuid.UUID) (release func(), ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.inUse[siteID] {
		return nil, false
	}
	l.inUse[siteID] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.inUse, siteID)
			l.mu.Unlock()
		})
	}, true
}

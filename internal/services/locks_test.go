package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteLockerRejectsSecondAcquire(t *testing.T) {
	locker := NewSiteLocker()
	siteID := uuid.New()

	release, ok := locker.TryAcquire(siteID)
	require.True(t, ok)

	_, ok = locker.TryAcquire(siteID)
	assert.False(t, ok)

	release()

	release2, ok := locker.TryAcquire(siteID)
	require.True(t, ok)
	release2()
}

func TestSiteLockerIsPerSite(t *testing.T) {
	locker := NewSiteLocker()

	releaseA, ok := locker.TryAcquire(uuid.New())
	require.True(t, ok)
	defer releaseA()

	releaseB, ok := locker.TryAcquire(uuid.New())
	require.True(t, ok)
	defer releaseB()
}

func TestSiteLockerReleaseIsIdempotent(t *testing.T) {
	locker := NewSiteLocker()
	siteID := uuid.New()

	release, ok := locker.TryAcquire(siteID)
	require.True(t, ok)

	release()
	release()

	_, ok = locker.TryAcquire(siteID)
	assert.True(t, ok)
}

package storage

import (
	"context"
)

// Preference selects the backend for a sync run's image uploads
type Preference string

const (
	PreferenceLocal  Preference = "local"
	PreferenceRemote Preference = "remote"
	PreferenceAuto   Preference = "auto"
)

// Backend persists transcoded assets and returns their public URL
type Backend interface {
	// Provider returns the backend identifier recorded on Media rows.
	Provider() string

	// Store writes the asset and returns its public URL.
	Store(ctx context.Context, folder, filename string, data []byte, contentType string) (string, error)
}

// Selector resolves a run's storage preference to a backend. The remote
// backend is nil when no object store is configured.
type Selector struct {
	local  Backend
	remote Backend
}

// NewSelector creates a backend selector
func NewSelector(local, remote Backend) *Selector {
	return &Selector{local: local, remote: remote}
}

// Select resolves a preference: local forces disk, remote prefers the
// object store but falls back to disk when unconfigured, auto behaves
// like remote.
func (s *Selector) Select(pref Preference) Backend {
	switch pref {
	case PreferenceLocal:
		return s.local
	case PreferenceRemote, PreferenceAuto:
		if s.remote != nil {
			return s.remote
		}
		return s.local
	default:
		if s.remote != nil {
			return s.remote
		}
		return s.local
	}
}

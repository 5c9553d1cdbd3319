package core

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by gateways when the addressed record does not exist.
var ErrNotFound = errors.New("not found")

// ResolutionError reports that every strategy for a mandatory part of a
// composite fetch failed. No partial result accompanies it.
type ResolutionError struct {
	Resource string
	Reason   string
	Err      error
}

func (e *ResolutionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("resolve %s: %s", e.Resource, e.Reason)
	}
	return fmt.Sprintf("resolve %s: %s: %v", e.Resource, e.Reason, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// PlaybackLoadError reports that the transport could not acquire or decode
// a track. It ends the playback session.
type PlaybackLoadError struct {
	TrackID string
	URL     string
	Err     error
}

func (e *PlaybackLoadError) Error() string {
	return fmt.Sprintf("load track %s (%s): %v", e.TrackID, e.URL, e.Err)
}

func (e *PlaybackLoadError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps a failed bookmark or settings write. Callers show it
// as a transient notice; it is never retried automatically.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

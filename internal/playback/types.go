// Package playback drives the single shared audio transport: one active
// track, SINGLE or auto-advancing SEQUENCE mode, seek and rate control.
package playback

import (
	"errors"

	"nur/internal/core"
)

type State string

const (
	StateIdle    State = "IDLE"
	StateLoading State = "LOADING"
	StatePlaying State = "PLAYING"
	StatePaused  State = "PAUSED"
	StateEnded   State = "ENDED"
)

type Mode string

const (
	ModeSingle   Mode = "SINGLE"
	ModeSequence Mode = "SEQUENCE"
)

// RateCycle is the ordered set of supported playback rates.
var RateCycle = []float64{1, 1.25, 1.5, 2, 0.75}

var (
	ErrEmptySequence = errors.New("empty sequence")
	ErrInvalidIndex  = errors.New("start index out of range")
	ErrInvalidRate   = errors.New("unsupported playback rate")
	ErrInvalidTrack  = errors.New("track needs an id and a url")
)

// Track is one playable item, e.g. a verse recitation or a dua.
type Track struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// Session is a snapshot of the playback session. Rate survives Stop and is
// applied to the next Play.
type Session struct {
	TrackID         string                  `json:"trackId,omitempty"`
	SourceURL       string                  `json:"sourceUrl,omitempty"`
	Title           string                  `json:"title,omitempty"`
	Mode            Mode                    `json:"mode,omitempty"`
	PositionSeconds float64                 `json:"positionSeconds"`
	DurationSeconds float64                 `json:"durationSeconds"`
	Rate            float64                 `json:"rate"`
	State           State                   `json:"state"`
	Index           int                     `json:"index"`
	QueueLength     int                     `json:"queueLength"`
	Err             *core.PlaybackLoadError `json:"-"`
}

// Active reports whether a transport is held.
func (s Session) Active() bool {
	return s.State != StateIdle
}

// Transport is one loaded audio source. The engine is its only caller.
type Transport interface {
	Play() error
	Pause() error
	Seek(seconds float64) error
	SetRate(rate float64) error
	Release()
}

// Listener receives transport callbacks; any goroutine may call it, and
// calls may arrive synchronously from within Transport methods.
type Listener interface {
	OnMetadata(durationSeconds float64)
	OnProgress(positionSeconds, durationSeconds float64)
	OnEnded()
	OnError(err error)
}

// Opener constructs transports bound to a URL.
type Opener interface {
	Open(url string, listener Listener) (Transport, error)
}

func validRate(rate float64) bool {
	for _, r := range RateCycle {
		if r == rate {
			return true
		}
	}
	return false
}

// nextRate returns the rate after current in RateCycle.
func nextRate(current float64) float64 {
	for i, r := range RateCycle {
		if r == current {
			return RateCycle[(i+1)%len(RateCycle)]
		}
	}
	return RateCycle[0]
}

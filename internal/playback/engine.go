package playback

import (
	"sync"

	"go.uber.org/zap"

	"nur/internal/metrics"
)

// Engine owns the one audio transport. Every operation and every transport
// callback becomes an event on a single queue; one goroutine at a time drains
// it, applying transition under the lock and running effects and subscriber
// callbacks outside it. Transports and subscribers may therefore call back
// into the engine synchronously.
type Engine struct {
	opener  Opener
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu        sync.Mutex
	m         machine
	pending   []event
	draining  bool
	transport Transport
	subs      map[int]func(Session)
	nextSub   int
}

func NewEngine(opener Opener, logger *zap.Logger, m *metrics.Metrics) *Engine {
	return &Engine{
		opener:  opener,
		logger:  logger.Named("playback"),
		metrics: m,
		m:       newMachine(),
		subs:    make(map[int]func(Session)),
	}
}

// Play starts track in the given mode. Playing the active track again
// toggles pause instead of reloading.
func (e *Engine) Play(track Track, mode Mode) error {
	if track.ID == "" || track.URL == "" {
		return ErrInvalidTrack
	}
	if mode != ModeSequence {
		mode = ModeSingle
	}
	e.post(evPlay{queue: []Track{track}, index: 0, mode: mode})
	return nil
}

// PlaySequence starts tracks[start] in SEQUENCE mode; later tracks follow
// automatically in order.
func (e *Engine) PlaySequence(tracks []Track, start int) error {
	if len(tracks) == 0 {
		return ErrEmptySequence
	}
	if start < 0 || start >= len(tracks) {
		return ErrInvalidIndex
	}
	for _, t := range tracks {
		if t.ID == "" || t.URL == "" {
			return ErrInvalidTrack
		}
	}
	queue := make([]Track, len(tracks))
	copy(queue, tracks)
	e.post(evPlay{queue: queue, index: start, mode: ModeSequence})
	return nil
}

// TogglePlay pauses or resumes; it does nothing while idle or loading.
func (e *Engine) TogglePlay() {
	e.post(evToggle{})
}

// Seek moves the playhead, clamped to [0, duration].
func (e *Engine) Seek(seconds float64) {
	e.post(evSeek{seconds: seconds})
}

// SetRate applies rate now and to every later Play.
func (e *Engine) SetRate(rate float64) error {
	if !validRate(rate) {
		return ErrInvalidRate
	}
	e.post(evSetRate{rate: rate})
	return nil
}

// CycleRate moves to the next rate in RateCycle.
func (e *Engine) CycleRate() {
	e.post(evCycleRate{})
}

// Stop releases the transport and returns to IDLE. Safe to call repeatedly.
func (e *Engine) Stop() {
	e.post(evStop{})
}

// StopIfActive stops playback only if the active track is one of ids.
func (e *Engine) StopIfActive(ids ...string) {
	if len(ids) == 0 {
		return
	}
	e.post(evStopIf{ids: ids})
}

// Next skips to the following track in SEQUENCE mode, or ends the session.
func (e *Engine) Next() {
	e.post(evNext{})
}

// Snapshot returns the current session.
func (e *Engine) Snapshot() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.m.session
}

// Subscribe registers fn for every session change and returns a function
// that unregisters it.
func (e *Engine) Subscribe(fn func(Session)) func() {
	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

// Close stops playback.
func (e *Engine) Close() {
	e.Stop()
}

func (e *Engine) post(ev event) {
	e.mu.Lock()
	e.pending = append(e.pending, ev)
	if e.draining {
		e.mu.Unlock()
		return
	}
	e.draining = true

	for len(e.pending) > 0 {
		ev := e.pending[0]
		e.pending = e.pending[1:]

		prev := e.m.session
		var effects []effect
		e.m, effects = transition(e.m, ev)
		session := e.m.session
		changed := session != prev

		var subs []func(Session)
		if changed {
			subs = make([]func(Session), 0, len(e.subs))
			for _, fn := range e.subs {
				subs = append(subs, fn)
			}
		}
		e.mu.Unlock()

		if changed && session.State != prev.State {
			e.metrics.RecordTransition(string(session.State))
			e.logger.Debug("Playback transition",
				zap.String("from", string(prev.State)),
				zap.String("to", string(session.State)),
				zap.String("track", session.TrackID))
		}
		if session.Err != nil && session.Err != prev.Err {
			e.logger.Warn("Playback load failed",
				zap.String("track", session.Err.TrackID),
				zap.String("url", session.Err.URL),
				zap.Error(session.Err.Err))
		}

		for _, ef := range effects {
			e.run(ef)
		}
		for _, fn := range subs {
			fn(session)
		}

		e.mu.Lock()
	}

	e.draining = false
	e.mu.Unlock()
}

// run executes one effect. It is only called by the draining goroutine.
func (e *Engine) run(ef effect) {
	switch ef := ef.(type) {
	case efRelease:
		e.mu.Lock()
		t := e.transport
		e.transport = nil
		e.mu.Unlock()
		if t != nil {
			t.Release()
		}

	case efOpen:
		listener := &loadListener{engine: e, token: ef.token}
		t, err := e.opener.Open(ef.url, listener)
		if err != nil {
			e.post(evError{token: ef.token, err: err})
			return
		}
		e.mu.Lock()
		e.transport = t
		e.mu.Unlock()

		if err := t.SetRate(ef.rate); err != nil {
			e.logger.Warn("Failed to apply rate", zap.Float64("rate", ef.rate), zap.Error(err))
		}
		if err := t.Play(); err != nil {
			e.post(evError{token: ef.token, err: err})
		}

	case efPost:
		e.post(ef.ev)

	default:
		e.mu.Lock()
		t := e.transport
		e.mu.Unlock()
		if t == nil {
			return
		}
		var err error
		switch ef := ef.(type) {
		case efPlay:
			err = t.Play()
		case efPause:
			err = t.Pause()
		case efSeek:
			err = t.Seek(ef.seconds)
		case efSetRate:
			err = t.SetRate(ef.rate)
		}
		if err != nil {
			e.logger.Warn("Transport command failed", zap.Error(err))
		}
	}
}

// loadListener binds transport callbacks to the load that created them.
type loadListener struct {
	engine *Engine
	token  uint64
}

func (l *loadListener) OnMetadata(duration float64) {
	l.engine.post(evMetadata{token: l.token, duration: duration})
}

func (l *loadListener) OnProgress(position, duration float64) {
	l.engine.post(evProgress{token: l.token, position: position, duration: duration})
}

func (l *loadListener) OnEnded() {
	l.engine.post(evEnded{token: l.token})
}

func (l *loadListener) OnError(err error) {
	l.engine.post(evError{token: l.token, err: err})
}

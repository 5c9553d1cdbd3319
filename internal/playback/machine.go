package playback

import (
	"math"

	"nur/internal/core"
)

// machine is the full engine state. Only transition produces a new one.
type machine struct {
	session Session
	queue   []Track
	// token tags the current load; transport callbacks carrying an older
	// token are dropped.
	token uint64
}

func newMachine() machine {
	return machine{session: idleSession(RateCycle[0])}
}

func idleSession(rate float64) Session {
	return Session{State: StateIdle, Rate: rate, Index: -1}
}

type event interface{ isEvent() }

type (
	evPlay struct {
		queue []Track
		index int
		mode  Mode
	}
	evToggle    struct{}
	evSeek      struct{ seconds float64 }
	evSetRate   struct{ rate float64 }
	evCycleRate struct{}
	evStop      struct{}
	evStopIf    struct{ ids []string }
	evNext      struct{}

	evMetadata struct {
		token    uint64
		duration float64
	}
	evProgress struct {
		token              uint64
		position, duration float64
	}
	evEnded   struct{ token uint64 }
	evAdvance struct{ token uint64 }
	evError   struct {
		token uint64
		err   error
	}
)

func (evPlay) isEvent()      {}
func (evToggle) isEvent()    {}
func (evSeek) isEvent()      {}
func (evSetRate) isEvent()   {}
func (evCycleRate) isEvent() {}
func (evStop) isEvent()      {}
func (evStopIf) isEvent()    {}
func (evNext) isEvent()      {}
func (evMetadata) isEvent()  {}
func (evProgress) isEvent()  {}
func (evEnded) isEvent()     {}
func (evAdvance) isEvent()   {}
func (evError) isEvent()     {}

type effect interface{ isEffect() }

type (
	// efRelease releases the held transport, if any.
	efRelease struct{}
	// efOpen opens a transport for url, applies rate and starts it.
	efOpen struct {
		token uint64
		url   string
		rate  float64
	}
	efPlay    struct{}
	efPause   struct{}
	efSeek    struct{ seconds float64 }
	efSetRate struct{ rate float64 }
	// efPost feeds an event back into the dispatch queue.
	efPost struct{ ev event }
)

func (efRelease) isEffect() {}
func (efOpen) isEffect()    {}
func (efPlay) isEffect()    {}
func (efPause) isEffect()   {}
func (efSeek) isEffect()    {}
func (efSetRate) isEffect() {}
func (efPost) isEffect()    {}

// transition is the engine's pure state function.
func transition(m machine, ev event) (machine, []effect) {
	s := m.session

	switch ev := ev.(type) {
	case evPlay:
		track := ev.queue[ev.index]
		if s.TrackID == track.ID && s.Active() {
			return toggle(m)
		}
		return load(m, ev.queue, ev.index, ev.mode)

	case evToggle:
		return toggle(m)

	case evSeek:
		if s.State != StatePlaying && s.State != StatePaused {
			return m, nil
		}
		m.session.PositionSeconds = clamp(ev.seconds, m.session.DurationSeconds)
		return m, []effect{efSeek{seconds: m.session.PositionSeconds}}

	case evSetRate:
		return setRate(m, ev.rate)

	case evCycleRate:
		return setRate(m, nextRate(s.Rate))

	case evStop:
		if !s.Active() {
			// An explicit stop acknowledges the last load failure.
			m.session.Err = nil
			return m, nil
		}
		return stop(m, nil)

	case evStopIf:
		for _, id := range ev.ids {
			if s.Active() && s.TrackID == id {
				return stop(m, nil)
			}
		}
		return m, nil

	case evNext:
		if !s.Active() {
			return m, nil
		}
		return advance(m)

	case evMetadata:
		if ev.token != m.token || !s.Active() {
			return m, nil
		}
		m.session.DurationSeconds = nonNegative(ev.duration)
		m.session.PositionSeconds = clamp(s.PositionSeconds, m.session.DurationSeconds)
		if s.State == StateLoading {
			m.session.State = StatePlaying
		}
		return m, nil

	case evProgress:
		if ev.token != m.token || (s.State != StatePlaying && s.State != StatePaused) {
			return m, nil
		}
		if ev.duration > 0 {
			m.session.DurationSeconds = ev.duration
		}
		m.session.PositionSeconds = clamp(ev.position, m.session.DurationSeconds)
		return m, nil

	case evEnded:
		if ev.token != m.token || (s.State != StatePlaying && s.State != StatePaused) {
			return m, nil
		}
		m.session.State = StateEnded
		m.session.PositionSeconds = m.session.DurationSeconds
		return m, []effect{efPost{ev: evAdvance{token: m.token}}}

	case evAdvance:
		if ev.token != m.token || s.State != StateEnded {
			return m, nil
		}
		return advance(m)

	case evError:
		if ev.token != m.token || !s.Active() {
			return m, nil
		}
		return stop(m, &core.PlaybackLoadError{TrackID: s.TrackID, URL: s.SourceURL, Err: ev.err})
	}

	return m, nil
}

// load tears down the current transport and starts queue[index].
func load(m machine, queue []Track, index int, mode Mode) (machine, []effect) {
	track := queue[index]
	m.token++
	m.queue = queue
	m.session = Session{
		TrackID:     track.ID,
		SourceURL:   track.URL,
		Title:       track.Title,
		Mode:        mode,
		Rate:        m.session.Rate,
		State:       StateLoading,
		Index:       index,
		QueueLength: len(queue),
	}
	return m, []effect{
		efRelease{},
		efOpen{token: m.token, url: track.URL, rate: m.session.Rate},
	}
}

func toggle(m machine) (machine, []effect) {
	switch m.session.State {
	case StatePlaying:
		m.session.State = StatePaused
		return m, []effect{efPause{}}
	case StatePaused:
		m.session.State = StatePlaying
		return m, []effect{efPlay{}}
	}
	return m, nil
}

func setRate(m machine, rate float64) (machine, []effect) {
	m.session.Rate = rate
	if !m.session.Active() {
		return m, nil
	}
	return m, []effect{efSetRate{rate: rate}}
}

// advance moves to the successor in SEQUENCE mode, or ends the session.
func advance(m machine) (machine, []effect) {
	next := m.session.Index + 1
	if m.session.Mode == ModeSequence && next < len(m.queue) {
		return load(m, m.queue, next, ModeSequence)
	}
	return stop(m, nil)
}

// stop releases the transport and resets the session, keeping the rate.
// Bumping the token orphans every callback of the released transport.
func stop(m machine, loadErr *core.PlaybackLoadError) (machine, []effect) {
	if !m.session.Active() && loadErr == nil {
		return m, nil
	}
	m.token++
	m.queue = nil
	m.session = idleSession(m.session.Rate)
	m.session.Err = loadErr
	return m, []effect{efRelease{}}
}

func clamp(v, maxV float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > maxV {
		return maxV
	}
	return v
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

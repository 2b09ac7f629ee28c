// Package player sequences verse recitations: one audio handle at a time,
// toggle-off on a repeated play, and automatic advance to the next verse.
package player

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/taiwoajasa245/quran-reader/internal/quran"
)

// Handle is a single started playback.
type Handle interface {
	// Stop halts playback. It must not block on Done being drained.
	Stop() error
	// Done yields nil on natural completion or the playback error.
	Done() <-chan error
}

// Backend starts playback of an audio URL.
type Backend interface {
	Start(url string) (Handle, error)
}

// Track is one verse in the playable sequence.
type Track struct {
	Verse int
	URL   string
}

// ChapterTracks lists the verses of detail in order with reciter's audio.
func ChapterTracks(detail *quran.ChapterDetail, reciter string) []Track {
	tracks := make([]Track, 0, len(detail.Verses))
	for _, v := range detail.Verses {
		tracks = append(tracks, Track{Verse: v.Number, URL: v.AudioURL(reciter)})
	}
	return tracks
}

// State is Idle when Verse is zero, otherwise Playing(Verse).
type State struct {
	Verse int
}

func (s State) Idle() bool { return s.Verse == 0 }

// Sequencer is the Idle/Playing state machine. It is safe for concurrent
// use; handle completions arrive from watcher goroutines.
type Sequencer struct {
	backend  Backend
	onChange func(State)

	mu      sync.Mutex
	tracks  []Track
	current Handle
	state   State
	gen     uint64 // bumped on every transition

	notifyMu sync.Mutex
	notified uint64
}

type Option func(*Sequencer)

// WithOnChange registers a callback invoked after state transitions, in
// transition order. A transition overtaken by a newer one before its callback
// ran is not reported. Calls are serialised and run without the state lock;
// fn may read State but must not start or stop playback.
func WithOnChange(fn func(State)) Option {
	return func(s *Sequencer) { s.onChange = fn }
}

func NewSequencer(backend Backend, opts ...Option) *Sequencer {
	s := &Sequencer{backend: backend}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load installs the ordered tracks of a chapter and stops any playback.
func (s *Sequencer) Load(tracks []Track) {
	s.mu.Lock()
	s.tracks = append([]Track(nil), tracks...)
	changed := s.release()
	st, gen := s.state, s.transitionLocked()
	s.mu.Unlock()

	if changed {
		s.notify(st, gen)
	}
}

// Play starts verse, or stops it when it is already the one playing.
func (s *Sequencer) Play(verse int) State {
	s.mu.Lock()
	if s.state.Verse == verse && s.current != nil {
		s.release()
		st, gen := s.state, s.transitionLocked()
		s.mu.Unlock()
		s.notify(st, gen)
		return st
	}

	s.release()
	h := s.startLocked(verse)
	st, gen := s.state, s.transitionLocked()
	s.mu.Unlock()

	s.notify(st, gen)
	s.watch(h)
	return st
}

// Stop returns to Idle.
func (s *Sequencer) Stop() State {
	s.mu.Lock()
	changed := s.release()
	st, gen := s.state, s.transitionLocked()
	s.mu.Unlock()

	if changed {
		s.notify(st, gen)
	}
	return st
}

// Close stops playback and forgets the loaded tracks.
func (s *Sequencer) Close() {
	s.Load(nil)
}

// Completed reports natural completion of h. Stale handles are ignored.
func (s *Sequencer) Completed(h Handle) State {
	s.mu.Lock()
	if h == nil || h != s.current {
		st := s.state
		s.mu.Unlock()
		return st
	}

	finished := s.state.Verse
	s.current = nil
	s.state = State{}

	var next Handle
	if track, ok := s.successor(finished); ok {
		next = s.startLocked(track.Verse)
	}
	st, gen := s.state, s.transitionLocked()
	s.mu.Unlock()

	s.notify(st, gen)
	s.watch(next)
	return st
}

// Failed reports a playback error on h. Stale handles are ignored.
func (s *Sequencer) Failed(h Handle, err error) State {
	s.mu.Lock()
	if h == nil || h != s.current {
		st := s.state
		s.mu.Unlock()
		return st
	}

	log.Warn().Err(err).Int("verse", s.state.Verse).Msg("verse playback failed")
	s.release()
	st, gen := s.state, s.transitionLocked()
	s.mu.Unlock()

	s.notify(st, gen)
	return st
}

// State returns the current state.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// startLocked binds a new handle to verse. On any failure the state is Idle
// and the returned handle is nil.
func (s *Sequencer) startLocked(verse int) Handle {
	track, ok := s.track(verse)
	if !ok || track.URL == "" {
		log.Warn().Int("verse", verse).Msg("no audio for verse")
		s.state = State{}
		return nil
	}

	h, err := s.backend.Start(track.URL)
	if err != nil {
		log.Warn().Err(err).Int("verse", verse).Msg("verse playback failed to start")
		s.state = State{}
		return nil
	}

	s.current = h
	s.state = State{Verse: verse}
	return h
}

// release stops the active handle, if any, and goes Idle.
func (s *Sequencer) release() bool {
	if s.current == nil && s.state.Idle() {
		return false
	}
	if s.current != nil {
		if err := s.current.Stop(); err != nil {
			log.Debug().Err(err).Msg("stopping playback")
		}
	}
	s.current = nil
	s.state = State{}
	return true
}

// watch turns the end of h into Completed or Failed. It is started only
// after the Playing state for h has been reported, so observers see every
// transition in order.
func (s *Sequencer) watch(h Handle) {
	if h == nil {
		return
	}
	go func() {
		if err := <-h.Done(); err != nil {
			s.Failed(h, err)
			return
		}
		s.Completed(h)
	}()
}

func (s *Sequencer) track(verse int) (Track, bool) {
	for _, t := range s.tracks {
		if t.Verse == verse {
			return t, true
		}
	}
	return Track{}, false
}

func (s *Sequencer) successor(verse int) (Track, bool) {
	for i, t := range s.tracks {
		if t.Verse == verse && i+1 < len(s.tracks) {
			return s.tracks[i+1], true
		}
	}
	return Track{}, false
}

func (s *Sequencer) transitionLocked() uint64 {
	s.gen++
	return s.gen
}

// notify reports st unless a later transition has already been reported.
func (s *Sequencer) notify(st State, gen uint64) {
	if s.onChange == nil {
		return
	}
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if gen <= s.notified {
		return
	}
	s.notified = gen
	s.onChange(st)
}

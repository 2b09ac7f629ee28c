package player

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/taiwoajasa245/quran-reader/internal/quran"
)

type fakeHandle struct {
	url  string
	once sync.Once
	done chan error

	mu      sync.Mutex
	stopped bool
}

func (h *fakeHandle) Stop() error {
	h.mu.Lock()
	h.stopped = true
	h.mu.Unlock()
	h.once.Do(func() { close(h.done) })
	return nil
}

func (h *fakeHandle) Done() <-chan error { return h.done }

func (h *fakeHandle) isStopped() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stopped
}

type fakeBackend struct {
	mu      sync.Mutex
	handles []*fakeHandle
	fail    map[string]bool
}

func (b *fakeBackend) Start(url string) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail[url] {
		return nil, errors.New("unsupported stream")
	}
	h := &fakeHandle{url: url, done: make(chan error)}
	b.handles = append(b.handles, h)
	return h, nil
}

func (b *fakeBackend) last() *fakeHandle {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handles[len(b.handles)-1]
}

func (b *fakeBackend) active() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, h := range b.handles {
		if !h.isStopped() {
			n++
		}
	}
	return n
}

func tracks(verses ...int) []Track {
	out := make([]Track, 0, len(verses))
	for _, v := range verses {
		out = append(out, Track{Verse: v, URL: fmt.Sprintf("https://cdn.test/%03d.mp3", v)})
	}
	return out
}

func TestSequenceAdvancesAndEnds(t *testing.T) {
	backend := &fakeBackend{}
	seq := NewSequencer(backend)
	seq.Load(tracks(1, 2, 3))

	assert.Equal(t, State{Verse: 1}, seq.Play(1))
	h1 := backend.last()
	assert.Equal(t, "https://cdn.test/001.mp3", h1.url)

	assert.Equal(t, State{Verse: 2}, seq.Completed(h1))
	h2 := backend.last()
	assert.Equal(t, "https://cdn.test/002.mp3", h2.url)

	assert.Equal(t, State{Verse: 3}, seq.Completed(h2))
	h3 := backend.last()

	st := seq.Completed(h3)
	assert.True(t, st.Idle())
	assert.Len(t, backend.handles, 3, "no playback after the last verse")
}

func TestPlaySameVerseStops(t *testing.T) {
	backend := &fakeBackend{}
	seq := NewSequencer(backend)
	seq.Load(tracks(1, 2))

	seq.Play(2)
	h := backend.last()

	st := seq.Play(2)
	assert.True(t, st.Idle())
	assert.True(t, h.isStopped())
	assert.Equal(t, 0, backend.active())
}

func TestPlayOtherVerseReplacesHandle(t *testing.T) {
	backend := &fakeBackend{}
	seq := NewSequencer(backend)
	seq.Load(tracks(1, 2, 3))

	seq.Play(1)
	first := backend.last()
	st := seq.Play(3)

	assert.Equal(t, State{Verse: 3}, st)
	assert.True(t, first.isStopped())
	assert.Equal(t, 1, backend.active(), "exactly one handle plays")
}

func TestStaleCompletionIgnored(t *testing.T) {
	backend := &fakeBackend{}
	seq := NewSequencer(backend)
	seq.Load(tracks(1, 2, 3))

	seq.Play(1)
	stale := backend.last()
	seq.Play(3)
	current := backend.last()

	assert.Equal(t, State{Verse: 3}, seq.Completed(stale))
	assert.Equal(t, State{Verse: 3}, seq.Failed(stale, errors.New("late")))
	assert.False(t, current.isStopped())
}

func TestFailureGoesIdle(t *testing.T) {
	backend := &fakeBackend{}
	seq := NewSequencer(backend)
	seq.Load(tracks(1, 2))

	seq.Play(1)
	h := backend.last()

	st := seq.Failed(h, errors.New("decoder error"))
	assert.True(t, st.Idle())
	assert.Len(t, backend.handles, 1, "a failure does not advance")
}

func TestStartFailureGoesIdle(t *testing.T) {
	backend := &fakeBackend{fail: map[string]bool{"https://cdn.test/002.mp3": true}}
	seq := NewSequencer(backend)
	seq.Load(tracks(1, 2))

	seq.Play(1)
	st := seq.Completed(backend.last())
	assert.True(t, st.Idle())

	assert.True(t, seq.Play(2).Idle())
}

func TestUnknownVerseStaysIdle(t *testing.T) {
	backend := &fakeBackend{}
	seq := NewSequencer(backend)
	seq.Load(tracks(1))

	assert.True(t, seq.Play(9).Idle())
	assert.Empty(t, backend.handles)
}

func TestStopAndLoadRelease(t *testing.T) {
	backend := &fakeBackend{}
	seq := NewSequencer(backend)
	seq.Load(tracks(1, 2))

	seq.Play(1)
	h := backend.last()
	assert.True(t, seq.Stop().Idle())
	assert.True(t, h.isStopped())

	seq.Play(2)
	h = backend.last()
	seq.Load(tracks(5))
	assert.True(t, seq.State().Idle())
	assert.True(t, h.isStopped())

	seq.Close()
	assert.True(t, seq.Play(5).Idle(), "closed sequencer has no tracks")
}

func TestOnChangeReportsTransitions(t *testing.T) {
	var (
		mu     sync.Mutex
		states []State
	)
	backend := &fakeBackend{}
	seq := NewSequencer(backend, WithOnChange(func(st State) {
		mu.Lock()
		states = append(states, st)
		mu.Unlock()
	}))
	seq.Load(tracks(1, 2))

	seq.Play(1)
	seq.Completed(backend.last())
	seq.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, states, 3)
	assert.Equal(t, []State{{Verse: 1}, {Verse: 2}, {}}, states)
}

func TestWatcherAdvancesOnNaturalEnd(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	backend := &fakeBackend{}
	changes := make(chan State, 4)
	seq := NewSequencer(backend, WithOnChange(func(st State) { changes <- st }))
	seq.Load(tracks(1, 2))

	seq.Play(1)
	require.Equal(t, State{Verse: 1}, <-changes)

	h := backend.last()
	h.once.Do(func() { close(h.done) })

	assert.Equal(t, State{Verse: 2}, <-changes)

	seq.Close()
	assert.Equal(t, State{}, <-changes)
}

func TestChapterTracksUsesReciter(t *testing.T) {
	detail := &quran.ChapterDetail{Verses: []quran.Verse{
		{Number: 1, Audio: quran.AudioSet{"01": "a/1", "05": "e/1"}},
		{Number: 2, Audio: quran.AudioSet{"01": "a/2"}},
	}}

	got := ChapterTracks(detail, "05")
	assert.Equal(t, []Track{{Verse: 1, URL: "e/1"}, {Verse: 2, URL: "a/2"}}, got)
}

func TestOnChangeSkipsOvertakenTransitions(t *testing.T) {
	var got []State
	seq := NewSequencer(&fakeBackend{}, WithOnChange(func(st State) { got = append(got, st) }))

	// Playing(3) was reached after Playing(2) but its callback ran first.
	seq.notify(State{Verse: 3}, 2)
	seq.notify(State{Verse: 2}, 1)
	seq.notify(State{}, 3)

	assert.Equal(t, []State{{Verse: 3}, {}}, got)
}

func TestOnChangeEndsOnFinalState(t *testing.T) {
	var (
		mu   sync.Mutex
		last State
	)
	backend := &fakeBackend{}
	seq := NewSequencer(backend, WithOnChange(func(st State) {
		mu.Lock()
		last = st
		mu.Unlock()
	}))
	seq.Load(tracks(1, 2, 3, 4, 5))
	seq.Play(1)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			seq.Completed(backend.last())
		}()
		go func(v int) {
			defer wg.Done()
			seq.Play(v)
		}(i%5 + 1)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, seq.State(), last)
}

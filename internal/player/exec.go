package player

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// DefaultCommand plays a URL headless through mpv.
const DefaultCommand = "mpv --no-video --really-quiet"

// ExecBackend plays audio by spawning an external player with the URL as
// its last argument. Exit status zero means the recitation finished.
type ExecBackend struct {
	name string
	args []string
}

func NewExecBackend(command string) (*ExecBackend, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		fields = strings.Fields(DefaultCommand)
	}
	name, err := exec.LookPath(fields[0])
	if err != nil {
		return nil, fmt.Errorf("audio player %q: %w", fields[0], err)
	}
	return &ExecBackend{name: name, args: fields[1:]}, nil
}

func (b *ExecBackend) Start(url string) (Handle, error) {
	args := append(append([]string(nil), b.args...), url)
	cmd := exec.Command(b.name, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", b.name, err)
	}

	p := &process{cmd: cmd, done: make(chan error, 1)}
	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		stopped := p.stopped
		p.mu.Unlock()
		if stopped {
			err = errStopped
		}
		p.done <- err
		close(p.done)
	}()
	return p, nil
}

var errStopped = errors.New("playback stopped")

type process struct {
	cmd  *exec.Cmd
	done chan error

	mu      sync.Mutex
	stopped bool
}

func (p *process) Stop() error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	p.mu.Unlock()

	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

func (p *process) Done() <-chan error { return p.done }

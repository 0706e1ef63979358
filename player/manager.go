package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/micplay/micplay/log"
)

// Manager owns at most one player process and the state describing it.
// Every operation runs under a single mutex; only monitors wait outside it.
type Manager struct {
	resolver *Resolver
	binary   string
	device   string
	grace    time.Duration
	now      func() time.Time

	mu    sync.Mutex
	state state
	proc  *process
}

// NewManager validates the root directory and returns an idle Manager.
func NewManager(opts Options) (*Manager, error) {
	resolver, err := NewResolver(opts.RootDir, opts.DefaultFormat)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		resolver: resolver,
		binary:   opts.Binary,
		device:   opts.OutputDevice,
		grace:    opts.GracePeriod,
		now:      opts.Now,
		state:    idleState(),
	}

	if m.binary == "" {
		m.binary = "ffplay"
	}
	if m.grace <= 0 {
		m.grace = GracePeriod
	}
	if m.now == nil {
		m.now = time.Now
	}

	return m, nil
}

// Root returns the canonical audio root directory.
func (m *Manager) Root() string {
	return m.resolver.Root()
}

// Play supersedes whatever is playing with req.
func (m *Manager) Play(req PlayRequest) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if req.StartOffset < 0 {
		return m.fail(newError(KindInvalidInput, nil, "start_offset_ms must be non-negative."))
	}

	target, err := m.resolver.Resolve(req.Filename)
	if err != nil {
		return m.fail(err)
	}

	if _, err := os.Stat(target.Absolute); err != nil {
		m.stopCurrent()
		m.state = idleState()
		return m.fail(newError(KindFileNotFound, err, "File '%s' not found under the audio root.", target.Relative))
	}

	m.stopCurrent()

	argv := Command(m.binary, m.device, target.Absolute, req.Loop, req.StartOffset)
	proc, err := spawn(argv)
	if err != nil {
		log.Errorf("spawn %s: %v", m.binary, err)
		m.state = errorState()
		return m.fail(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	proc.cancelMonitor = cancel
	m.proc = proc
	m.state = playingState(target.Relative, m.now(), req.StartOffset)
	go m.monitor(ctx, proc)

	log.Infof("playing %s (pid %d, offset %s, loop %t)", target.Relative, proc.pid(), req.StartOffset, req.Loop)

	message := fmt.Sprintf("Playing '%s' from %d ms.", target.Relative, req.StartOffset.Milliseconds())
	if req.Loop {
		message += " Looping until stopped."
	}
	return m.result(message), nil
}

// Stop always succeeds and leaves the manager stopped.
func (m *Manager) Stop() (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hadProcess := m.proc != nil
	m.stopCurrent()
	m.state = stoppedState()

	if !hadProcess {
		return m.result("No playback to stop."), nil
	}
	return m.result("Playback stopped."), nil
}

// Status reports the current state without changing it.
func (m *Manager) Status() (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.result(m.state.statusMessage()), nil
}

// Snapshot is Status without the message.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.snapshot(m.now())
}

// Close stops any running player. The manager stays usable afterwards.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.proc != nil {
		m.stopCurrent()
		m.state = stoppedState()
	}
	return nil
}

// stopCurrent must be called with mu held. It returns only once the
// previous process is gone, so a spawn never overlaps an older player.
func (m *Manager) stopCurrent() {
	proc := m.proc
	if proc == nil {
		return
	}

	if proc.shutdown(m.grace) {
		log.Warnf("player pid %d ignored termination for %s, killed", proc.pid(), m.grace)
	}

	m.proc = nil
	proc.cancelMonitor()
}

// monitor waits for proc to exit outside the lock and reconciles state only
// if proc is still the current process.
func (m *Manager) monitor(ctx context.Context, proc *process) {
	select {
	case <-proc.exited:
	case <-ctx.Done():
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if ctx.Err() != nil || m.proc != proc {
		return
	}

	m.proc = nil
	proc.cancelMonitor()
	if m.state.status == StatusPlaying {
		m.state = stoppedState()
	}
	log.Infof("player pid %d exited on its own", proc.pid())
}

func (m *Manager) result(message string) Result {
	return Result{
		Message: message,
		State:   m.state.snapshot(m.now()),
	}
}

func (m *Manager) fail(err error) (Result, error) {
	message := err.Error()
	var perr *Error
	if errors.As(err, &perr) {
		message = perr.Message
	}
	return m.result(message), err
}

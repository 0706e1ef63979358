package player

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"time"
)

// Command builds the ffplay argv: no video window, exit at end of stream,
// errors-only logging, optional seek and infinite loop, then the device and input.
func Command(binary, device, path string, loop bool, offset time.Duration) []string {
	args := []string{
		binary,
		"-nodisp",
		"-autoexit",
		"-vn",
		"-loglevel", "error",
	}

	if offset > 0 {
		args = append(args, "-ss", fmt.Sprintf("%.3f", offset.Seconds()))
	}

	if loop {
		args = append(args, "-loop", "0")
	}

	args = append(args, "-device", device, "-i", path)
	return args
}

// process is the one live player. Identity of the pointer binds its monitor.
type process struct {
	cmd    *exec.Cmd
	exited chan struct{} // closed once the reaper has collected the exit status

	cancelMonitor context.CancelFunc
}

// spawn starts argv with every standard stream discarded.
func spawn(argv []string) (*process, error) {
	cmd := exec.Command(argv[0], argv[1:]...)

	// Own process group so a kill reaches anything the player forks.
	cmd.SysProcAttr = sysProcAttr()

	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, newError(KindPlayerUnavailable, err, "ffplay not found at '%s'.", argv[0])
		}
		return nil, newError(KindLaunchFailed, err, "Failed to start playback.")
	}

	p := &process{
		cmd:    cmd,
		exited: make(chan struct{}),
	}

	// Reap the process so it never lingers as a zombie.
	go func() {
		_ = cmd.Wait()
		close(p.exited)
	}()

	return p, nil
}

func (p *process) pid() int {
	return p.cmd.Process.Pid
}

// alive reports whether the reaper has not yet observed an exit.
func (p *process) alive() bool {
	select {
	case <-p.exited:
		return false
	default:
		return true
	}
}

// shutdown terminates gracefully and escalates to a kill after grace.
// It returns true when the kill was necessary.
func (p *process) shutdown(grace time.Duration) (killed bool) {
	if !p.alive() {
		return false
	}

	_ = terminateProcess(p.cmd)

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-p.exited:
		return false
	case <-timer.C:
	}

	_ = killProcess(p.cmd)
	<-p.exited
	return true
}

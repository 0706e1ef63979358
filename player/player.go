// Package player owns the external audio player process that feeds the virtual microphone.
//
// A single Manager serializes play, stop and status requests, keeps track of the
// playback state and reconciles it when the player exits on its own.
package player

import "time"

// GracePeriod is how long a terminated player may take to exit before it is killed.
const GracePeriod = 3 * time.Second

// Status enumerates the playback lifecycle states.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPlaying Status = "playing"
	StatusStopped Status = "stopped"
	StatusError   Status = "error"
)

// Options are the immutable inputs of a Manager.
type Options struct {
	// RootDir is the sandbox every requested file must live in.
	RootDir string

	// OutputDevice is passed to the player as its output device.
	OutputDevice string

	// DefaultFormat is the extension appended to names given without one.
	DefaultFormat string

	// Binary is the path or name of the ffplay executable.
	Binary string

	// GracePeriod overrides the termination grace period. Zero means GracePeriod.
	GracePeriod time.Duration

	// Now overrides the wall clock. Nil means time.Now.
	Now func() time.Time
}

// PlayRequest describes a single playback session.
type PlayRequest struct {
	// Filename is relative to the root directory.
	Filename string

	// Loop plays the file until stopped.
	Loop bool

	// StartOffset seeks into the file before playing.
	StartOffset time.Duration
}

// Result is returned by every Manager operation, successful or not.
type Result struct {
	Message string   `json:"message"`
	State   Snapshot `json:"state"`
}

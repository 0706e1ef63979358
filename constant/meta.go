// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Micplay is the canonical application identifier used for filesystem paths and CLI branding.
	Micplay = "micplay"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// ToolName is the name of the remote-control tool exposed to protocol clients.
	ToolName = "audio_playback"

	// ToolDescription is shown to protocol clients listing the available tools.
	ToolDescription = "Control playback of local audio files for automated testing. Audio is " +
		"played via a virtual audio output device that is routed into the Android " +
		"emulator's microphone. Use this to simulate a human speaking into the mic " +
		"by playing prerecorded files."
)

// Build metadata, overridden with -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

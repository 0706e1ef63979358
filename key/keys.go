// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Audio Source - these keys locate the sandboxed audio files and the player that renders them.
const (
	AudioRootDir       = "audio.root_dir"
	AudioOutputDevice  = "audio.output_device"
	AudioDefaultFormat = "audio.default_format"
	AudioFfplayPath    = "audio.ffplay_path"
)

// Protocol Server - these keys govern how remote clients reach the playback tool.
const (
	ServerTransport              = "server.transport"
	ServerHost                   = "server.host"
	ServerPort                   = "server.port"
	ServerPath                   = "server.path"
	ServerDNSRebindingProtection = "server.dns_rebinding_protection"
	ServerAllowedHosts           = "server.allowed_hosts"
)

// File Listing - these keys bound the directory listing collaborator.
const (
	ListDefaultLimit = "list.default_limit"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-server application behavior.
const (
	CliColored   = "cli.colored"
	IconsVariant = "icons.variant"
)

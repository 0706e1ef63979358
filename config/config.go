// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/micplay/micplay/constant"
	"github.com/micplay/micplay/filesystem"
	"github.com/micplay/micplay/key"
	"github.com/micplay/micplay/where"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvConfigFile names a JSON configuration file that takes precedence over the default locations.
const EnvConfigFile = "AUDIO_PLAYBACK_CONFIG"

// Supported protocol transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// EnvKeyReplacer is a strings.Replacer used to normalize configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Error reports missing or invalid configuration.
type Error struct {
	Key    string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", Default[e.Key].Env, e.Reason)
}

// Setup initializes the global configuration state: a .env file in the working
// directory, environment bindings, factory defaults and the JSON config file.
// Environment variables win over the file.
func Setup() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	viper.SetFs(filesystem.API())
	viper.SetConfigType("json")

	if custom, ok := os.LookupEnv(EnvConfigFile); ok && custom != "" {
		viper.SetConfigFile(custom)
	} else {
		viper.SetConfigName(constant.Micplay)
		viper.AddConfigPath(where.Config())
		viper.AddConfigPath(filepath.Join(".", "config"))
	}

	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for name, field := range Default {
		lo.Must0(viper.BindEnv(name, field.Env))
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		// An explicitly named file that is missing is not an error either; env may carry everything.
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	return nil
}

// Settings is the validated, immutable view of the configuration consumed at construction time.
type Settings struct {
	RootDir       string
	OutputDevice  string
	DefaultFormat string
	FfplayPath    string

	Transport              string
	Host                   string
	Port                   int
	Path                   string
	DNSRebindingProtection bool
	AllowedHosts           []string

	ListLimit int
}

// Addr is the host:port the http transport listens on.
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads the current configuration and validates it.
func Load() (*Settings, error) {
	s := &Settings{
		RootDir:                strings.TrimSpace(viper.GetString(key.AudioRootDir)),
		OutputDevice:           strings.TrimSpace(viper.GetString(key.AudioOutputDevice)),
		DefaultFormat:          strings.TrimSpace(viper.GetString(key.AudioDefaultFormat)),
		FfplayPath:             strings.TrimSpace(viper.GetString(key.AudioFfplayPath)),
		Transport:              strings.ToLower(strings.TrimSpace(viper.GetString(key.ServerTransport))),
		Host:                   viper.GetString(key.ServerHost),
		Port:                   viper.GetInt(key.ServerPort),
		Path:                   viper.GetString(key.ServerPath),
		DNSRebindingProtection: viper.GetBool(key.ServerDNSRebindingProtection),
		AllowedHosts:           splitList(viper.GetStringSlice(key.ServerAllowedHosts)),
		ListLimit:              viper.GetInt(key.ListDefaultLimit),
	}

	if s.RootDir == "" {
		return nil, &Error{Key: key.AudioRootDir, Reason: "is required"}
	}

	root, err := expandHome(s.RootDir)
	if err != nil {
		return nil, &Error{Key: key.AudioRootDir, Reason: err.Error()}
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return nil, &Error{Key: key.AudioRootDir, Reason: err.Error()}
	}
	s.RootDir = root

	exists, err := filesystem.API().Exists(root)
	if err != nil || !exists {
		return nil, &Error{Key: key.AudioRootDir, Reason: fmt.Sprintf("'%s' does not exist", root)}
	}
	if isDir, err := filesystem.API().IsDir(root); err != nil || !isDir {
		return nil, &Error{Key: key.AudioRootDir, Reason: fmt.Sprintf("'%s' is not a directory", root)}
	}

	if s.OutputDevice == "" {
		return nil, &Error{Key: key.AudioOutputDevice, Reason: "is required"}
	}

	if s.DefaultFormat == "" {
		s.DefaultFormat = "wav"
	}
	if s.FfplayPath == "" {
		s.FfplayPath = "ffplay"
	}

	switch s.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return nil, &Error{Key: key.ServerTransport, Reason: fmt.Sprintf("unknown transport %q", s.Transport)}
	}

	if s.Port <= 0 || s.Port > 65535 {
		return nil, &Error{Key: key.ServerPort, Reason: fmt.Sprintf("invalid port %d", s.Port)}
	}
	if !strings.HasPrefix(s.Path, "/") {
		s.Path = "/" + s.Path
	}

	return s, nil
}

// splitList accepts both JSON arrays and comma separated environment values.
func splitList(values []string) []string {
	return lo.Compact(lo.FlatMap(values, func(v string, _ int) []string {
		return lo.Map(strings.Split(v, ","), func(s string, _ int) string {
			return strings.TrimSpace(s)
		})
	}))
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/micplay/micplay/color"
	"github.com/micplay/micplay/key"
	"github.com/micplay/micplay/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Env         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Env         string `json:"env"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Env:         f.Env,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds the environment variable names bound to configuration keys.
var EnvExposed []string

func init() {
	register := func(k, env string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Env: env, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, env)
	}

	register(key.AudioRootDir, "AUDIO_ROOT_DIR", "", "Directory holding the audio files.\nRequired. Requested filenames may not escape it")
	register(key.AudioOutputDevice, "AUDIO_OUTPUT_DEVICE", "", "Output device the player renders into,\nusually the virtual microphone sink. Required")
	register(key.AudioDefaultFormat, "DEFAULT_FORMAT", "wav", "Extension appended to filenames given without one")
	register(key.AudioFfplayPath, "FFPLAY_PATH", "ffplay", "Path or name of the ffplay executable")
	register(key.ServerTransport, "AUDIO_PLAYBACK_TRANSPORT", TransportStdio, "Protocol transport.\nAvailable options are: stdio, http")
	register(key.ServerHost, "AUDIO_PLAYBACK_HTTP_HOST", "127.0.0.1", "Address the http transport listens on")
	register(key.ServerPort, "AUDIO_PLAYBACK_HTTP_PORT", 8765, "Port the http transport listens on")
	register(key.ServerPath, "AUDIO_PLAYBACK_HTTP_PATH", "/mcp", "Endpoint path of the http transport")
	register(key.ServerDNSRebindingProtection, "AUDIO_PLAYBACK_DNS_REBINDING_PROTECTION", true, "Reject http requests whose Host header is not allowed")
	register(key.ServerAllowedHosts, "AUDIO_PLAYBACK_ALLOWED_HOSTS", []string{"127.0.0.1", "localhost"}, "Hosts accepted when DNS rebinding protection is on.\nPorts are ignored")
	register(key.ListDefaultLimit, "AUDIO_PLAYBACK_LIST_LIMIT", 200, "Maximum number of files returned by a listing")
	register(key.LogsWrite, "MICPLAY_LOGS_WRITE", false, "Write logs")
	register(key.LogsLevel, "MICPLAY_LOGS_LEVEL", "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, "MICPLAY_LOGS_JSON", false, "Use json format for logs")
	register(key.CliColored, "MICPLAY_CLI_COLORED", true, "Enable colored CLI output")
	register(key.IconsVariant, "MICPLAY_ICONS_VARIANT", "plain", "Icons variant.\nAvailable options are: emoji, plain")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"blue":     style.Fg(color.Blue),
	"purple":   style.Fg(color.Purple),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))

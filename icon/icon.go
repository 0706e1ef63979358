// Package icon provides a multi-variant rendering engine for CLI feedback symbols.
package icon

import (
	"github.com/micplay/micplay/key"
	"github.com/spf13/viper"
)

// Visual Variant Constants - these define the supported aesthetic styles for icon rendering.
const (
	emoji = "emoji"
	plain = "plain"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, plain}
}

// Icon identifies a symbol in the registry.
type Icon int

const (
	Fail Icon = iota
	Success
	Play
	Stop
	Audio
)

// iconDef encapsulates the visual representations of a single symbol across all supported variants.
type iconDef struct {
	emoji string
	plain string
}

var icons = map[Icon]*iconDef{
	Fail:    {emoji: "💀", plain: "✖"},
	Success: {emoji: "🎉", plain: "✔"},
	Play:    {emoji: "🔊", plain: "▶"},
	Stop:    {emoji: "🔇", plain: "■"},
	Audio:   {emoji: "🎵", plain: "♪"},
}

// Get retrieves the visual representation for the receiver based on the global icons variant configuration.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case plain:
		return d.plain
	default:
		return ""
	}
}

// Get returns the rendered string for a specified Icon identifier from the global registry.
func Get(i Icon) string {
	return icons[i].Get()
}

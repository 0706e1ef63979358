package player

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Resolved is a validated request target.
type Resolved struct {
	// Relative is the normalized, slash separated path used for display and state.
	Relative string

	// Absolute is the canonical path handed to the player.
	Absolute string
}

// Resolver maps caller supplied names onto files inside a sandboxed root.
type Resolver struct {
	root          string
	defaultFormat string
}

// NewResolver canonicalizes root once so every later containment check compares like with like.
func NewResolver(root, defaultFormat string) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}

	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}

	return &Resolver{
		root:          canon,
		defaultFormat: strings.TrimPrefix(strings.TrimSpace(defaultFormat), "."),
	}, nil
}

// Root returns the canonical root directory.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve validates name and returns both of its forms.
func (r *Resolver) Resolve(name string) (Resolved, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Resolved{}, newError(KindInvalidInput, nil, "Filename is required for playback.")
	}

	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return Resolved{}, newError(KindInvalidInput, nil, "Filename must be a relative path under the audio root.")
	}

	if hasParentSegment(name) {
		return Resolved{}, newError(KindInvalidInput, nil, "Filename must remain inside the audio root.")
	}

	relative := filepath.Clean(filepath.FromSlash(name))
	if filepath.Ext(relative) == "" && r.defaultFormat != "" {
		relative += "." + r.defaultFormat
	}

	resolved := canonical(filepath.Join(r.root, relative))
	if !within(r.root, resolved) {
		return Resolved{}, newError(KindInvalidInput, nil, "Filename must remain inside the audio root.")
	}

	return Resolved{
		Relative: filepath.ToSlash(relative),
		Absolute: resolved,
	}, nil
}

func hasParentSegment(name string) bool {
	for _, segment := range strings.FieldsFunc(name, func(r rune) bool {
		return r == '/' || r == filepath.Separator
	}) {
		if segment == ".." {
			return true
		}
	}
	return false
}

// canonical resolves symlinks in the longest existing prefix of path and
// appends the remainder unchanged, so missing files still get a stable answer.
func canonical(path string) string {
	path = filepath.Clean(path)
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}

	parent := filepath.Dir(path)
	if parent == path {
		return path
	}
	return filepath.Join(canonical(parent), filepath.Base(path))
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

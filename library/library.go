// Package library lists the audio files available under the playback root.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/micplay/micplay/filesystem"
	"github.com/micplay/micplay/util"
	"github.com/samber/lo"
	"github.com/spf13/afero"
)

// DefaultLimit caps listings when the caller does not ask for a specific size.
const DefaultLimit = 200

// File is a single playable entry.
type File struct {
	// Path is relative to the root, slash separated, ready to be passed to play.
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	Size      string `json:"size"`
}

// Options narrow a listing.
type Options struct {
	// Limit is the maximum number of files returned. Zero or less means DefaultLimit.
	Limit int

	// Query keeps only paths fuzzily matching it, case-insensitively.
	Query string

	// Extensions keeps only files with one of these extensions, given with or without the dot.
	Extensions []string
}

// Listing is the result of List.
type Listing struct {
	Root      string  `json:"root"`
	Files     []*File `json:"files"`
	Total     int     `json:"total"`
	Truncated bool    `json:"truncated"`
}

// List walks root and returns its visible regular files in lexical order.
func List(root string, opts Options) (*Listing, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	exts := lo.Map(opts.Extensions, func(e string, _ int) string {
		return "." + strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
	})

	var files []*File
	err := afero.Walk(filesystem.API().Fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if path != root && strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if len(exts) > 0 && !lo.Contains(exts, strings.ToLower(filepath.Ext(rel))) {
			return nil
		}

		if opts.Query != "" && !fuzzy.MatchFold(opts.Query, rel) {
			return nil
		}

		files = append(files, &File{
			Path:      rel,
			SizeBytes: info.Size(),
			Size:      humanize.IBytes(uint64(info.Size())), //nolint:gosec // sizes of regular files are non-negative
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	listing := &Listing{
		Root:  root,
		Files: files,
		Total: len(files),
	}
	listing.Files = files[:util.Min(limit, len(files))]
	listing.Truncated = len(files) > limit
	if listing.Files == nil {
		listing.Files = []*File{}
	}

	return listing, nil
}

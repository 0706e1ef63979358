// Package server adapts the playback manager to remote protocol clients.
package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/micplay/micplay/library"
	"github.com/micplay/micplay/log"
	"github.com/micplay/micplay/player"
)

// Playback is the part of player.Manager the dispatcher drives.
type Playback interface {
	Play(req player.PlayRequest) (player.Result, error)
	Stop() (player.Result, error)
	Status() (player.Result, error)
	Snapshot() player.Snapshot
	Root() string
}

// Dispatcher routes tool requests to the playback manager and the file listing.
type Dispatcher struct {
	playback  Playback
	listLimit int
}

// NewDispatcher returns a Dispatcher. listLimit is the default for list_files.
func NewDispatcher(playback Playback, listLimit int) *Dispatcher {
	if listLimit <= 0 {
		listLimit = library.DefaultLimit
	}
	return &Dispatcher{playback: playback, listLimit: listLimit}
}

// Handle executes req. Failures are reported in the response, never as a Go error.
func (d *Dispatcher) Handle(req ToolRequest) ToolResponse {
	action := strings.ToLower(strings.TrimSpace(req.Action))
	log.Debugf("tool call: action=%s filename=%q loop=%t offset=%d", action, req.Filename, req.Loop, req.StartOffsetMs)

	if action == ActionPlay && strings.TrimSpace(req.Filename) == "" {
		return d.reject(player.KindInvalidInput, "filename is required for 'play' action.")
	}

	if req.StartOffsetMs < 0 {
		return d.reject(player.KindInvalidInput, "start_offset_ms must be non-negative.")
	}

	switch action {
	case ActionPlay:
		return respond(d.playback.Play(player.PlayRequest{
			Filename:    req.Filename,
			Loop:        req.Loop,
			StartOffset: time.Duration(req.StartOffsetMs) * time.Millisecond,
		}))
	case ActionStop:
		return respond(d.playback.Stop())
	case ActionStatus:
		return respond(d.playback.Status())
	case ActionListFiles:
		return d.listFiles(req)
	default:
		return d.reject(player.KindInvalidInput, fmt.Sprintf("unknown action %q.", req.Action))
	}
}

func (d *Dispatcher) listFiles(req ToolRequest) ToolResponse {
	limit := req.ListLimit
	if limit <= 0 {
		limit = d.listLimit
	}

	listing, err := library.List(d.playback.Root(), library.Options{Limit: limit, Query: req.Query})
	if err != nil {
		log.Errorf("list files: %v", err)
		return ToolResponse{
			Success: false,
			Message: err.Error(),
			State:   d.playback.Snapshot(),
		}
	}

	return ToolResponse{
		Success: true,
		Message: "Listed files available under the audio root.",
		State:   d.playback.Snapshot(),
		Files:   listing,
	}
}

func (d *Dispatcher) reject(kind player.Kind, message string) ToolResponse {
	return ToolResponse{
		Success: false,
		Message: message,
		Error:   kind,
		State:   d.playback.Snapshot(),
	}
}

func respond(result player.Result, err error) ToolResponse {
	if err != nil {
		log.Warnf("playback: %v", err)
	}
	return ToolResponse{
		Success: err == nil,
		Message: result.Message,
		Error:   player.KindOf(err),
		State:   result.State,
	}
}

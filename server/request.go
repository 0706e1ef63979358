package server

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/micplay/micplay/library"
	"github.com/micplay/micplay/player"
)

// Actions accepted by the playback tool.
const (
	ActionPlay      = "play"
	ActionStop      = "stop"
	ActionStatus    = "status"
	ActionListFiles = "list_files"
)

// ToolRequest is the argument object of the playback tool.
type ToolRequest struct {
	Action        string `json:"action" jsonschema:"enum=play,enum=stop,enum=status,enum=list_files" jsonschema_description:"Operation to perform"`
	Filename      string `json:"filename,omitempty" jsonschema_description:"File relative to the audio root; the default extension is appended when missing. Required for play"`
	Loop          bool   `json:"loop,omitempty" jsonschema:"default=false" jsonschema_description:"Loop the file until stopped"`
	StartOffsetMs int64  `json:"start_offset_ms,omitempty" jsonschema:"minimum=0,default=0" jsonschema_description:"Milliseconds into the file to start from"`
	ListLimit     int    `json:"list_limit,omitempty" jsonschema:"minimum=1,default=200" jsonschema_description:"Maximum number of files returned by list_files"`
	Query         string `json:"query,omitempty" jsonschema_description:"Fuzzy filter applied by list_files"`
}

// ToolResponse is what every tool call returns.
type ToolResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Error   player.Kind      `json:"error,omitempty"`
	State   player.Snapshot  `json:"state"`
	Files   *library.Listing `json:"files,omitempty"`
}

// Schema reflects the JSON schema of ToolRequest.
func Schema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.DoNotReference = true
	reflector.ExpandedStruct = true

	schema := reflector.Reflect(&ToolRequest{})
	schema.Version = ""
	return schema
}

// decodeRequest converts loosely typed tool arguments into a ToolRequest.
func decodeRequest(args any) (ToolRequest, error) {
	var req ToolRequest

	data, err := json.Marshal(args)
	if err != nil {
		return req, fmt.Errorf("encode arguments: %w", err)
	}

	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("invalid arguments: %w", err)
	}

	return req, nil
}

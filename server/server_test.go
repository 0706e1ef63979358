package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/micplay/micplay/config"
	"github.com/micplay/micplay/filesystem"
	"github.com/micplay/micplay/player"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

type fakePlayback struct {
	plays []player.PlayRequest
	stops int
	err   error
	state player.Snapshot
}

func (f *fakePlayback) Play(req player.PlayRequest) (player.Result, error) {
	f.plays = append(f.plays, req)
	if f.err != nil {
		return player.Result{Message: "nope", State: f.state}, f.err
	}
	f.state = player.Snapshot{Status: player.StatusPlaying, CurrentFile: mo.Some(req.Filename)}
	return player.Result{Message: "Playing.", State: f.state}, nil
}

func (f *fakePlayback) Stop() (player.Result, error) {
	f.stops++
	f.state = player.Snapshot{Status: player.StatusStopped}
	return player.Result{Message: "Playback stopped.", State: f.state}, nil
}

func (f *fakePlayback) Status() (player.Result, error) {
	return player.Result{Message: "Idle.", State: f.state}, nil
}

func (f *fakePlayback) Snapshot() player.Snapshot { return f.state }
func (f *fakePlayback) Root() string              { return "/audio" }

func TestDispatcher(t *testing.T) {
	Convey("Given a dispatcher", t, func() {
		fake := &fakePlayback{state: player.Snapshot{Status: player.StatusIdle}}
		d := NewDispatcher(fake, 0)

		Convey("Play forwards the request with the offset in milliseconds", func() {
			resp := d.Handle(ToolRequest{Action: "play", Filename: "greeting", Loop: true, StartOffsetMs: 500})
			So(resp.Success, ShouldBeTrue)
			So(resp.State.Status, ShouldEqual, player.StatusPlaying)
			So(fake.plays, ShouldHaveLength, 1)
			So(fake.plays[0].StartOffset, ShouldEqual, 500*time.Millisecond)
			So(fake.plays[0].Loop, ShouldBeTrue)
		})

		Convey("Play without a filename is rejected before reaching the manager", func() {
			resp := d.Handle(ToolRequest{Action: "play", Filename: "  "})
			So(resp.Success, ShouldBeFalse)
			So(resp.Message, ShouldEqual, "filename is required for 'play' action.")
			So(resp.Error, ShouldEqual, player.KindInvalidInput)
			So(resp.State.Status, ShouldEqual, player.StatusIdle)
			So(fake.plays, ShouldBeEmpty)
		})

		Convey("Negative offsets are rejected", func() {
			resp := d.Handle(ToolRequest{Action: "play", Filename: "a", StartOffsetMs: -1})
			So(resp.Success, ShouldBeFalse)
			So(resp.Message, ShouldEqual, "start_offset_ms must be non-negative.")
			So(fake.plays, ShouldBeEmpty)
		})

		Convey("Manager failures carry their kind", func() {
			fake.err = &player.Error{Kind: player.KindFileNotFound, Message: "File 'a.wav' not found under the audio root."}
			resp := d.Handle(ToolRequest{Action: "play", Filename: "a"})
			So(resp.Success, ShouldBeFalse)
			So(resp.Error, ShouldEqual, player.KindFileNotFound)
			So(resp.Message, ShouldEqual, "nope")
		})

		Convey("Stop and status are forwarded", func() {
			So(d.Handle(ToolRequest{Action: "STOP"}).State.Status, ShouldEqual, player.StatusStopped)
			So(fake.stops, ShouldEqual, 1)
			So(d.Handle(ToolRequest{Action: "status"}).Success, ShouldBeTrue)
		})

		Convey("Unknown actions are rejected", func() {
			resp := d.Handle(ToolRequest{Action: "rewind"})
			So(resp.Success, ShouldBeFalse)
			So(resp.Message, ShouldContainSubstring, "unknown action")
		})

		Convey("list_files lists the root", func() {
			filesystem.SetMemMapFs()
			Reset(filesystem.SetOsFs)
			So(filesystem.API().WriteFile("/audio/a.wav", []byte("x"), 0o644), ShouldBeNil)
			So(filesystem.API().WriteFile("/audio/b.wav", []byte("x"), 0o644), ShouldBeNil)

			resp := d.Handle(ToolRequest{Action: "list_files", ListLimit: 1})
			So(resp.Success, ShouldBeTrue)
			So(resp.Files.Files, ShouldHaveLength, 1)
			So(resp.Files.Truncated, ShouldBeTrue)
			So(resp.State.Status, ShouldEqual, player.StatusIdle)
		})
	})
}

func TestResponseEncoding(t *testing.T) {
	Convey("Absent state fields encode as null", t, func() {
		data, err := json.Marshal(ToolResponse{Success: true, Message: "Idle.", State: player.Snapshot{Status: player.StatusIdle}})
		So(err, ShouldBeNil)

		var decoded map[string]any
		So(json.Unmarshal(data, &decoded), ShouldBeNil)
		state := decoded["state"].(map[string]any)
		So(state["status"], ShouldEqual, "idle")
		So(state["current_file"], ShouldBeNil)
		So(state["position_estimate_ms"], ShouldBeNil)
		So(decoded, ShouldNotContainKey, "files")
		So(decoded, ShouldNotContainKey, "error")
	})
}

func TestSchema(t *testing.T) {
	Convey("The tool schema is reflected from ToolRequest", t, func() {
		data, err := json.Marshal(Schema())
		So(err, ShouldBeNil)

		var schema struct {
			Type       string                    `json:"type"`
			Required   []string                  `json:"required"`
			Properties map[string]map[string]any `json:"properties"`
		}
		So(json.Unmarshal(data, &schema), ShouldBeNil)
		So(schema.Type, ShouldEqual, "object")
		So(schema.Required, ShouldResemble, []string{"action"})
		So(schema.Properties["action"]["enum"], ShouldResemble, []any{"play", "stop", "status", "list_files"})
		So(schema.Properties, ShouldContainKey, "start_offset_ms")
		So(schema.Properties, ShouldContainKey, "list_limit")
	})
}

func TestHandleTool(t *testing.T) {
	Convey("Tool calls are decoded, dispatched and encoded as JSON text", t, func() {
		fake := &fakePlayback{state: player.Snapshot{Status: player.StatusIdle}}
		s, err := New(&config.Settings{Transport: config.TransportStdio}, NewDispatcher(fake, 0))
		So(err, ShouldBeNil)

		var request mcp.CallToolRequest
		request.Params.Name = "audio_playback"
		request.Params.Arguments = map[string]any{"action": "play", "filename": "greeting", "start_offset_ms": 250}

		result, err := s.handleTool(context.Background(), request)
		So(err, ShouldBeNil)
		So(result.IsError, ShouldBeFalse)
		So(result.Content, ShouldHaveLength, 1)

		var text string
		switch c := result.Content[0].(type) {
		case mcp.TextContent:
			text = c.Text
		case *mcp.TextContent:
			text = c.Text
		}

		var resp ToolResponse
		So(json.Unmarshal([]byte(text), &resp), ShouldBeNil)
		So(resp.Success, ShouldBeTrue)
		So(resp.State.CurrentFile.MustGet(), ShouldEqual, "greeting")
		So(fake.plays[0].StartOffset, ShouldEqual, 250*time.Millisecond)
	})

	Convey("Malformed arguments produce a tool error", t, func() {
		s, err := New(&config.Settings{}, NewDispatcher(&fakePlayback{}, 0))
		So(err, ShouldBeNil)

		var request mcp.CallToolRequest
		request.Params.Arguments = map[string]any{"action": "play", "loop": "yes please"}

		result, err := s.handleTool(context.Background(), request)
		So(err, ShouldBeNil)
		So(result.IsError, ShouldBeTrue)
	})
}

func TestHostGuard(t *testing.T) {
	Convey("Given a guarded handler", t, func() {
		ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		h := HostGuard([]string{"localhost:*", "127.0.0.1"}, ok)

		serve := func(host string) int {
			req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
			req.Host = host
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			return rec.Code
		}

		Convey("Allowed hosts pass with or without a port", func() {
			So(serve("localhost:8765"), ShouldEqual, http.StatusNoContent)
			So(serve("127.0.0.1"), ShouldEqual, http.StatusNoContent)
			So(serve("LOCALHOST"), ShouldEqual, http.StatusNoContent)
		})

		Convey("Other hosts are rejected", func() {
			So(serve("attacker.example:8765"), ShouldEqual, http.StatusMisdirectedRequest)
		})
	})

	Convey("The http handler only guards when protection is on", t, func() {
		s, err := New(&config.Settings{Path: "/mcp", DNSRebindingProtection: true, AllowedHosts: []string{"localhost"}}, NewDispatcher(&fakePlayback{}, 0))
		So(err, ShouldBeNil)

		req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
		req.Host = "evil.example"
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		So(rec.Code, ShouldEqual, http.StatusMisdirectedRequest)
	})
}

func TestRunStopsWithContext(t *testing.T) {
	Convey("The http transport shuts down when the context ends", t, func() {
		s, err := New(&config.Settings{
			Transport: config.TransportHTTP,
			Host:      "127.0.0.1",
			Port:      freePort(),
			Path:      "/mcp",
		}, NewDispatcher(&fakePlayback{}, 0))
		So(err, ShouldBeNil)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- s.Run(ctx) }()

		time.Sleep(100 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			So(err, ShouldBeNil)
		case <-time.After(shutdownTimeout + time.Second):
			So(errors.New("server did not stop"), ShouldBeNil)
		}
	})
}

func freePort() int {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 18765
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/micplay/micplay/config"
	"github.com/micplay/micplay/constant"
	"github.com/micplay/micplay/log"
	"github.com/samber/lo"
)

const shutdownTimeout = 5 * time.Second

// Server exposes the playback tool over the configured transport.
type Server struct {
	settings   *config.Settings
	dispatcher *Dispatcher
	mcp        *mcpserver.MCPServer
}

// New registers the playback tool on a fresh MCP server.
func New(settings *config.Settings, dispatcher *Dispatcher) (*Server, error) {
	schema, err := json.Marshal(Schema())
	if err != nil {
		return nil, fmt.Errorf("marshal tool schema: %w", err)
	}

	s := &Server{
		settings:   settings,
		dispatcher: dispatcher,
		mcp: mcpserver.NewMCPServer(
			constant.Micplay,
			constant.Version,
			mcpserver.WithToolCapabilities(false),
		),
	}

	s.mcp.AddTool(
		mcp.NewToolWithRawSchema(constant.ToolName, constant.ToolDescription, schema),
		s.handleTool,
	)

	return s, nil
}

func (s *Server) handleTool(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := decodeRequest(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := json.Marshal(s.dispatcher.Handle(req))
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}

	return mcp.NewToolResultText(string(data)), nil
}

// Run serves until ctx is cancelled or the transport fails.
func (s *Server) Run(ctx context.Context) error {
	switch s.settings.Transport {
	case config.TransportHTTP:
		return s.serveHTTP(ctx)
	default:
		return s.serveStdio(ctx)
	}
}

func (s *Server) serveStdio(ctx context.Context) error {
	log.Info("serving over stdio")

	stdio := mcpserver.NewStdioServer(s.mcp)
	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Handler is the http transport: the streamable MCP endpoint behind the host guard.
func (s *Server) Handler() http.Handler {
	streamable := mcpserver.NewStreamableHTTPServer(
		s.mcp,
		mcpserver.WithEndpointPath(s.settings.Path),
		mcpserver.WithStateLess(true),
	)

	var endpoint http.Handler = streamable
	if s.settings.DNSRebindingProtection {
		endpoint = HostGuard(s.settings.AllowedHosts, endpoint)
	}

	mux := http.NewServeMux()
	mux.Handle(s.settings.Path, endpoint)
	return mux
}

func (s *Server) serveHTTP(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.settings.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("serving over http on %s%s", httpServer.Addr, s.settings.Path)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// HostGuard rejects requests whose Host header is not allowed, defeating DNS rebinding.
// Ports are ignored on both sides.
func HostGuard(allowed []string, next http.Handler) http.Handler {
	hosts := lo.Map(allowed, func(h string, _ int) string {
		return hostname(h)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !lo.Contains(hosts, hostname(r.Host)) {
			log.Warnf("rejected request for host %q", r.Host)
			http.Error(w, "Invalid Host header", http.StatusMisdirectedRequest)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func hostname(hostport string) string {
	hostport = strings.ToLower(strings.TrimSpace(hostport))
	hostport = strings.TrimSuffix(hostport, ":*")
	if host, _, err := net.SplitHostPort(hostport); err == nil {
		hostport = host
	}
	return strings.Trim(hostport, "[]")
}

// Package mcpsrv exposes Timon's façade operations (query, insert, schema
// management) as MCP tools so an LLM agent can drive the store directly,
// the same shape as the query/insert CLI commands but over stdio.
package mcpsrv

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/timon-db/timon/internal/timon"
)

// Server wraps an MCP server exposing Timon's database, table, insert,
// and query operations as tools.
type Server struct {
	mcp *server.MCPServer
}

// New builds the MCP server and opens the catalog at storagePath so
// every tool call shares one process-wide handle.
func New(storagePath string) (*Server, error) {
	if _, env := timon.Init(storagePath); !env.IsOK() {
		return nil, fmt.Errorf("mcpsrv: %s", env.Message)
	}

	s := server.NewMCPServer("timon-mcp", "1.0.0", server.WithToolCapabilities(true))

	addCreateDatabaseTool(s)
	addCreateTableTool(s)
	addInsertTool(s)
	addQueryTool(s)
	addListTool(s)

	return &Server{mcp: s}, nil
}

// Serve runs the MCP server over stdio until the context is cancelled or
// an interrupt signal arrives.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ServeStdio(s.mcp)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Printf("mcpsrv: received %s, shutting down\n", sig)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

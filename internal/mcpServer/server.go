// Package mcpServer exposes the contract core as MCP tools so assistants can
// upload contracts and ask about them without the HTTP job queue.
package mcpServer

import (
	"context"

	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/rag"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/m-mizutani/goerr/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const Version = "1.0.0"

type Server struct {
	rag    rag.Service
	server *mcp.Server
	logger *logger_i.Logger
}

func NewServer(svc rag.Service) (*Server, error) {
	if svc == nil {
		return nil, goerr.Wrap(contractModel.ErrConfiguration, "mcp server needs a rag service")
	}

	s := &Server{
		rag:    svc,
		server: mcp.NewServer(&mcp.Implementation{Name: "contract-rag", Version: Version}, nil),
		logger: logger_i.NewLogger("MCP"),
	}
	s.registerTools()
	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Serving MCP tools on stdio")
	if err := s.server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return goerr.Wrap(err, "mcp server stopped")
	}
	return nil
}

// Connect attaches the server to an arbitrary transport.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

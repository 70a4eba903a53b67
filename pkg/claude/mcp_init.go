package claude

import (
	"context"
	"fmt"
	"os/exec"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	mcpadapter "github.com/driftlock/claude-agent-go/pkg/claude/adapters/mcp"
	"github.com/driftlock/claude-agent-go/pkg/claude/options"
	"github.com/driftlock/claude-agent-go/pkg/claude/ports"
)

// initializeMCPServers creates MCP connections from configuration.
// Returns a map of server name to connected adapter. On any failure,
// already-connected servers are closed before the error is returned.
func initializeMCPServers(
	ctx context.Context,
	configs map[string]options.MCPServerConfig,
) (map[string]ports.MCPServer, error) {
	if len(configs) == 0 {
		return nil, nil
	}

	servers := make(map[string]ports.MCPServer, len(configs))

	for name, cfg := range configs {
		server, err := initializeMCPServer(ctx, name, cfg)
		if err != nil {
			for _, s := range servers {
				_ = s.Close()
			}

			return nil, fmt.Errorf(
				"failed to initialize MCP server %q: %w",
				name,
				err,
			)
		}
		servers[name] = server
	}

	return servers, nil
}

// initializeMCPServer creates a single MCP connection.
func initializeMCPServer(
	ctx context.Context,
	name string,
	cfg options.MCPServerConfig,
) (ports.MCPServer, error) {
	var transport mcpsdk.Transport

	switch config := cfg.(type) {
	case *options.StdioServerConfig:
		cmd := exec.CommandContext(ctx, config.Command, config.Args...)
		for k, v := range config.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
		transport = &mcpsdk.CommandTransport{Command: cmd}

	case *options.HTTPServerConfig:
		transport = &mcpsdk.StreamableClientTransport{
			Endpoint: config.URL,
		}

	case *options.SSEServerConfig:
		// SSE uses the same streamable transport as HTTP.
		transport = &mcpsdk.StreamableClientTransport{
			Endpoint: config.URL,
		}

	case *options.SDKServerConfig:
		// mcp-go instances are invoked directly, no transport.
		return mcpadapter.NewServerAdapter(name, config.Instance), nil

	case *options.InProcessServerConfig:
		return connectInProcess(ctx, name, config.Server)

	default:
		return nil, fmt.Errorf(
			"unknown MCP server config type: %T", cfg,
		)
	}

	session, err := connectMCPClient(ctx, transport)
	if err != nil {
		return nil, err
	}

	return mcpadapter.NewClientAdapter(name, session), nil
}

// connectInProcess wires an official go-sdk server instance over a pair
// of in-memory transports, so in-process servers speak the same
// JSON-RPC surface as external ones.
func connectInProcess(
	ctx context.Context,
	name string,
	server *mcpsdk.Server,
) (ports.MCPServer, error) {
	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	if _, err := server.Connect(ctx, serverTransport, nil); err != nil {
		return nil, fmt.Errorf("connect in-process server: %w", err)
	}

	session, err := connectMCPClient(ctx, clientTransport)
	if err != nil {
		return nil, err
	}

	return mcpadapter.NewClientAdapter(name, session), nil
}

// connectMCPClient opens a client session over the given transport.
func connectMCPClient(
	ctx context.Context,
	transport mcpsdk.Transport,
) (*mcpsdk.ClientSession, error) {
	client := mcpsdk.NewClient(
		&mcpsdk.Implementation{
			Name:    "claude-agent-go",
			Version: "0.1.0",
		},
		nil,
	)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MCP server: %w", err)
	}

	return session, nil
}

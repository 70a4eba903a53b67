package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	mcpsdk "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/driftlock/claude-agent-go/pkg/claude/adapters/mcp"
)

func calcServer() *mcpserver.MCPServer {
	server := mcpserver.NewMCPServer("calc", "1.0.0")
	server.AddTool(
		mcpsdk.NewTool("add", mcpsdk.WithDescription("Add two numbers")),
		func(
			_ context.Context, _ mcpsdk.CallToolRequest,
		) (*mcpsdk.CallToolResult, error) {
			return mcpsdk.NewToolResultText("4"), nil
		},
	)

	return server
}

func TestServerAdapterName(t *testing.T) {
	adapter := mcp.NewServerAdapter("calc", calcServer())

	if adapter.Name() != "calc" {
		t.Errorf("Name() = %q", adapter.Name())
	}
	if err := adapter.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestServerAdapterToolsList(t *testing.T) {
	adapter := mcp.NewServerAdapter("calc", calcServer())

	request := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	reply, err := adapter.HandleMessage(context.Background(), []byte(request))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if len(reply) == 0 {
		t.Fatal("expected a response for a request with an id")
	}

	var response struct {
		JSONRPC string `json:"jsonrpc"`
		ID      any    `json:"id"`
		Result  struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(reply, &response); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}

	if response.JSONRPC != "2.0" {
		t.Errorf("jsonrpc = %q", response.JSONRPC)
	}
	if len(response.Result.Tools) != 1 || response.Result.Tools[0].Name != "add" {
		t.Errorf("tools = %#v", response.Result.Tools)
	}
}

func TestServerAdapterNotification(t *testing.T) {
	adapter := mcp.NewServerAdapter("calc", calcServer())

	notification := `{"jsonrpc":"2.0","method":"notifications/initialized"}`
	reply, err := adapter.HandleMessage(
		context.Background(), []byte(notification),
	)
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply != nil {
		t.Errorf("notification produced a reply: %s", reply)
	}
}

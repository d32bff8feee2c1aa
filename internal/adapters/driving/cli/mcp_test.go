package cli

import (
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPServe_Flags(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")

	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPServe_RequiresServices(t *testing.T) {
	setupTestServices(t, seededBackend())
	chatService = nil

	_, _, err := execute(t, "", "mcp", "serve")

	assert.Error(t, err)
}

func TestMCPServe_HostFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("host")

	require.NotNil(t, flag)
	assert.Equal(t, "127.0.0.1", flag.DefValue)
}

func TestMCPServe_PortInUse(t *testing.T) {
	setupTestServices(t, seededBackend())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)

	out, _, err := execute(t, "", "mcp", "serve", "--port", port)

	require.Error(t, err)
	assert.Contains(t, out, "MCP server listening on http://127.0.0.1:"+port)
	assert.Contains(t, err.Error(), "listen on")
}

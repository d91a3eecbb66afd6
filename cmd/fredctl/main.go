// Command fredctl is a debug CLI for exercising the FRED MCP server's
// tool orchestrators directly, without an MCP client attached.
package main

import "fredmcp/cmd/fredctl/cmd"

func main() {
	cmd.Execute()
}

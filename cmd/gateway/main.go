// Command gateway runs the cpp-mcp-gateway CLI: spec registration, client
// kit generation, operation dispatch, and the supporting metrics/health
// surfaces.
package main

var version = "dev"

func main() {
	Execute()
}

// cmd/server/main.go
// Entry point for the Season API. All command handling lives in internal/cli;
// running the binary without arguments starts the HTTP server.
package main

import "github.com/dmv-footballheadz/season-api/internal/cli"

func main() {
	cli.Execute()
}

// Command scope runs declarative health checks and fixes against the
// local development environment.
package main

import "github.com/oscope-dev/scope/internal/cli"

func main() {
	cli.Execute()
}

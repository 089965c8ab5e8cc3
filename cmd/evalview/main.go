// cmd/evalview/main.go
package main

import (
	"os"

	cmd "github.com/mwiater/evalview/internal/cli"
)

// main starts the evalview CLI by delegating to the cobra root command and
// exits with its status.
func main() {
	os.Exit(cmd.Execute())
}

// Command relq builds SQL statements from relq's AST interactively and
// optionally runs them against a database.
//
// Configuration is read from relq.yaml (discovered upwards from the
// working directory), RELQ_* environment variables and flags:
//
//	RELQ_ENGINE=postgres|mysql|sqlite
//	RELQ_DSN=<dsn>          (shell connects on start when set)
//	RELQ_LOG_LEVEL=debug    (logs every dispatched statement)
//
// Usage:
//
//	relq shell
//	relq sql "from users" "where users.id = 1"
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

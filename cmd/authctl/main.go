// Command authctl registers, logs in and inspects accounts on a running
// auth server.
//
//	authctl [-server URL] register -username alice -email alice@example.com
//	authctl [-server URL] login -email alice@example.com
//	authctl [-server URL] profile -token <jwt>
//
// Passwords are read from the terminal without echo unless -password is set.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

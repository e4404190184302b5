// admincli is a terminal client for the LMS admin backend. It signs in
// against the auth endpoints, keeps the session in a local credentials
// file so a new invocation does not force a re-login, and exposes the
// admin surface (sessions, users, developer settings) as subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func displayBanner() {
	banner := figure.NewFigure("lmsdesk", "cybermedium", true)
	banner.Print()
	fmt.Println()
}

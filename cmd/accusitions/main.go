// Package main is the entry point for the accusitions service.
//
//	@title			Accusitions API
//	@version		1.0
//	@description	Account signup, signin and cookie-based sessions.
//	@BasePath		/
package main

import (
	"fmt"
	"os"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s)", version, commit)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Command fbsession manages signed sessions against the platform REST
// API from the shell.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bureau-foundation/fbsession/cmd/fbsession/cli"
	"github.com/bureau-foundation/fbsession/cmd/fbsession/commands"
)

func main() {
	os.Exit(exitStatus(run(), os.Stderr))
}

func run() error {
	return commands.Root().Execute(os.Args[1:])
}

// exitStatus reports err and maps it to the process exit status.
// Commands that print their own output (like status) return an
// ExitError with the desired code, and get no extra "error:" line.
func exitStatus(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	if coder, ok := err.(interface{ ExitCode() int }); ok {
		return coder.ExitCode()
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	var toolError *cli.ToolError
	if errors.As(err, &toolError) {
		return toolError.Status()
	}
	return 1
}

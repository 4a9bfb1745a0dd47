// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/fbsession/cmd/fbsession/cli"
	"github.com/bureau-foundation/fbsession/lib/version"
)

// stdout receives command output. Tests replace it.
var stdout io.Writer = os.Stdout

// Root builds the complete fbsession command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "fbsession",
		Description: `fbsession: signed sessions against the platform REST API.

Builds login and install URLs, completes the token exchange, signs and
dispatches REST calls, and runs FQL queries. The session is stored
between invocations under session.name.`,
		Subcommands: []*cli.Command{
			loginURLCommand(),
			installURLCommand(),
			secureCommand(),
			statusCommand(),
			callCommand(),
			fqlCommand(),
			signCommand(),
			logoutCommand(),
			keygenCommand(),
			versionCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Print the login URL, then complete the exchange after logging in",
				Command:     "fbsession login-url --next /home && fbsession secure",
			},
			{
				Description: "Call a REST method on the stored session",
				Command:     "fbsession call facebook.friends.get",
			},
			{
				Description: "Run an FQL query",
				Command:     "fbsession fql 'SELECT name FROM user WHERE uid = 4'",
			},
		},
	}
}

// commandContext is cancelled by SIGINT and SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Flags: func() *pflag.FlagSet {
			return pflag.NewFlagSet("version", pflag.ContinueOnError)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			fmt.Fprintf(stdout, "fbsession %s\n", version.Full())
			return nil
		},
	}
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/fbsession/cmd/fbsession/cli"
	"github.com/bureau-foundation/fbsession/lib/sessionstore"
)

type statusParams struct {
	cli.GlobalParams
	cli.JSONOutput
	Raw bool `flag:"raw" desc:"print the stored snapshot as saved (CBOR in diagnostic notation), unsealed"`
}

func statusCommand() *cli.Command {
	var params statusParams

	return &cli.Command{
		Name:    "status",
		Summary: "Show the stored session",
		Description: `Show the stored session's user, expiry, and variant.

Exits 1 when the session is not secured (never authenticated, or
expired), so scripts can test "fbsession status >/dev/null".

--raw prints the stored snapshot instead: the JSON document for the
file store, or CBOR diagnostic notation for the redis store.`,
		Usage: "fbsession status [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("status", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			ctx, cancel := commandContext()
			defer cancel()

			env, err := openEnvironment(ctx, params.GlobalParams, "status")
			if err != nil {
				return err
			}
			defer env.close()

			if params.Raw {
				return dumpSnapshot(ctx, env)
			}

			current, err := env.storedSession(ctx)
			if err != nil {
				return err
			}
			status := describeSession(current, env.config.Session.Name)

			if done, err := params.EmitJSON(stdout, status); done {
				if err != nil {
					return err
				}
			} else {
				writer := tabwriter.NewWriter(stdout, 2, 0, 3, ' ', 0)
				fmt.Fprintf(writer, "session\t%s\n", status.Name)
				fmt.Fprintf(writer, "variant\t%s\n", status.Variant)
				if status.UID != 0 {
					fmt.Fprintf(writer, "uid\t%d\n", status.UID)
				}
				fmt.Fprintf(writer, "expiry\t%s\n", status.expiryText())
				fmt.Fprintf(writer, "secured\t%t\n", status.Secured)
				writer.Flush()
			}

			if !status.Secured {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

func dumpSnapshot(ctx context.Context, env *environment) error {
	dump, err := env.store.Dump(ctx, env.config.Session.Name)
	if errors.Is(err, sessionstore.ErrNotFound) {
		return cli.NotFound(fmt.Errorf("no stored session %q: %w", env.config.Session.Name, err))
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, strings.TrimRight(dump, "\n"))
	return nil
}

type logoutParams struct {
	cli.GlobalParams
}

func logoutCommand() *cli.Command {
	var params logoutParams

	return &cli.Command{
		Name:    "logout",
		Summary: "Forget the stored session",
		Description: `Delete the stored session snapshot. The platform is not contacted;
the session key stays valid on the server until it expires.`,
		Usage: "fbsession logout [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("logout", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			ctx, cancel := commandContext()
			defer cancel()

			env, err := openEnvironment(ctx, params.GlobalParams, "logout")
			if err != nil {
				return err
			}
			defer env.close()

			if err := env.store.Delete(ctx, env.config.Session.Name); err != nil {
				return err
			}
			env.logger.Info("session forgotten")
			return nil
		},
	}
}

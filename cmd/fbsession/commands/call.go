// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/fbsession/cmd/fbsession/cli"
	"github.com/bureau-foundation/fbsession/lib/rest"
)

type callParams struct {
	cli.GlobalParams
}

func callCommand() *cli.Command {
	var params callParams

	return &cli.Command{
		Name:    "call",
		Summary: "Call a REST method on the stored session",
		Description: `Sign and send one REST call and print the decoded reply as JSON.

Arguments after the method are key=value parameters. The method name,
api_key, v, call_id, session_key, and sig are filled in by the session.
When no session is stored an unauthenticated one is used, which is
enough for the facebook.auth methods.`,
		Usage: "fbsession call <method> [key=value...] [flags]",
		Examples: []cli.Example{
			{
				Description: "Fetch the stored user's friends",
				Command:     "fbsession call facebook.friends.get",
			},
			{
				Description: "Fetch two users' names",
				Command:     "fbsession call facebook.users.getInfo uids=4,5 fields=name",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("call", &params)
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return cli.Validation("method is required")
			}
			method := args[0]
			callArguments, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()

			env, err := openEnvironment(ctx, params.GlobalParams, "call")
			if err != nil {
				return err
			}
			defer env.close()

			current, err := env.currentSession(ctx)
			if err != nil {
				return err
			}

			response, err := current.Post(ctx, method, callArguments)
			if err != nil {
				return classify(err)
			}
			return cli.WriteJSON(stdout, response.Value)
		},
	}
}

// parseAssignments turns key=value arguments into call parameters.
func parseAssignments(args []string) (rest.Params, error) {
	params := make(rest.Params, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, cli.Validation("parameter %q is not key=value", arg)
		}
		params[key] = value
	}
	return params, nil
}

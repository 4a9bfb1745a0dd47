// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/fbsession/cmd/fbsession/cli"
	"github.com/bureau-foundation/fbsession/lib/session"
)

type loginURLParams struct {
	cli.GlobalParams
	Next         string `flag:"next" desc:"path to return to after login"`
	SkipCookie   bool   `flag:"skip-cookie" desc:"ask the login page not to set a cookie"`
	HideCheckbox bool   `flag:"hide-checkbox" desc:"hide the 'keep me logged in' checkbox"`
	Canvas       bool   `flag:"canvas" desc:"render the login page for canvas display"`
	NoCanvas     bool   `flag:"no-canvas" desc:"turn off the canvas display a canvas session asks for"`
}

func loginURLCommand() *cli.Command {
	var params loginURLParams

	return &cli.Command{
		Name:    "login-url",
		Summary: "Print the login URL for the stored session",
		Description: `Print the URL a user visits to log in to the application.

The session variant adds its own options: canvas sessions ask for canvas
display unless --no-canvas is given, and token sessions carry an auth token (created here if
the session has none). The session is saved so that a later "secure"
exchanges the same token.`,
		Usage: "fbsession login-url [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("login-url", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			if params.Canvas && params.NoCanvas {
				return cli.Validation("--canvas and --no-canvas are mutually exclusive")
			}
			canvas := session.FlagOf(params.Canvas)
			if params.NoCanvas {
				canvas = session.FlagOff
			}

			ctx, cancel := commandContext()
			defer cancel()

			env, err := openEnvironment(ctx, params.GlobalParams, "login-url")
			if err != nil {
				return err
			}
			defer env.close()

			current, err := env.currentSession(ctx)
			if err != nil {
				return err
			}

			url, err := current.LoginURL(ctx, session.LoginOptions{
				Next:         params.Next,
				SkipCookie:   session.FlagOf(params.SkipCookie),
				HideCheckbox: session.FlagOf(params.HideCheckbox),
				Canvas:       canvas,
			})
			if err != nil {
				return classify(err)
			}
			if err := env.save(ctx, current); err != nil {
				return err
			}

			fmt.Fprintln(stdout, url)
			return nil
		},
	}
}

type installURLParams struct {
	cli.GlobalParams
	Next string `flag:"next" desc:"path to return to after installation"`
}

func installURLCommand() *cli.Command {
	var params installURLParams

	return &cli.Command{
		Name:    "install-url",
		Summary: "Print the application install URL",
		Usage:   "fbsession install-url [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("install-url", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			ctx, cancel := commandContext()
			defer cancel()

			env, err := openEnvironment(ctx, params.GlobalParams, "install-url")
			if err != nil {
				return err
			}
			defer env.close()

			current, err := env.currentSession(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, current.InstallURL(session.InstallOptions{Next: params.Next}))
			return nil
		},
	}
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/fbsession/cmd/fbsession/cli"
	"github.com/bureau-foundation/fbsession/lib/session"
)

type secureParams struct {
	cli.GlobalParams
	cli.JSONOutput
	AuthToken string `flag:"auth-token" desc:"exchange this auth token instead of the session's own"`
}

func secureCommand() *cli.Command {
	var params secureParams

	return &cli.Command{
		Name:    "secure",
		Summary: "Exchange the auth token for a session",
		Description: `Exchange the session's auth token for a session key and save the
result.

Run this after the user has logged in through the URL printed by
"login-url". A token handed back to a callback page can be supplied with
--auth-token instead.`,
		Usage: "fbsession secure [flags]",
		Examples: []cli.Example{
			{
				Description: "Complete the exchange for a token received on a callback",
				Command:     "fbsession secure --auth-token 3e4a22bb2f5ed75114b0fc9995ea85f1",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("secure", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			ctx, cancel := commandContext()
			defer cancel()

			env, err := openEnvironment(ctx, params.GlobalParams, "secure")
			if err != nil {
				return err
			}
			defer env.close()

			current, err := env.currentSession(ctx)
			if err != nil {
				return err
			}
			if params.AuthToken != "" {
				current.SetAuthToken(params.AuthToken)
			}

			if err := current.Secure(ctx); err != nil {
				return classify(err)
			}
			if err := env.save(ctx, current); err != nil {
				return err
			}

			result := describeSession(current, env.config.Session.Name)
			if done, err := params.EmitJSON(stdout, result); done {
				return err
			}
			fmt.Fprintf(stdout, "secured %s as uid %d (%s)\n", result.Name, result.UID, result.expiryText())
			return nil
		},
	}
}

// sessionStatus is the reported state of a stored session.
type sessionStatus struct {
	Name      string `json:"name"`
	Variant   string `json:"variant"`
	UID       int64  `json:"uid,omitempty"`
	Expires   int64  `json:"expires,omitempty"`
	Infinite  bool   `json:"infinite"`
	Expired   bool   `json:"expired"`
	Secured   bool   `json:"secured"`
	HasSecret bool   `json:"has_session_secret"`
}

func describeSession(current *session.Session, name string) sessionStatus {
	status := sessionStatus{
		Name:      name,
		Variant:   current.Policy().Name,
		Infinite:  current.Infinite(),
		Expired:   current.Expired(),
		Secured:   current.Secured(),
		HasSecret: current.SessionSecret() != "",
	}
	status.UID, _ = current.UserID()
	status.Expires, _ = current.ExpiresAt()
	return status
}

func (status sessionStatus) expiryText() string {
	switch {
	case status.Infinite:
		return "never expires"
	case status.Expires == 0:
		return "not authenticated"
	case status.Expired:
		return "expired " + time.Unix(status.Expires, 0).UTC().Format(time.RFC3339)
	default:
		return "expires " + time.Unix(status.Expires, 0).UTC().Format(time.RFC3339)
	}
}

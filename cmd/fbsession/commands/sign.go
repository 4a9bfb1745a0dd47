// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/fbsession/cmd/fbsession/cli"
	"github.com/bureau-foundation/fbsession/lib/credential"
	"github.com/bureau-foundation/fbsession/lib/signature"
)

type signParams struct {
	cli.GlobalParams
	SecretFile string `flag:"secret-file" desc:"file holding the signing secret (default: the application secret)"`
	Canonical  bool   `flag:"canonical" desc:"print the canonical string that is hashed instead of the signature"`
}

func signCommand() *cli.Command {
	var params signParams

	return &cli.Command{
		Name:    "sign",
		Summary: "Compute the signature of a parameter set",
		Description: `Print the signature the platform expects for the given key=value
parameters. Nothing is sent. Useful for checking a request captured
elsewhere, or a signature received on a canvas callback.`,
		Usage: "fbsession sign <key=value...> [flags]",
		Examples: []cli.Example{
			{
				Description: "Sign with the application secret",
				Command:     "fbsession sign method=facebook.auth.createToken api_key=abc v=1.0",
			},
			{
				Description: "Sign with a session secret",
				Command:     "fbsession sign --secret-file ./session-secret method=facebook.users.getInfo uids=4",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("sign", &params)
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return cli.Validation("at least one key=value parameter is required")
			}
			callArguments, err := parseAssignments(args)
			if err != nil {
				return err
			}
			delete(callArguments, "sig")

			if params.Canonical {
				fmt.Fprintln(stdout, signature.Canonical(callArguments))
				return nil
			}

			secret, err := signingSecret(params)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, signature.Sign(callArguments, secret))
			return nil
		},
	}
}

func signingSecret(params signParams) (string, error) {
	if params.SecretFile != "" {
		data, err := os.ReadFile(params.SecretFile)
		if err != nil {
			return "", cli.Validation("reading secret: %w", err)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", cli.Validation("secret file %s is empty", params.SecretFile)
		}
		return secret, nil
	}

	cfg, err := loadConfig(params.ConfigFile)
	if err != nil {
		return "", err
	}
	credentials, err := credential.Resolver{File: cfg.Credentials.File}.Resolve()
	if err != nil {
		return "", cli.Validation("%w", err)
	}
	return credentials.SecretKey, nil
}

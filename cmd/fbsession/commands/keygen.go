// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/fbsession/cmd/fbsession/cli"
	"github.com/bureau-foundation/fbsession/lib/sealed"
)

type keygenParams struct {
	Output string `flag:"output,o" desc:"identity file to create (required)"`
}

func keygenCommand() *cli.Command {
	var params keygenParams

	return &cli.Command{
		Name:    "keygen",
		Summary: "Create an identity for sealing stored sessions",
		Description: `Generate an age keypair, write the private key to a new identity
file (mode 0600, never overwritten), and print the public key.

Put the public key in store.seal.recipients and the file path in
store.seal.identity_file to encrypt stored sessions.`,
		Usage: "fbsession keygen --output <file>",
		Examples: []cli.Example{
			{
				Description: "Create the identity used to seal sessions",
				Command:     "fbsession keygen -o ~/.config/fbsession/identity.txt",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("keygen", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if params.Output == "" {
				return cli.Validation("--output is required")
			}

			keypair, err := sealed.GenerateKeypair()
			if err != nil {
				return err
			}
			if err := sealed.WriteIdentityFile(params.Output, keypair); err != nil {
				return err
			}
			fmt.Fprintln(stdout, keypair.PublicKey)
			return nil
		},
	}
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/fbsession/cmd/fbsession/cli"
	"github.com/bureau-foundation/fbsession/lib/session"
)

type fqlParams struct {
	cli.GlobalParams
	Format string `flag:"format" desc:"reply format requested from the server (XML or JSON)" default:"XML"`
}

// fqlRow is one typed query result.
type fqlRow struct {
	Kind   string         `json:"kind"`
	Fields map[string]any `json:"fields"`
}

func fqlCommand() *cli.Command {
	var params fqlParams

	return &cli.Command{
		Name:    "fql",
		Summary: "Run an FQL query",
		Description: `Run a structured query and print the typed rows as JSON.

The stored session is used when there is one. Otherwise the query is
signed with the application secret alone, which public tables accept.

Rows are typed as user, photo, or event_member. Rows of any other type
are dropped, so a query over another table prints an empty list.`,
		Usage: "fbsession fql <query> [flags]",
		Examples: []cli.Example{
			{
				Description: "Fetch the stored user's name",
				Command:     "fbsession fql 'SELECT name, pic FROM user WHERE uid = 4'",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("fql", &params)
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return cli.Validation("query is required")
			}
			query := strings.Join(args, " ")

			ctx, cancel := commandContext()
			defer cancel()

			env, err := openEnvironment(ctx, params.GlobalParams, "fql")
			if err != nil {
				return err
			}
			defer env.close()

			current, err := env.currentSession(ctx)
			if err != nil {
				return err
			}

			records, err := current.Query(ctx, query, strings.ToUpper(params.Format))
			if err != nil {
				return classify(err)
			}
			return cli.WriteJSON(stdout, rowsOf(records))
		},
	}
}

func rowsOf(records []session.Record) []fqlRow {
	rows := make([]fqlRow, 0, len(records))
	for _, typed := range records {
		row := fqlRow{Kind: typed.Kind.String()}
		switch typed.Kind {
		case session.KindUser:
			row.Fields = typed.User.Fields
		case session.KindPhoto:
			row.Fields = typed.Photo.Fields
		case session.KindEventMember:
			row.Fields = typed.EventMember.Fields
		}
		rows = append(rows, row)
	}
	return rows
}

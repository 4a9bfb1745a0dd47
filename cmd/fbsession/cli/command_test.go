// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "fbsession",
		Subcommands: []*Command{
			{Name: "status", Run: func(args []string) error { called = "status"; return nil }},
			{Name: "call", Run: func(args []string) error {
				called = "call"
				receivedArgs = args
				return nil
			}},
		},
	}

	if err := root.Execute([]string{"call", "facebook.friends.get", "uid=4"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "call" {
		t.Errorf("dispatched to %q, want %q", called, "call")
	}
	if strings.Join(receivedArgs, " ") != "facebook.friends.get uid=4" {
		t.Errorf("args = %v, want [facebook.friends.get uid=4]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var next string
	var query string

	command := &Command{
		Name: "login-url",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("login-url", pflag.ContinueOnError)
			flagSet.StringVar(&next, "next", "", "return path")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				query = args[0]
			}
			return nil
		},
	}

	if err := command.Execute([]string{"--next", "/home", "extra"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if next != "/home" {
		t.Errorf("next = %q, want /home", next)
	}
	if query != "extra" {
		t.Errorf("positional = %q, want extra", query)
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "login-url",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("login-url", pflag.ContinueOnError)
			flagSet.Bool("skip-cookie", false, "no cookie")
			flagSet.String("next", "", "return path")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--skip-cokie"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	message := err.Error()
	if !strings.Contains(message, "did you mean --skip-cookie") {
		t.Errorf("error = %q, want suggestion for --skip-cookie", message)
	}
	if !strings.Contains(message, "--help") {
		t.Errorf("error = %q, should point to --help", message)
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	command := &Command{
		Name: "status",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("status", pflag.ContinueOnError)
			flagSet.Bool("json", false, "json output")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--zzzzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for a distant flag", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "fbsession",
		Subcommands: []*Command{
			{Name: "secure"},
			{Name: "status"},
			{Name: "logout"},
		},
	}

	err := root.Execute([]string{"secrue"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), `did you mean "secure"`) {
		t.Errorf("error = %q, want suggestion for secure", err.Error())
	}

	err = root.Execute([]string{"zzzzzzzzzz"})
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %v, want an error without a suggestion", err)
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			var output bytes.Buffer
			root := &Command{
				Name:        "fbsession",
				Summary:     "platform sessions",
				Output:      &output,
				Subcommands: []*Command{{Name: "status", Summary: "Show the stored session"}},
			}
			if err := root.Execute([]string{helpArg}); err != nil {
				t.Errorf("Execute(%q) error: %v", helpArg, err)
			}
			if !strings.Contains(output.String(), "Show the stored session") {
				t.Errorf("help output = %q, want the subcommand listing", output.String())
			}
		})
	}
}

func TestCommand_Execute_SubcommandHelpUsesParentOutput(t *testing.T) {
	var output bytes.Buffer
	root := &Command{
		Name:   "fbsession",
		Output: &output,
		Subcommands: []*Command{{
			Name:    "status",
			Summary: "Show the stored session",
			Run:     func(args []string) error { return nil },
		}},
	}

	if err := root.Execute([]string{"status", "--help"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(output.String(), "fbsession status [flags]") {
		t.Errorf("help output = %q, want the full command path", output.String())
	}
}

func TestCommand_Execute_NoArgsRequiresSubcommand(t *testing.T) {
	root := &Command{
		Name:        "fbsession",
		Output:      io.Discard,
		Subcommands: []*Command{{Name: "status"}},
	}

	err := root.Execute(nil)
	if err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %v, want 'subcommand required'", err)
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	var params struct {
		Next string `flag:"next" desc:"path to return to after login"`
	}
	command := &Command{
		Name:        "login-url",
		Description: "Print the login URL.",
		Flags: func() *pflag.FlagSet {
			return FlagsFromParams("login-url", &params)
		},
		Examples: []Example{
			{Description: "Return home after login", Command: "fbsession login-url --next /home"},
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"Print the login URL.",
		"Usage:\n  login-url [flags]",
		"--next",
		"path to return to after login",
		"# Return home after login",
		"fbsession login-url --next /home",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q:\n%s", want, output)
		}
	}
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the fbsession command tree. Each command
// loads the configuration, resolves the application credentials, and
// works on the session snapshot stored under session.name, so a login
// URL printed by one invocation can be completed by "secure" in the
// next.
package commands

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package rest is the HTTP transport for the social platform's legacy
// REST server (restserver.php).
//
// Every call is a form-encoded POST of already-signed parameters. The
// server answers with an XML or JSON document; [Client.Post] decodes
// either form into a generic [Response] and translates the server's
// error envelope (error_code / error_msg) into an [*APIError] whose
// kind can be tested with errors.Is against the exported sentinels
// ([ErrSessionExpired], [ErrIncorrectSignature], the FQL family, ...).
//
// The transport does not sign, retry, or re-authenticate. Signing is
// the session's job; retry policy belongs to the caller, which can use
// [IsTransient] to tell temporary failures from fatal ones.
package rest

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"net/url"
	"strings"
)

// Base URLs for the interactive pages.
const (
	DefaultLoginURL   = "https://www.facebook.com/login.php"
	DefaultInstallURL = "https://www.facebook.com/install.php"
)

// Flag is a login page switch that a policy may default. The zero
// value leaves the choice to the policy.
type Flag uint8

const (
	FlagUnset Flag = iota
	FlagOn
	FlagOff
)

// FlagOf returns FlagOn for true and FlagUnset for false.
func FlagOf(on bool) Flag {
	if on {
		return FlagOn
	}
	return FlagUnset
}

// Enabled reports whether the switch is on.
func (flag Flag) Enabled() bool { return flag == FlagOn }

func (flag Flag) or(fallback Flag) Flag {
	if flag == FlagUnset {
		return fallback
	}
	return flag
}

// LoginOptions are the optional parameters of the login page. Only
// options that are on appear in the URL: the login page reacts to some
// flags merely being present, so canvas=false would still select the
// canvas display.
type LoginOptions struct {
	// Next is where the login page redirects after success.
	Next string

	SkipCookie   Flag
	HideCheckbox Flag
	Canvas       Flag

	// IncludeAuthToken appends the session's auth token, creating it
	// if necessary. TokenPolicy always turns this on.
	IncludeAuthToken bool
}

// merge applies options over defaults. A flag the caller set wins over
// the default, including FlagOff.
func (defaults LoginOptions) merge(options LoginOptions) LoginOptions {
	merged := LoginOptions{
		Next:             defaults.Next,
		SkipCookie:       options.SkipCookie.or(defaults.SkipCookie),
		HideCheckbox:     options.HideCheckbox.or(defaults.HideCheckbox),
		Canvas:           options.Canvas.or(defaults.Canvas),
		IncludeAuthToken: defaults.IncludeAuthToken || options.IncludeAuthToken,
	}
	if options.Next != "" {
		merged.Next = options.Next
	}
	return merged
}

// InstallOptions are the optional parameters of the install page.
type InstallOptions struct {
	Next string
}

// LoginURL builds the login page URL for this application, combining
// options with the policy's defaults. It contacts the server only when
// the auth token must be included and has not been obtained yet.
func (session *Session) LoginURL(ctx context.Context, options LoginOptions) (string, error) {
	options = session.policy.URLDefaults.merge(options)

	var builder strings.Builder
	session.writeBase(&builder, session.loginURL)
	writeNext(&builder, options.Next)
	if options.SkipCookie.Enabled() {
		builder.WriteString("&skipcookie=true")
	}
	if options.HideCheckbox.Enabled() {
		builder.WriteString("&hide_checkbox=true")
	}
	if options.Canvas.Enabled() {
		builder.WriteString("&canvas=true")
	}
	if options.IncludeAuthToken {
		token, err := session.AuthToken(ctx)
		if err != nil {
			return "", err
		}
		builder.WriteString("&auth_token=")
		builder.WriteString(url.QueryEscape(token))
	}
	return builder.String(), nil
}

// InstallURL builds the application install page URL.
func (session *Session) InstallURL(options InstallOptions) string {
	var builder strings.Builder
	session.writeBase(&builder, session.installURL)
	writeNext(&builder, options.Next)
	return builder.String()
}

func (session *Session) writeBase(builder *strings.Builder, base string) {
	builder.WriteString(base)
	builder.WriteString("?api_key=")
	builder.WriteString(url.QueryEscape(session.apiKey))
	builder.WriteString("&v=")
	builder.WriteString(APIVersion)
}

func writeNext(builder *strings.Builder, next string) {
	if next == "" {
		return
	}
	builder.WriteString("&next=")
	builder.WriteString(url.QueryEscape(next))
}

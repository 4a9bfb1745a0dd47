// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"strconv"

	"github.com/bureau-foundation/fbsession/lib/rest"
)

// Policy is the per-variant behavior of a Session: which login URL
// options are on by default, which secret signs which method, and which
// calls are refused before dispatch. A zero Policy behaves like
// WebPolicy.
type Policy struct {
	// Name identifies the variant in logs and configuration.
	Name string

	// URLDefaults fill in the login options the caller left unset.
	URLDefaults LoginOptions

	// SecretSelector returns the secret that signs method. Nil selects
	// the application secret for every method.
	SecretSelector func(session *Session, method string) (string, error)

	// MethodGuard vets a call before anything is sent. Nil allows
	// every call.
	MethodGuard func(session *Session, method string, params rest.Params) error
}

// Variant names accepted by PolicyByName.
const (
	VariantWeb    = "web"
	VariantToken  = "token"
	VariantCanvas = "canvas"
)

// WebPolicy is the plain session: every call is signed with the
// application secret and nothing is guarded.
func WebPolicy() Policy {
	return Policy{Name: VariantWeb}
}

// CanvasPolicy signs like WebPolicy but asks the login page for canvas
// display.
func CanvasPolicy() Policy {
	return Policy{
		Name:        VariantCanvas,
		URLDefaults: LoginOptions{Canvas: FlagOn},
	}
}

// TokenPolicy is the installed-application flow. The login URL carries
// the session's auth token. Only the two bootstrap methods are signed
// with the application secret; everything after them is signed with
// the secret the server issued with the session. Reading or writing
// profile markup is refused unless the uid parameter is the session's
// own user.
func TokenPolicy() Policy {
	return Policy{
		Name:           VariantToken,
		URLDefaults:    LoginOptions{IncludeAuthToken: true},
		SecretSelector: tokenSecret,
		MethodGuard:    ownProfileOnly,
	}
}

// PolicyByName returns the policy for a variant name. The empty name
// selects WebPolicy.
func PolicyByName(name string) (Policy, bool) {
	switch name {
	case "", VariantWeb:
		return WebPolicy(), true
	case VariantToken:
		return TokenPolicy(), true
	case VariantCanvas:
		return CanvasPolicy(), true
	}
	return Policy{}, false
}

func tokenSecret(session *Session, method string) (string, error) {
	if method == MethodCreateToken || method == MethodGetSession {
		return session.secretKey, nil
	}
	secret := session.SessionSecret()
	if secret == "" {
		return "", ErrNoSessionSecret
	}
	return secret, nil
}

func ownProfileOnly(session *Session, method string, params rest.Params) error {
	if method != MethodGetProfileFBML && method != MethodSetProfileFBML {
		return nil
	}
	uid, ok := session.UserID()
	if !ok || params["uid"] != strconv.FormatInt(uid, 10) {
		return &NonSessionUserError{
			Method:       method,
			SessionUID:   uid,
			RequestedUID: params["uid"],
		}
	}
	return nil
}

func (policy Policy) secretFor(session *Session, method string) (string, error) {
	if policy.SecretSelector == nil {
		return session.secretKey, nil
	}
	return policy.SecretSelector(session, method)
}

func (policy Policy) check(session *Session, method string, params rest.Params) error {
	if policy.MethodGuard == nil {
		return nil
	}
	return policy.MethodGuard(session, method, params)
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/bureau-foundation/fbsession/lib/clock"
	"github.com/bureau-foundation/fbsession/lib/record"
	"github.com/bureau-foundation/fbsession/lib/rest"
	"github.com/bureau-foundation/fbsession/lib/signature"
)

// APIVersion is the protocol version sent with every call.
const APIVersion = "1.0"

// REST methods with special handling.
const (
	MethodCreateToken    = "facebook.auth.createToken"
	MethodGetSession     = "facebook.auth.getSession"
	MethodGetProfileFBML = "facebook.profile.getFBML"
	MethodSetProfileFBML = "facebook.profile.setFBML"
	MethodFQLQuery       = "facebook.fql.query"
)

// Transport sends a signed parameter set and returns the decoded
// reply. *rest.Client is the production implementation.
type Transport interface {
	Post(ctx context.Context, params rest.Params) (*rest.Response, error)
}

// Config holds configuration for creating a Session.
type Config struct {
	// APIKey identifies the application. Required.
	APIKey string

	// SecretKey is the application secret. Required. It signs the
	// bootstrap calls, and every call under policies that do not
	// switch to the session secret.
	SecretKey string

	// Transport performs the calls. Required.
	Transport Transport

	// Policy selects the session variant. The zero value is WebPolicy.
	Policy Policy

	// LoginURL and InstallURL are the bases for the URL builders.
	// Default to DefaultLoginURL and DefaultInstallURL.
	LoginURL   string
	InstallURL string

	// Clock provides time for call ids and expiry checks. Defaults to
	// clock.Real().
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Session is an authenticated client identity.
//
// A new Session is unauthenticated. Secure (or SecureWith, when the
// session parameters arrived some other way, e.g. on a canvas request)
// moves it to authenticated. Expiry is observed by Secured and Expired,
// never acted on: an expired session stays as it is until the caller
// runs Secure again.
//
// State transitions and memoized values are guarded, so concurrent
// first uses of AuthToken, Secure, or a memoized query collapse into a
// single remote call. Independent identities should still use
// independent Sessions.
type Session struct {
	apiKey     string
	secretKey  string
	transport  Transport
	policy     Policy
	loginURL   string
	installURL string
	clock      clock.Clock
	logger     *slog.Logger

	// secureMu serializes Secure so that racing callers perform one
	// establish-session exchange each, never interleaved.
	secureMu sync.Mutex

	mu            sync.Mutex
	sessionKey    string
	uid           int64
	hasUID        bool
	expires       int64
	hasExpires    bool
	sessionSecret string
	lastCall      int64

	authToken memo[string]
	user      memo[*record.User]
	events    memo[[]*record.Event]
	members   memo[[]*record.Attendance]
	photos    memo[[]*record.Photo]
	albums    memo[[]*record.Album]
	tags      memo[[]*record.Tag]
}

// New creates an unauthenticated Session.
func New(config Config) (*Session, error) {
	if config.APIKey == "" || config.SecretKey == "" {
		return nil, fmt.Errorf("session: api key and secret key are both required: %w", ErrMissingArgument)
	}
	if config.Transport == nil {
		return nil, fmt.Errorf("session: transport is required")
	}

	policy := config.Policy
	if policy.Name == "" {
		policy.Name = VariantWeb
	}

	loginURL := config.LoginURL
	if loginURL == "" {
		loginURL = DefaultLoginURL
	}
	installURL := config.InstallURL
	if installURL == "" {
		installURL = DefaultInstallURL
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		apiKey:     config.APIKey,
		secretKey:  config.SecretKey,
		transport:  config.Transport,
		policy:     policy,
		loginURL:   loginURL,
		installURL: installURL,
		clock:      clk,
		logger:     logger.With("variant", policy.Name),
	}, nil
}

// APIKey returns the application's API key.
func (session *Session) APIKey() string { return session.apiKey }

// Policy returns the session's variant policy.
func (session *Session) Policy() Policy { return session.policy }

// SessionKey returns the session key, or "" before authentication.
func (session *Session) SessionKey() string {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.sessionKey
}

// UserID returns the authenticated user's id. ok is false before
// authentication.
func (session *Session) UserID() (uid int64, ok bool) {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.uid, session.hasUID
}

// ExpiresAt returns the session's expiry as a Unix timestamp; 0 means
// the session never expires. ok is false before authentication.
func (session *Session) ExpiresAt() (expires int64, ok bool) {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.expires, session.hasExpires
}

// SessionSecret returns the secret issued with the session, or "".
func (session *Session) SessionSecret() string {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.sessionSecret
}

// Infinite reports whether the session never expires.
func (session *Session) Infinite() bool {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.infiniteLocked()
}

// Expired reports whether the session is unusable because of time: it
// has no expiry at all (never authenticated) or its expiry is not in
// the future. Infinite sessions never expire.
func (session *Session) Expired() bool {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.expiredLocked()
}

// Secured reports whether the session holds a session key that has not
// expired.
func (session *Session) Secured() bool {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.sessionKey != "" && !session.expiredLocked()
}

func (session *Session) infiniteLocked() bool {
	return session.hasExpires && session.expires == 0
}

func (session *Session) expiredLocked() bool {
	if !session.hasExpires {
		return true
	}
	if session.infiniteLocked() {
		return false
	}
	return session.expires <= session.clock.Now().Unix()
}

// AuthToken returns the session's auth token, creating one with
// facebook.auth.createToken on first use. The token is never refetched:
// once created (or set), the same token is returned for the life of the
// Session.
func (session *Session) AuthToken(ctx context.Context) (string, error) {
	return session.authToken.get(func() (string, error) {
		response, err := session.Post(ctx, MethodCreateToken, nil)
		if err != nil {
			return "", fmt.Errorf("session: creating auth token: %w", err)
		}
		token, err := response.Text()
		if err != nil {
			return "", fmt.Errorf("session: creating auth token: %w", err)
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return "", fmt.Errorf("session: creating auth token: server returned an empty token")
		}
		return token, nil
	})
}

// SetAuthToken supplies an auth token obtained outside the session,
// typically from the auth_token parameter of the login redirect.
func (session *Session) SetAuthToken(token string) {
	session.authToken.set(token)
}

// Secure establishes the session: it exchanges the auth token for a
// session with facebook.auth.getSession and commits the reply with
// SecureWith. It always contacts the server, so calling it on an
// expired session re-authenticates.
func (session *Session) Secure(ctx context.Context) error {
	session.secureMu.Lock()
	defer session.secureMu.Unlock()

	token, err := session.AuthToken(ctx)
	if err != nil {
		return err
	}

	response, err := session.Post(ctx, MethodGetSession, rest.Params{"auth_token": token})
	if err != nil {
		return fmt.Errorf("session: establishing session: %w", err)
	}
	fields, err := response.Map()
	if err != nil {
		return fmt.Errorf("session: establishing session: %w", err)
	}

	return session.SecureWith(
		scalar(fields["session_key"]),
		scalar(fields["uid"]),
		scalar(fields["expires"]),
		scalar(fields["secret"]),
	)
}

// SecureWith commits session parameters directly. uid and expires are
// parsed as base-10 integers; if either is malformed the session is
// left untouched and a *CoercionError is returned. sessionSecret may
// be empty.
func (session *Session) SecureWith(sessionKey, uid, expires, sessionSecret string) error {
	parsedUID, err := parseInteger("uid", uid)
	if err != nil {
		return err
	}
	parsedExpires, err := parseInteger("expires", expires)
	if err != nil {
		return err
	}

	session.mu.Lock()
	session.sessionKey = sessionKey
	session.uid = parsedUID
	session.hasUID = true
	session.expires = parsedExpires
	session.hasExpires = true
	session.sessionSecret = sessionSecret
	session.mu.Unlock()

	session.logger.Info("session secured",
		"uid", parsedUID,
		"expires", parsedExpires,
		"infinite", parsedExpires == 0,
	)
	return nil
}

// Post signs and dispatches one REST call. params is not modified.
//
// The dispatched set carries method, api_key, v, a fresh call_id
// (except on facebook.auth.getSession, which must not have one), and
// the session key once a session exists and the caller did not supply
// one. The signature covers exactly that set, under the secret the
// session's policy selects for method.
func (session *Session) Post(ctx context.Context, method string, params rest.Params) (*rest.Response, error) {
	if err := session.policy.check(session, method, params); err != nil {
		return nil, err
	}

	outgoing := params.Clone()
	delete(outgoing, "sig")
	outgoing["method"] = method
	outgoing["api_key"] = session.apiKey
	outgoing["v"] = APIVersion

	session.mu.Lock()
	if method != MethodGetSession {
		outgoing["call_id"] = session.nextCallIDLocked()
	}
	if session.sessionKey != "" && outgoing["session_key"] == "" {
		outgoing["session_key"] = session.sessionKey
	}
	session.mu.Unlock()

	secret, err := session.policy.secretFor(session, method)
	if err != nil {
		return nil, fmt.Errorf("session: %s: %w", method, err)
	}
	outgoing["sig"] = signature.Sign(outgoing, secret)

	session.logger.Debug("posting",
		"method", method,
		"call_id", outgoing["call_id"],
	)
	return session.transport.Post(ctx, outgoing)
}

// nextCallIDLocked returns a call id strictly greater than every id
// this session has issued: the current time in seconds with microsecond
// fraction, bumped by one microsecond when the clock has not moved.
// Must be called with session.mu held.
func (session *Session) nextCallIDLocked() string {
	micros := session.clock.Now().UnixMicro()
	if micros <= session.lastCall {
		micros = session.lastCall + 1
	}
	session.lastCall = micros
	return fmt.Sprintf("%d.%06d", micros/1_000_000, micros%1_000_000)
}

// User returns the authenticated user, establishing the session first
// if no user id is known yet.
func (session *Session) User(ctx context.Context) (*record.User, error) {
	return session.user.get(func() (*record.User, error) {
		uid, ok := session.UserID()
		if !ok {
			if err := session.Secure(ctx); err != nil {
				return nil, err
			}
			uid, _ = session.UserID()
		}
		return record.NewUser(uid, session), nil
	})
}

func parseInteger(field, value string) (int64, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, &CoercionError{Field: field, Value: value, Err: err}
	}
	return parsed, nil
}

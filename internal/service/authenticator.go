package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/zohair-aabidi/ajenda/internal/auth"
)

// BearerPrefix precedes the token in the Authorization header. Matching is case-sensitive.
const BearerPrefix = "Bearer "

// RequestAuthenticator derives the caller's Principal from an Authorization header.
type RequestAuthenticator interface {
	// Authenticate returns nil when the request carries no usable credentials.
	// It never fails the request itself; the authorization gate decides.
	Authenticate(ctx context.Context, authorizationHeader string) *auth.Principal
}

type requestAuthenticator struct {
	tokens   TokenService
	resolver IdentityResolver
	log      logrus.FieldLogger
}

// NewRequestAuthenticator creates a RequestAuthenticator.
func NewRequestAuthenticator(tokens TokenService, resolver IdentityResolver, log logrus.FieldLogger) RequestAuthenticator {
	return &requestAuthenticator{
		tokens:   tokens,
		resolver: resolver,
		log:      log,
	}
}

func (a *requestAuthenticator) Authenticate(ctx context.Context, header string) (principal *auth.Principal) {
	defer func() {
		if r := recover(); r != nil {
			a.log.WithField("panic", r).Error("authentication aborted")
			principal = nil
		}
	}()

	token, ok := ExtractBearerToken(header)
	if !ok {
		return nil
	}

	claims, err := a.tokens.Verify(token)
	if err != nil {
		a.log.WithField("reason", failureKind(err)).Warn("rejected bearer token")
		return nil
	}

	p, err := a.resolver.Resolve(ctx, claims.Subject)
	if err != nil {
		a.log.WithField("reason", failureKind(err)).Warn("could not resolve token subject")
		return nil
	}
	return p
}

// ExtractBearerToken returns the token following the Bearer prefix.
func ExtractBearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(BearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

// failureKind names an authentication failure for logs without exposing the token.
func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrMalformedToken):
		return "malformed"
	case errors.Is(err, ErrBadSignature):
		return "bad_signature"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrPrincipalNotFound):
		return "principal_not_found"
	default:
		return "internal"
	}
}

package httpkit

import (
	"fmt"
	"net/http"
	"strings"

	perr "datapulse/internal/platform/errors"
	pnet "datapulse/internal/platform/net"
	phttp "datapulse/internal/platform/net/http"
	"datapulse/internal/platform/net/middleware"

	"github.com/golang-jwt/jwt/v5"
)

// TokenFunc parses a bearer token and returns the user id it was issued to
type TokenFunc func(token string) (userID string, err error)

// Port implements middleware.AuthPort by reading Authorization and delegating to a TokenFunc
type Port struct {
	parse TokenFunc
}

// NewPortFunc builds a Port from a parser function
func NewPortFunc(fn TokenFunc) *Port { return &Port{parse: fn} }

// Parse extracts the user id from an Authorization Bearer token
// Missing, malformed, or rejected tokens are all reported as unauthorized
func (p *Port) Parse(r *http.Request) (string, error) {
	raw, err := bearer(r)
	if err != nil {
		return "", err
	}
	if p == nil || p.parse == nil {
		return "", perr.Unauthorizedf("invalid bearer token")
	}
	uid, err := p.parse(raw)
	if err != nil || uid == "" {
		return "", perr.Unauthorizedf("invalid bearer token")
	}
	return uid, nil
}

func bearer(r *http.Request) (string, error) {
	s := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "bearer "
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", perr.Unauthorizedf("missing bearer token")
	}
	raw := strings.TrimSpace(s[len(prefix):])
	if raw == "" {
		return "", perr.Unauthorizedf("missing bearer token")
	}
	return raw, nil
}

// HS256 returns a TokenFunc validating HMAC-SHA256 tokens signed with secret
// The user id is read from the userId claim
func HS256(secret []byte) TokenFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	return func(token string) (string, error) {
		claims := jwt.MapClaims{}
		if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) { return secret, nil }); err != nil {
			return "", err
		}
		uid, ok := claims["userId"].(string)
		if !ok || uid == "" {
			return "", fmt.Errorf("token has no userId claim")
		}
		return uid, nil
	}
}

// Auth wires the auth middleware to the platform JSON writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}

// Protected groups routes behind bearer auth
func Protected(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		fn(gr)
	})
}

// User returns the authenticated user id from the request context
func User(r *http.Request) (string, error) {
	uid := pnet.UserID(r.Context())
	if uid == "" {
		return "", perr.Unauthorizedf("missing bearer token")
	}
	return uid, nil
}

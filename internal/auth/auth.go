// Package auth is the route guard for protected endpoints. It extracts a
// bearer credential from the Authorization header, delegates verification
// to a TokenVerifier, and attaches the verified identity to the request
// context. Missing credentials are rejected before any verification work;
// failed verification is rejected distinctly.
package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/heartbridge/server/internal/httpx"
)

var (
	ErrNoCredentials      = errors.New("auth: no credentials")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// Identity is the verified caller: the subject and email asserted by the
// identity provider.
type Identity struct {
	Subject string
	Email   string
}

// TokenVerifier validates a bearer token and yields the identity it
// asserts. The production implementation is JWTVerifier; tests substitute
// their own.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// JWTVerifier validates HS256-signed tokens using the secret from the
// identity provider's credential bundle.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier decodes the base64 credential bundle supplied via the
// environment. An empty bundle falls back to a development secret, matching
// the rest of the config layer's dev defaults.
func NewJWTVerifier(credentialsB64 string) (*JWTVerifier, error) {
	if credentialsB64 == "" {
		if os.Getenv("APP_ENV") == "production" {
			return nil, errors.New("auth: AUTH_CREDENTIALS is required in production")
		}
		return &JWTVerifier{secret: []byte("devauthsecret")}, nil
	}
	secret, err := base64.StdEncoding.DecodeString(strings.TrimSpace(credentialsB64))
	if err != nil {
		return nil, errors.New("auth: AUTH_CREDENTIALS is not valid base64")
	}
	return &JWTVerifier{secret: secret}, nil
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCredentials
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidCredentials
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	id := &Identity{}
	if sub, err := claims.GetSubject(); err == nil {
		id.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		id.Email = email
	}
	if id.Email == "" && id.Subject == "" {
		return nil, ErrInvalidCredentials
	}
	return id, nil
}

type ctxKey struct{}

// WithIdentity stores the verified identity in the context.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFromContext extracts the verified identity.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(*Identity)
	return id, ok && id != nil
}

// bearerToken pulls the token out of "Authorization: Bearer <token>".
// Returns "" for a missing header or a missing token segment.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth guards a route subtree. 401 when no credential is presented,
// 403 when verification fails.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				httpx.Error(w, http.StatusUnauthorized, "unauthorized access", nil)
				return
			}
			id, err := verifier.Verify(r.Context(), token)
			if err != nil {
				httpx.Error(w, http.StatusForbidden, "forbidden access", nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

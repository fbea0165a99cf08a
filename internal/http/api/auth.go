package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type actorKey struct{}

// Claims is what the identity provider puts in an operator's token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator reads operator identity from HS256 bearer tokens. Issuing
// tokens is the identity provider's business.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Identify attaches the operator to the request context when a valid token
// is present. Requests without a token pass through anonymously.
func (a *Authenticator) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearer(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		actor, err := a.Parse(raw)
		if err != nil {
			JSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// RequireOperator rejects anonymous requests.
func RequireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Actor(r.Context()) == "" {
			JSON(w, http.StatusUnauthorized, errorResponse{Error: "operator token required"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) Parse(raw string) (string, error) {
	if len(a.secret) == 0 {
		return "", errors.New("token verification is not configured")
	}

	var claims Claims

	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return a.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}

	actor := strings.ToLower(strings.TrimSpace(claims.Email))
	if actor == "" {
		actor = claims.Subject
	}

	if actor == "" {
		return "", errors.New("token has no subject")
	}

	return actor, nil
}

func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// Actor returns the authenticated operator, or "" for anonymous requests.
func Actor(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")

	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}

	return strings.TrimSpace(token), true
}

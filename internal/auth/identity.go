// Package auth treats identity as an external collaborator: some upstream
// sign-in flow issues a signed token, and all this package does is verify it
// and expose the stable user identifier to the rest of the application.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// User is the authenticated caller as seen by the core: a stable id plus
// display fields carried through to clients.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

var (
	ErrNoToken      = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

type contextKey struct{}

// Verifier validates HS256 bearer tokens and extracts the user identity.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// VerifyToken parses and validates a JWT, mapping its claims to a User.
// The subject claim is the stable user identifier and is required; the
// display fields are optional.
func (v *Verifier) VerifyToken(tokenString string) (User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return User{}, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return User{}, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return User{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	u := User{ID: sub}
	u.Name, _ = claims["name"].(string)
	u.Email, _ = claims["email"].(string)
	u.Picture, _ = claims["picture"].(string)

	if u.Name == "" {
		if at := strings.IndexByte(u.Email, '@'); at > 0 {
			u.Name = u.Email[:at]
		} else {
			u.Name = "User"
		}
	}
	if u.Picture == "" {
		u.Picture = fallbackAvatar(u.Name)
	}

	return u, nil
}

// Middleware rejects requests without a valid bearer token and stashes the
// authenticated user in the request context.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"authentication required"}`))
			return
		}

		user, err := v.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			slog.WarnContext(r.Context(), "Rejected request with invalid token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid token"}`))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// FromContext extracts the authenticated user set by Middleware.
func FromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(contextKey{}).(User)
	return u, ok
}

func fallbackAvatar(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=0ea5e9&color=fff"
}

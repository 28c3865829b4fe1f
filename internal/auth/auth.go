package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/wandura/internal/apperr"
)

type Role string

const (
	RoleCustomer      Role = "CUSTOMER"
	RoleWorker        Role = "WORKER"
	RoleHardwareStore Role = "HARDWARE_STORE"
)

// Identity is the authenticated caller attached to every request context.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

func (i Identity) Is(role Role) bool {
	return i.Role == role
}

type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	secret []byte
	now    func() time.Time
}

func New(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret), now: time.Now}
}

// Issue signs an HS256 token for the given identity. The user id travels in the
// subject claim.
func (a *Authenticator) Issue(id Identity, ttl time.Duration) (string, error) {
	now := a.now()

	claims := Claims{
		Role: id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

func (a *Authenticator) Parse(token string) (Identity, error) {
	var claims Claims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", apperr.ErrAuthentication, err)
	}

	if !parsed.Valid {
		return Identity{}, fmt.Errorf("%w: invalid token", apperr.ErrAuthentication)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: malformed subject", apperr.ErrAuthentication)
	}

	switch claims.Role {
	case RoleCustomer, RoleWorker, RoleHardwareStore:
	default:
		return Identity{}, fmt.Errorf("%w: unknown role %q", apperr.ErrAuthentication, claims.Role)
	}

	return Identity{UserID: userID, Role: claims.Role}, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// resolved Identity on the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		id, err := a.Parse(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

var errNoIdentity = errors.New("no identity in context")

// FromContext returns the caller identity. A missing identity is reported as
// an authentication failure so handlers can render it directly.
func FromContext(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok {
		return Identity{}, fmt.Errorf("%w: %w", apperr.ErrAuthentication, errNoIdentity)
	}

	return id, nil
}

package web

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"padelpass-backend/internal/config"
	"padelpass-backend/internal/domain/model"
)

// ===== Session/JWT primitives =====

// AccessClaims is the payload of an access token. Roles travel in the
// token so request handling never needs an identity lookup.
type AccessClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// AuthManager signs and verifies HS256 access tokens. It implements
// usecase.TokenIssuer for the auth use case.
type AuthManager struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
}

func NewAuthManager(cfg config.AuthConfig) *AuthManager {
	ttl := cfg.AccessTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &AuthManager{
		secret:    []byte(cfg.JWTSecret),
		issuer:    cfg.Issuer,
		accessTTL: ttl,
	}
}

// Issue signs an access token for the user. The returned jwtID ties the
// refresh token row to this exact access token.
func (a *AuthManager) Issue(user *model.User) (string, string, time.Time, error) {
	now := time.Now().UTC()
	jwtID := uuid.NewString()
	expiresAt := now.Add(a.accessTTL)
	claims := AccessClaims{
		Roles: user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jwtID,
			Subject:   user.ID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return signed, jwtID, expiresAt, nil
}

// ParseFromRequest reads "Authorization: Bearer <jwt>".
func (a *AuthManager) ParseFromRequest(r *http.Request) (*AccessClaims, error) {
	hdr := r.Header.Get("Authorization")
	if hdr == "" {
		return nil, errors.New("missing token")
	}
	if !strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
		return nil, errors.New("malformed authorization header")
	}
	return a.parse(strings.TrimSpace(hdr[7:]))
}

func (a *AuthManager) parse(tok string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	}, jwt.WithIssuer(a.issuer))
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ===== Caller context plumbing =====

type ctxKey int

const callerKey ctxKey = iota

// CallerFromContext returns the authenticated caller stashed by the auth
// middleware.
func CallerFromContext(ctx context.Context) (model.CallerContext, bool) {
	caller, ok := ctx.Value(callerKey).(model.CallerContext)
	return caller, ok
}

// Middleware authenticates the request and injects a CallerContext.
func (a *AuthManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.ParseFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		caller := model.CallerContext{UserID: claims.Subject, Roles: claims.Roles}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerKey, caller)))
	})
}

// RequireRole guards a subtree to callers holding at least one of the
// given roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			for _, role := range roles {
				if caller.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}

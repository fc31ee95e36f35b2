package model

import (
	"time"

	"padelpass-backend/internal/domain"
)

// RefreshToken is a single-use, independently revocable credential tied
// to one issued access token (JwtID).
type RefreshToken struct {
	ID        string // UUID
	UserID    string
	Token     string // opaque, random
	JwtID     string
	ExpiresAt time.Time
	IsUsed    bool
	IsRevoked bool
	CreatedAt time.Time
}

func NewRefreshToken(id, userID, token, jwtID string, expiresAt time.Time) (*RefreshToken, error) {
	if id == "" || userID == "" || token == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &RefreshToken{
		ID:        id,
		UserID:    userID,
		Token:     token,
		JwtID:     jwtID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Redeemable reports whether the token can still be exchanged.
func (t *RefreshToken) Redeemable(now time.Time) error {
	if t.IsRevoked || t.IsUsed {
		return domain.ErrInvalidRefreshToken
	}
	if now.After(t.ExpiresAt) {
		return domain.ErrRefreshTokenExpired
	}
	return nil
}

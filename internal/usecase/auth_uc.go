// File: internal/usecase/auth_uc.go
package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"padelpass-backend/internal/domain"
	"padelpass-backend/internal/domain/model"
	"padelpass-backend/internal/domain/ports/identity"
	"padelpass-backend/internal/domain/ports/repository"
)

type RegisterRequest struct {
	Email           string
	PhoneNumber     string
	FullName        string
	Password        string
	ConfirmPassword string
}

// TokenPair is the issued credential set: a signed access token plus a
// single-use refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         *model.User
}

// TokenIssuer signs access tokens. Implemented by the web layer's JWT
// manager; the use case only sees the opaque result.
type TokenIssuer interface {
	Issue(user *model.User) (token, jwtID string, expiresAt time.Time, err error)
}

// AuthUseCase covers registration, login and the refresh-token lifecycle.
// Refresh tokens are single-use: redeeming one marks it consumed and
// issues a fresh pair.
type AuthUseCase struct {
	ident      identity.Provider
	tokens     repository.RefreshTokenRepository
	issuer     TokenIssuer
	tm         repository.TransactionManager
	refreshTTL time.Duration
	log        *zerolog.Logger
}

func NewAuthUseCase(
	ident identity.Provider,
	tokens repository.RefreshTokenRepository,
	issuer TokenIssuer,
	tm repository.TransactionManager,
	refreshTTL time.Duration,
	logger *zerolog.Logger,
) *AuthUseCase {
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &AuthUseCase{ident: ident, tokens: tokens, issuer: issuer, tm: tm, refreshTTL: refreshTTL, log: logger}
}

// Register creates an end-customer account. Email and phone number must
// both be unused.
func (uc *AuthUseCase) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	return uc.register(ctx, req, model.RoleUser)
}

// CreateAdmin is restricted to SuperAdmin callers.
func (uc *AuthUseCase) CreateAdmin(ctx context.Context, caller model.CallerContext, req RegisterRequest) (*model.User, error) {
	if !caller.HasRole(model.RoleSuperAdmin) {
		return nil, domain.ErrUnauthorized
	}
	return uc.register(ctx, req, model.RoleAdmin)
}

func (uc *AuthUseCase) register(ctx context.Context, req RegisterRequest, role string) (*model.User, error) {
	if req.Password == "" || req.Password != req.ConfirmPassword {
		return nil, domain.ErrPasswordConfirmation
	}
	var user *model.User
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if _, err := uc.ident.FindByEmail(ctx, req.Email); err == nil {
			return domain.ErrEmailTaken
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if _, err := uc.ident.FindByPhone(ctx, req.PhoneNumber); err == nil {
			return domain.ErrPhoneTaken
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		var err error
		user, err = model.NewUser(uuid.NewString(), req.Email, req.PhoneNumber, req.FullName)
		if err != nil {
			return err
		}
		if err := uc.ident.Create(ctx, tx, user, req.Password); err != nil {
			return err
		}
		return uc.ident.AssignRole(ctx, tx, user.ID, role)
	})
	if err != nil {
		return nil, err
	}
	user.Roles = []string{role}
	uc.log.Info().Str("user_id", user.ID).Str("role", role).Msg("user registered")
	return user, nil
}

// Login verifies credentials and issues a token pair. Lookup and
// password failures are indistinguishable to the caller.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := uc.ident.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := uc.ident.VerifyPassword(ctx, user.ID, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return uc.issuePair(ctx, repository.NoTX, user)
}

// Refresh redeems a refresh token exactly once: the presented token is
// marked used and a new pair comes back. Consumption and reissue share
// one transaction.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var pair *TokenPair
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		stored, err := uc.tokens.FindByToken(ctx, tx, refreshToken)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrInvalidRefreshToken
			}
			return err
		}
		now := time.Now().UTC()
		if err := stored.Redeemable(now); err != nil {
			return err
		}
		user, err := uc.ident.FindByID(ctx, stored.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrInvalidRefreshToken
			}
			return err
		}

		stored.IsUsed = true
		if err := uc.tokens.Update(ctx, tx, stored); err != nil {
			return err
		}
		pair, err = uc.issuePair(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// RevokeAll invalidates every live refresh token for a user. Admins may
// revoke anyone's; users only their own.
func (uc *AuthUseCase) RevokeAll(ctx context.Context, caller model.CallerContext, userID string) (int, error) {
	if err := ensureOwnerOrAdmin(caller, userID); err != nil {
		return 0, err
	}
	n, err := uc.tokens.RevokeAllForUser(ctx, repository.NoTX, userID)
	if err != nil {
		return 0, err
	}
	uc.log.Info().Str("user_id", userID).Int("revoked", n).Msg("refresh tokens revoked")
	return n, nil
}

func (uc *AuthUseCase) issuePair(ctx context.Context, tx repository.Tx, user *model.User) (*TokenPair, error) {
	access, jwtID, expiresAt, err := uc.issuer.Issue(user)
	if err != nil {
		return nil, err
	}
	opaque, err := randomToken()
	if err != nil {
		return nil, err
	}
	refresh, err := model.NewRefreshToken(uuid.NewString(), user.ID, opaque, jwtID, time.Now().UTC().Add(uc.refreshTTL))
	if err != nil {
		return nil, err
	}
	if err := uc.tokens.Save(ctx, tx, refresh); err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: opaque,
		ExpiresAt:    expiresAt,
		User:         user,
	}, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

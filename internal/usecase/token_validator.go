package usecase

import (
	"context"

	"library-lending/internal/domain/user"
	"library-lending/internal/infra/cache"
	"library-lending/internal/pkg/errs"
	"library-lending/internal/pkg/jwt"
)

var ErrTokenRevoked = errs.New("token has been revoked")

// TokenValidator provides token validation for middleware. A token must
// both verify cryptographically and be absent from the revocation
// denylist.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*jwt.Claims, user.Role, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
	denylist   cache.TokenDenylist
}

func NewTokenValidator(jwtService *jwt.Service, denylist cache.TokenDenylist) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
		denylist:   denylist,
	}
}

func (t *tokenValidatorImpl) ValidateToken(ctx context.Context, tokenString string) (*jwt.Claims, user.Role, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return nil, "", err
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return nil, "", err
	}

	revoked, err := t.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, "", err
	}
	if revoked {
		return nil, "", ErrTokenRevoked
	}

	return claims, role, nil
}

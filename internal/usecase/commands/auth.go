package commands

import (
	"context"
	"time"

	"library-lending/internal/domain/user"
	reqdto "library-lending/internal/handler/dto/request"
	"library-lending/internal/infra"
	"library-lending/internal/infra/cache"
	sqlc "library-lending/internal/infra/sqlc/generated"
	"library-lending/internal/pkg/clock"
	"library-lending/internal/pkg/errs"
	jwtpkg "library-lending/internal/pkg/jwt"
	"library-lending/internal/pkg/password"
	"library-lending/internal/usecase/queries"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errs.New("invalid credentials")
	ErrEmailAlreadyUsed   = errs.New("email already registered")
	ErrInvalidUserData    = errs.New("invalid user data")
	ErrLogoutFailed       = errs.New("failed to revoke token")
)

type UserReader interface {
	FindByEmail(ctx context.Context, email user.Email) (*queries.AuthorizedUserView, string, error)
}

type AuthCommands interface {
	Register(ctx context.Context, req reqdto.RegisterRequest) (*queries.AuthorizedUserView, error)
	Login(ctx context.Context, req reqdto.LoginRequest) (string, *queries.AuthorizedUserView, error)
	Logout(ctx context.Context, claims *jwtpkg.Claims) error
}

type authUseCaseImpl struct {
	uow      shared.UnitOfWork
	users    UserReader
	jwt      *jwtpkg.Service
	denylist cache.TokenDenylist
	clock    clock.Clock
}

func NewAuthUseCase(
	uow shared.UnitOfWork,
	users UserReader,
	jwtService *jwtpkg.Service,
	denylist cache.TokenDenylist,
	clock clock.Clock,
) AuthCommands {
	return &authUseCaseImpl{
		uow:      uow,
		users:    users,
		jwt:      jwtService,
		denylist: denylist,
		clock:    clock,
	}
}

func (u *authUseCaseImpl) Register(ctx context.Context, req reqdto.RegisterRequest) (*queries.AuthorizedUserView, error) {
	email, err := user.NewEmail(req.Email)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidUserData)
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidUserData)
	}

	userID := uuid.New()
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Users().Create(ctx, tx.DB(), sqlc.CreateUserParams{
			ID:           userID,
			Email:        email.Value(),
			PasswordHash: hash,
			Role:         user.RoleMember.String(),
		})
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrEmailAlreadyUsed
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &queries.AuthorizedUserView{
		ID:    userID,
		Email: email.Value(),
		Role:  user.RoleMember.String(),
	}, nil
}

func (u *authUseCaseImpl) Login(ctx context.Context, req reqdto.LoginRequest) (string, *queries.AuthorizedUserView, error) {
	email, err := user.NewEmail(req.Email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	view, hash, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := password.Verify(hash, req.Password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	role, err := user.NewRole(view.Role)
	if err != nil {
		return "", nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	token, err := u.jwt.GenerateToken(view.ID, role)
	if err != nil {
		return "", nil, errs.Wrap(err, "failed to generate token")
	}

	return token, view, nil
}

// Logout denylists the token's jti for its remaining lifetime. The token
// keeps verifying cryptographically; the validator checks the denylist.
func (u *authUseCaseImpl) Logout(ctx context.Context, claims *jwtpkg.Claims) error {
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(u.clock.Now())
	}

	if err := u.denylist.Revoke(ctx, claims.ID, ttl); err != nil {
		return errs.Mark(err, ErrLogoutFailed)
	}
	return nil
}

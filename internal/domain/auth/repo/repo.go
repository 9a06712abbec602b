package repo

import (
	"context"
	"time"

	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/auth/model"
	"github.com/google/uuid"
)

type UserRepo interface {
	CreateUser(ctx context.Context, u model.User) (uuid.UUID, error)

	GetUserByUsername(ctx context.Context, username string) (model.User, error)

	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	SetRefreshToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error

	// RotateRefreshToken replaces the stored refresh token only if it still
	// equals current. A lost race reports ErrInvalidToken.
	RotateRefreshToken(ctx context.Context, id uuid.UUID, current, next string) error

	// ClearRefreshToken drops the stored refresh token and replaces the
	// security stamp in one update.
	ClearRefreshToken(ctx context.Context, id uuid.UUID, securityStamp string) error

	AddUserToRole(ctx context.Context, userID, roleID uuid.UUID) error
}

type RoleRepo interface {
	GetRoleByName(ctx context.Context, name string) (model.Role, error)

	CreateRole(ctx context.Context, r model.Role) error
}

// TokenRepo keeps per-user revocation markers for access tokens that are
// still inside their validity window.
type TokenRepo interface {
	RevokeUser(ctx context.Context, username, securityStamp string, ttl time.Duration) error

	// CurrentStamp returns the stamp recorded by the last revocation, if it
	// is still live.
	CurrentStamp(ctx context.Context, username string) (string, bool, error)
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/auth/model"
	customErrors "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresUserRepo struct {
	db *gorm.DB
}

func NewPostgresUserRepo(db *gorm.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

type userRole struct {
	UserID uuid.UUID `gorm:"primaryKey"`
	RoleID uuid.UUID `gorm:"primaryKey"`
}

func (userRole) TableName() string { return "user_roles" }

func (p *PostgresUserRepo) CreateUser(ctx context.Context, user model.User) (uuid.UUID, error) {
	res := p.db.WithContext(ctx).Omit("Roles").Create(&user)
	if err := res.Error; err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, customErrors.ErrAlreadyExists
		}
		return uuid.Nil, customErrors.WrapInternal(err, "CreateUser")
	}
	return user.ID, nil
}

func (p *PostgresUserRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.User{}, customErrors.WrapInternal(err, "GetUserByEmail")
	}

	return u, nil
}

func (p *PostgresUserRepo) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Preload("Roles").Where("user_name = ?", username).First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.User{}, customErrors.WrapInternal(err, "GetUserByUsername")
	}

	return u, nil
}

func (p *PostgresUserRepo) SetRefreshToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	res := p.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(map[string]any{
		"refresh_token":             token,
		"refresh_token_expiry_time": expiresAt,
	})
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "SetRefreshToken")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}

	return nil
}

// RotateRefreshToken is a compare-and-swap: the row changes only while it still
// holds current, so of two concurrent rotations exactly one succeeds.
func (p *PostgresUserRepo) RotateRefreshToken(ctx context.Context, id uuid.UUID, current, next string) error {
	res := p.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND refresh_token = ?", id, current).
		Update("refresh_token", next)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "RotateRefreshToken")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrInvalidToken
	}

	return nil
}

func (p *PostgresUserRepo) ClearRefreshToken(ctx context.Context, id uuid.UUID, securityStamp string) error {
	res := p.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(map[string]any{
		"refresh_token":  nil,
		"security_stamp": securityStamp,
	})
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "ClearRefreshToken")
	}

	return nil
}

func (p *PostgresUserRepo) AddUserToRole(ctx context.Context, userID, roleID uuid.UUID) error {
	res := p.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&userRole{UserID: userID, RoleID: roleID})
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "AddUserToRole")
	}

	return nil
}

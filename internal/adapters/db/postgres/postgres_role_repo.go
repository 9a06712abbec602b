package postgres

import (
	"context"
	"errors"

	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/auth/model"
	customErrors "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/errors"
	"gorm.io/gorm"
)

type PostgresRoleRepo struct {
	db *gorm.DB
}

func NewPostgresRoleRepo(db *gorm.DB) *PostgresRoleRepo {
	return &PostgresRoleRepo{db: db}
}

func (p *PostgresRoleRepo) GetRoleByName(ctx context.Context, name string) (model.Role, error) {
	var r model.Role
	res := p.db.WithContext(ctx).Where("name = ?", name).First(&r)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Role{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Role{}, customErrors.WrapInternal(err, "GetRoleByName")
	}

	return r, nil
}

func (p *PostgresRoleRepo) CreateRole(ctx context.Context, role model.Role) error {
	if err := p.db.WithContext(ctx).Create(&role).Error; err != nil {
		if isUniqueViolation(err) {
			return customErrors.ErrAlreadyExists
		}
		return customErrors.WrapInternal(err, "CreateRole")
	}

	return nil
}

package postgres

import (
	"context"

	repo "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/catalog/repo"
	"gorm.io/gorm"
)

// UnitOfWork hands out catalog repositories bound to one *gorm.DB, which is a
// transaction inside Do.
type UnitOfWork struct {
	db         *gorm.DB
	categories *PostgresCategoryRepo
	products   *PostgresProductRepo
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{
		db:         db,
		categories: NewPostgresCategoryRepo(db),
		products:   NewPostgresProductRepo(db),
	}
}

func (u *UnitOfWork) Categories() repo.CategoryRepo { return u.categories }

func (u *UnitOfWork) Products() repo.ProductRepo { return u.products }

func (u *UnitOfWork) Do(ctx context.Context, fn func(repo.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewUnitOfWork(tx))
	})
}

package postgres

import (
	"context"
	"errors"

	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/catalog/model"
	customErrors "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/errors"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/pkg/pagination"
	"gorm.io/gorm"
)

type PostgresCategoryRepo struct {
	db *gorm.DB
}

func NewPostgresCategoryRepo(db *gorm.DB) *PostgresCategoryRepo {
	return &PostgresCategoryRepo{db: db}
}

func (p *PostgresCategoryRepo) GetAll(ctx context.Context) ([]model.Category, error) {
	var cs []model.Category
	if err := p.db.WithContext(ctx).Order("category_id").Find(&cs).Error; err != nil {
		return nil, customErrors.WrapInternal(err, "GetAll categories")
	}
	return cs, nil
}

func (p *PostgresCategoryRepo) Get(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	res := p.db.WithContext(ctx).Where("category_id = ?", id).First(&c)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Category{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Category{}, customErrors.WrapInternal(err, "Get category")
	}
	return c, nil
}

func (p *PostgresCategoryRepo) Create(ctx context.Context, c model.Category) (model.Category, error) {
	if err := p.db.WithContext(ctx).Omit("Products").Create(&c).Error; err != nil {
		return model.Category{}, customErrors.WrapInternal(err, "Create category")
	}
	return c, nil
}

func (p *PostgresCategoryRepo) Update(ctx context.Context, c model.Category) (model.Category, error) {
	if err := p.db.WithContext(ctx).Omit("Products").Save(&c).Error; err != nil {
		return model.Category{}, customErrors.WrapInternal(err, "Update category")
	}
	return c, nil
}

// Delete removes the category together with its products.
func (p *PostgresCategoryRepo) Delete(ctx context.Context, c model.Category) error {
	db := p.db.WithContext(ctx)
	if err := db.Where("category_id = ?", c.CategoryID).Delete(&model.Product{}).Error; err != nil {
		return customErrors.WrapInternal(err, "Delete category products")
	}
	res := db.Delete(&model.Category{}, "category_id = ?", c.CategoryID)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "Delete category")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}

func (p *PostgresCategoryRepo) GetCategories(ctx context.Context, params pagination.Params) (pagination.Page[model.Category], error) {
	q := p.db.Model(&model.Category{}).Order("category_id")
	return pagination.ToPagedList(ctx, pagination.FromQuery[model.Category](q), params.PageNumber, params.PageSize)
}

func (p *PostgresCategoryRepo) GetCategoriesByName(ctx context.Context, name string, params pagination.Params) (pagination.Page[model.Category], error) {
	q := p.db.Model(&model.Category{})
	if name != "" {
		q = q.Where(containsExpr(p.db, "name"), name)
	}
	q = q.Order("category_id")
	return pagination.ToPagedList(ctx, pagination.FromQuery[model.Category](q), params.PageNumber, params.PageSize)
}

// containsExpr is a case-sensitive substring test on column.
func containsExpr(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "sqlite" {
		return "instr(" + column + ", ?) > 0"
	}
	return "strpos(" + column + ", ?) > 0"
}

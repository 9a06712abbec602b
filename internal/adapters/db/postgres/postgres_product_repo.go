package postgres

import (
	"context"
	"errors"

	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/catalog/model"
	customErrors "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/errors"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/pkg/pagination"
	"gorm.io/gorm"
)

type PostgresProductRepo struct {
	db *gorm.DB
}

func NewPostgresProductRepo(db *gorm.DB) *PostgresProductRepo {
	return &PostgresProductRepo{db: db}
}

func (p *PostgresProductRepo) GetAll(ctx context.Context) ([]model.Product, error) {
	var ps []model.Product
	if err := p.db.WithContext(ctx).Order("product_id").Find(&ps).Error; err != nil {
		return nil, customErrors.WrapInternal(err, "GetAll products")
	}
	return ps, nil
}

func (p *PostgresProductRepo) Get(ctx context.Context, id int64) (model.Product, error) {
	var pr model.Product
	res := p.db.WithContext(ctx).Where("product_id = ?", id).First(&pr)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Product{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Product{}, customErrors.WrapInternal(err, "Get product")
	}
	return pr, nil
}

func (p *PostgresProductRepo) Create(ctx context.Context, pr model.Product) (model.Product, error) {
	if err := p.db.WithContext(ctx).Create(&pr).Error; err != nil {
		return model.Product{}, customErrors.WrapInternal(err, "Create product")
	}
	return pr, nil
}

func (p *PostgresProductRepo) Update(ctx context.Context, pr model.Product) (model.Product, error) {
	if err := p.db.WithContext(ctx).Save(&pr).Error; err != nil {
		return model.Product{}, customErrors.WrapInternal(err, "Update product")
	}
	return pr, nil
}

func (p *PostgresProductRepo) Delete(ctx context.Context, pr model.Product) error {
	res := p.db.WithContext(ctx).Delete(&model.Product{}, "product_id = ?", pr.ProductID)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "Delete product")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}

func (p *PostgresProductRepo) GetProducts(ctx context.Context, params pagination.Params) (pagination.Page[model.Product], error) {
	q := p.db.Model(&model.Product{}).Order("product_id")
	return pagination.ToPagedList(ctx, pagination.FromQuery[model.Product](q), params.PageNumber, params.PageSize)
}

// GetProductsByPrice orders by price when the filter is active and by id
// otherwise.
func (p *PostgresProductRepo) GetProductsByPrice(ctx context.Context, f model.PriceFilter, params pagination.Params) (pagination.Page[model.Product], error) {
	q := p.db.Model(&model.Product{})
	if f.Active() {
		q = q.Where("price "+f.Criterion.Operator()+" ?", *f.Price).Order("price").Order("product_id")
	} else {
		q = q.Order("product_id")
	}
	return pagination.ToPagedList(ctx, pagination.FromQuery[model.Product](q), params.PageNumber, params.PageSize)
}

func (p *PostgresProductRepo) GetProductsByCategory(ctx context.Context, categoryID int64) ([]model.Product, error) {
	var ps []model.Product
	err := p.db.WithContext(ctx).Where("category_id = ?", categoryID).Order("product_id").Find(&ps).Error
	if err != nil {
		return nil, customErrors.WrapInternal(err, "GetProductsByCategory")
	}
	return ps, nil
}

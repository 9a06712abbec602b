package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/catalog/model"
	repo "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/catalog/repo"
	customErrors "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/errors"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/pkg/pagination"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductService interface {
	GetAll(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id int64) (model.Product, error)
	GetProducts(ctx context.Context, p pagination.Params) (pagination.Page[model.Product], error)
	GetProductsByPrice(ctx context.Context, q dto.PriceFilterQuery, p pagination.Params) (pagination.Page[model.Product], error)
	GetProductsByCategory(ctx context.Context, categoryID int64) ([]model.Product, error)
	Create(ctx context.Context, in dto.ProductDTO) (model.Product, error)
	Patch(ctx context.Context, id int64, in dto.ProductPatchDTO) (model.Product, error)
	Update(ctx context.Context, id int64, in dto.ProductDTO) (model.Product, error)
	Delete(ctx context.Context, id int64) (model.Product, error)
}

type productService struct {
	uow    repo.UnitOfWork
	v      *validator.Validate
	logger *zap.Logger
	now    func() time.Time
}

func NewProductService(uow repo.UnitOfWork, v *validator.Validate, logger *zap.Logger) ProductService {
	return &productService{uow: uow, v: v, logger: logger, now: time.Now}
}

func (s *productService) GetAll(ctx context.Context) ([]model.Product, error) {
	ps, err := s.uow.Products().GetAll(ctx)
	if err != nil {
		return nil, customErrors.WrapInternal(err, "GetAll products")
	}
	if len(ps) == 0 {
		return nil, customErrors.NewNotFound("No products found")
	}
	return ps, nil
}

func (s *productService) Get(ctx context.Context, id int64) (model.Product, error) {
	p, err := s.uow.Products().Get(ctx, id)
	switch {
	case customErrors.IsNotFound(err):
		return model.Product{}, productNotFound(id)
	case err != nil:
		return model.Product{}, customErrors.WrapInternal(err, "Get product")
	}
	return p, nil
}

func (s *productService) GetProducts(ctx context.Context, p pagination.Params) (pagination.Page[model.Product], error) {
	return s.uow.Products().GetProducts(ctx, p.Normalize())
}

// GetProductsByPrice filters only when both price and criterion are given.
func (s *productService) GetProductsByPrice(ctx context.Context, q dto.PriceFilterQuery, p pagination.Params) (pagination.Page[model.Product], error) {
	var f model.PriceFilter

	if q.Price != "" {
		price, err := decimal.NewFromString(q.Price)
		if err != nil {
			return pagination.Page[model.Product]{}, customErrors.NewInvalidArgument("price must be a decimal number")
		}
		f.Price = &price
	}
	if q.PriceCriterion != "" {
		c, err := model.ParseCriterion(q.PriceCriterion)
		if err != nil {
			return pagination.Page[model.Product]{}, err
		}
		f.Criterion = &c
	}

	return s.uow.Products().GetProductsByPrice(ctx, f, p.Normalize())
}

func (s *productService) GetProductsByCategory(ctx context.Context, categoryID int64) ([]model.Product, error) {
	ps, err := s.uow.Products().GetProductsByCategory(ctx, categoryID)
	if err != nil {
		return nil, customErrors.WrapInternal(err, "GetProductsByCategory")
	}
	if len(ps) == 0 {
		return nil, customErrors.NewNotFound("No products in this category")
	}
	return ps, nil
}

func (s *productService) Create(ctx context.Context, in dto.ProductDTO) (model.Product, error) {
	if err := s.v.Struct(in); err != nil {
		return model.Product{}, customErrors.NewInvalidArgument(err.Error())
	}

	p := in.ToModel()
	p.ProductID = 0

	var created model.Product
	err := s.uow.Do(ctx, func(tx repo.UnitOfWork) error {
		if _, err := tx.Categories().Get(ctx, p.CategoryID); err != nil {
			return err
		}
		var err error
		created, err = tx.Products().Create(ctx, p)
		return err
	})
	switch {
	case customErrors.IsNotFound(err):
		return model.Product{}, categoryNotFound(p.CategoryID)
	case err != nil:
		return model.Product{}, customErrors.WrapInternal(err, "Create product")
	}
	return created, nil
}

// Patch merges stock and createdAt onto the stored product and validates the
// merged record before writing it back.
func (s *productService) Patch(ctx context.Context, id int64, in dto.ProductPatchDTO) (model.Product, error) {
	if id <= 0 {
		return model.Product{}, customErrors.NewInvalidArgument("Invalid product id")
	}

	var patched model.Product
	err := s.uow.Do(ctx, func(tx repo.UnitOfWork) error {
		p, err := tx.Products().Get(ctx, id)
		if err != nil {
			return err
		}
		if err = in.ToModel().Apply(&p, s.now()); err != nil {
			return err
		}
		patched, err = tx.Products().Update(ctx, p)
		return err
	})
	switch {
	case customErrors.IsNotFound(err):
		return model.Product{}, productNotFound(id)
	case customErrors.IsInvalidArgument(err):
		return model.Product{}, err
	case err != nil:
		return model.Product{}, customErrors.WrapInternal(err, "Patch product")
	}
	return patched, nil
}

func (s *productService) Update(ctx context.Context, id int64, in dto.ProductDTO) (model.Product, error) {
	if id != in.ProductID {
		s.logger.Warn("product id mismatch", zap.Int64("path", id), zap.Int64("body", in.ProductID))
		return model.Product{}, customErrors.NewInvalidArgument("Invalid data")
	}
	if err := s.v.Struct(in); err != nil {
		return model.Product{}, customErrors.NewInvalidArgument(err.Error())
	}

	var updated model.Product
	err := s.uow.Do(ctx, func(tx repo.UnitOfWork) error {
		if _, err := tx.Products().Get(ctx, id); err != nil {
			return err
		}
		var err error
		updated, err = tx.Products().Update(ctx, in.ToModel())
		return err
	})
	switch {
	case customErrors.IsNotFound(err):
		return model.Product{}, productNotFound(id)
	case err != nil:
		return model.Product{}, customErrors.WrapInternal(err, "Update product")
	}
	return updated, nil
}

func (s *productService) Delete(ctx context.Context, id int64) (model.Product, error) {
	var deleted model.Product
	err := s.uow.Do(ctx, func(tx repo.UnitOfWork) error {
		p, err := tx.Products().Get(ctx, id)
		if err != nil {
			return err
		}
		if err = tx.Products().Delete(ctx, p); err != nil {
			return err
		}
		deleted = p
		return nil
	})
	switch {
	case customErrors.IsNotFound(err):
		s.logger.Warn("product not found", zap.Int64("id", id))
		return model.Product{}, productNotFound(id)
	case err != nil:
		return model.Product{}, customErrors.WrapInternal(err, "Delete product")
	}
	return deleted, nil
}

func productNotFound(id int64) error {
	return customErrors.NewNotFound(fmt.Sprintf("Product with id=%d not found", id))
}

package service

import (
	"context"
	"fmt"

	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/catalog/model"
	repo "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/catalog/repo"
	customErrors "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/errors"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/pkg/pagination"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type CategoryService interface {
	GetAll(ctx context.Context) ([]model.Category, error)
	Get(ctx context.Context, id int64) (model.Category, error)
	GetCategories(ctx context.Context, p pagination.Params) (pagination.Page[model.Category], error)
	GetCategoriesByName(ctx context.Context, name string, p pagination.Params) (pagination.Page[model.Category], error)
	Create(ctx context.Context, in dto.CategoryDTO) (model.Category, error)
	Update(ctx context.Context, id int64, in dto.CategoryDTO) (model.Category, error)
	Delete(ctx context.Context, id int64) (model.Category, error)
}

type categoryService struct {
	uow    repo.UnitOfWork
	v      *validator.Validate
	logger *zap.Logger
}

func NewCategoryService(uow repo.UnitOfWork, v *validator.Validate, logger *zap.Logger) CategoryService {
	return &categoryService{uow: uow, v: v, logger: logger}
}

func (s *categoryService) GetAll(ctx context.Context) ([]model.Category, error) {
	cs, err := s.uow.Categories().GetAll(ctx)
	if err != nil {
		return nil, customErrors.WrapInternal(err, "GetAll categories")
	}
	return cs, nil
}

func (s *categoryService) Get(ctx context.Context, id int64) (model.Category, error) {
	c, err := s.uow.Categories().Get(ctx, id)
	switch {
	case customErrors.IsNotFound(err):
		s.logger.Warn("category not found", zap.Int64("id", id))
		return model.Category{}, categoryNotFound(id)
	case err != nil:
		return model.Category{}, customErrors.WrapInternal(err, "Get category")
	}
	return c, nil
}

func (s *categoryService) GetCategories(ctx context.Context, p pagination.Params) (pagination.Page[model.Category], error) {
	return s.uow.Categories().GetCategories(ctx, p.Normalize())
}

func (s *categoryService) GetCategoriesByName(ctx context.Context, name string, p pagination.Params) (pagination.Page[model.Category], error) {
	return s.uow.Categories().GetCategoriesByName(ctx, name, p.Normalize())
}

func (s *categoryService) Create(ctx context.Context, in dto.CategoryDTO) (model.Category, error) {
	if err := s.v.Struct(in); err != nil {
		return model.Category{}, customErrors.NewInvalidArgument(err.Error())
	}

	c := in.ToModel()
	c.CategoryID = 0

	var created model.Category
	err := s.uow.Do(ctx, func(tx repo.UnitOfWork) error {
		var err error
		created, err = tx.Categories().Create(ctx, c)
		return err
	})
	if err != nil {
		return model.Category{}, customErrors.WrapInternal(err, "Create category")
	}
	return created, nil
}

func (s *categoryService) Update(ctx context.Context, id int64, in dto.CategoryDTO) (model.Category, error) {
	if id != in.CategoryID {
		s.logger.Warn("category id mismatch", zap.Int64("path", id), zap.Int64("body", in.CategoryID))
		return model.Category{}, customErrors.NewInvalidArgument("Invalid data")
	}
	if err := s.v.Struct(in); err != nil {
		return model.Category{}, customErrors.NewInvalidArgument(err.Error())
	}

	var updated model.Category
	err := s.uow.Do(ctx, func(tx repo.UnitOfWork) error {
		if _, err := tx.Categories().Get(ctx, id); err != nil {
			return err
		}
		var err error
		updated, err = tx.Categories().Update(ctx, in.ToModel())
		return err
	})
	switch {
	case customErrors.IsNotFound(err):
		return model.Category{}, categoryNotFound(id)
	case err != nil:
		return model.Category{}, customErrors.WrapInternal(err, "Update category")
	}
	return updated, nil
}

func (s *categoryService) Delete(ctx context.Context, id int64) (model.Category, error) {
	var deleted model.Category
	err := s.uow.Do(ctx, func(tx repo.UnitOfWork) error {
		c, err := tx.Categories().Get(ctx, id)
		if err != nil {
			return err
		}
		if err = tx.Categories().Delete(ctx, c); err != nil {
			return err
		}
		deleted = c
		return nil
	})
	switch {
	case customErrors.IsNotFound(err):
		s.logger.Warn("category not found", zap.Int64("id", id))
		return model.Category{}, categoryNotFound(id)
	case err != nil:
		return model.Category{}, customErrors.WrapInternal(err, "Delete category")
	}
	return deleted, nil
}

func categoryNotFound(id int64) error {
	return customErrors.NewNotFound(fmt.Sprintf("Category with id=%d not found", id))
}

package repo

import (
	"context"

	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/catalog/model"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/pkg/pagination"
)

type CategoryRepo interface {
	GetAll(ctx context.Context) ([]model.Category, error)

	Get(ctx context.Context, id int64) (model.Category, error)

	Create(ctx context.Context, c model.Category) (model.Category, error)

	Update(ctx context.Context, c model.Category) (model.Category, error)

	Delete(ctx context.Context, c model.Category) error

	GetCategories(ctx context.Context, p pagination.Params) (pagination.Page[model.Category], error)

	// GetCategoriesByName filters on a case-sensitive substring of the name.
	GetCategoriesByName(ctx context.Context, name string, p pagination.Params) (pagination.Page[model.Category], error)
}

type ProductRepo interface {
	GetAll(ctx context.Context) ([]model.Product, error)

	Get(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)

	Update(ctx context.Context, p model.Product) (model.Product, error)

	Delete(ctx context.Context, p model.Product) error

	GetProducts(ctx context.Context, p pagination.Params) (pagination.Page[model.Product], error)

	GetProductsByPrice(ctx context.Context, f model.PriceFilter, p pagination.Params) (pagination.Page[model.Product], error)

	GetProductsByCategory(ctx context.Context, categoryID int64) ([]model.Product, error)
}

// UnitOfWork groups the catalog repositories; Do runs fn inside one
// transaction and commits when fn returns nil.
type UnitOfWork interface {
	Categories() CategoryRepo
	Products() ProductRepo
	Do(ctx context.Context, fn func(UnitOfWork) error) error
}

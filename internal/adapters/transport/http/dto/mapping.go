package dto

import (
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/catalog/model"
)

func (d CategoryDTO) ToModel() model.Category {
	return model.Category{
		CategoryID: d.CategoryID,
		Name:       d.Name,
		ImageURL:   d.ImageURL,
	}
}

func CategoryFromModel(c model.Category) CategoryDTO {
	return CategoryDTO{
		CategoryID: c.CategoryID,
		Name:       c.Name,
		ImageURL:   c.ImageURL,
	}
}

func CategoriesFromModel(cs []model.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, CategoryFromModel(c))
	}
	return out
}

func (d ProductDTO) ToModel() model.Product {
	return model.Product{
		ProductID:   d.ProductID,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		ImageURL:    d.ImageURL,
		Stock:       d.Stock,
		CreatedAt:   d.CreatedAt,
		CategoryID:  d.CategoryID,
	}
}

func ProductFromModel(p model.Product) ProductDTO {
	return ProductDTO{
		ProductID:   p.ProductID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		CategoryID:  p.CategoryID,
	}
}

func ProductsFromModel(ps []model.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, ProductFromModel(p))
	}
	return out
}

func (d ProductPatchDTO) ToModel() model.ProductPatch {
	return model.ProductPatch{Stock: d.Stock, CreatedAt: d.CreatedAt}
}

func ProductUpdateResponseFromModel(p model.Product) ProductUpdateResponseDTO {
	return ProductUpdateResponseDTO{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
	}
}

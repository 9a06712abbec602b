package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// prices go over the wire as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

type RegisterDTO struct {
	UserName string `json:"userName" validate:"required,max=256"`
	Email    string `json:"email"    validate:"required,email,max=256"`
	Password string `json:"password" validate:"required,strongpwd"`
}

type LoginDTO struct {
	UserName string `json:"userName" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenDTO is both the refresh request and the refresh response.
type TokenDTO struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LoginResponseDTO struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	Expiration   time.Time `json:"expiration"`
}

type ResponseDTO struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type CategoryDTO struct {
	CategoryID int64  `json:"categoryId"`
	Name       string `json:"name"     validate:"required,max=80"`
	ImageURL   string `json:"imageUrl" validate:"max=300"`
}

type ProductDTO struct {
	ProductID   int64           `json:"productId"`
	Name        string          `json:"name"        validate:"required,max=80"`
	Description string          `json:"description" validate:"max=300"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"    validate:"max=300"`
	Stock       float32         `json:"stock"`
	CreatedAt   time.Time       `json:"createdAt"`
	CategoryID  int64           `json:"categoryId"  validate:"required"`
}

// ProductPatchDTO is the body of a partial update. Absent fields keep their
// stored value.
type ProductPatchDTO struct {
	Stock     *float32   `json:"stock"`
	CreatedAt *time.Time `json:"createdAt"`
}

type ProductUpdateResponseDTO struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       float32         `json:"stock"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// PriceFilterQuery binds the query of the price filter endpoint.
type PriceFilterQuery struct {
	Price          string `form:"price" binding:"omitempty,numeric"`
	PriceCriterion string `form:"priceCriterion"`
}

type NameFilterQuery struct {
	Name string `form:"name" binding:"max=80"`
}

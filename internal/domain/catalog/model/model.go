package model

import (
	"strings"
	"time"

	customErrors "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/errors"
	"github.com/shopspring/decimal"
)

type Category struct {
	CategoryID int64     `gorm:"primaryKey"`
	Name       string    `gorm:"size:80;not null"`
	ImageURL   string    `gorm:"size:300"`
	Products   []Product `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

type Product struct {
	ProductID   int64           `gorm:"primaryKey"`
	Name        string          `gorm:"size:80;not null"`
	Description string          `gorm:"size:300"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	ImageURL    string          `gorm:"size:300"`
	Stock       float32
	CreatedAt   time.Time
	CategoryID  int64 `gorm:"not null;index"`
}

// Criterion selects how a product price is compared with the filter value.
type Criterion int

const (
	CriterionGreater Criterion = iota + 1
	CriterionEqual
	CriterionLess
)

func ParseCriterion(s string) (Criterion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "greater":
		return CriterionGreater, nil
	case "equal":
		return CriterionEqual, nil
	case "less":
		return CriterionLess, nil
	default:
		return 0, customErrors.NewInvalidArgument("priceCriterion must be one of greater, equal, less")
	}
}

func (c Criterion) String() string {
	switch c {
	case CriterionGreater:
		return "greater"
	case CriterionEqual:
		return "equal"
	case CriterionLess:
		return "less"
	default:
		return "unknown"
	}
}

// Operator is the SQL comparison for the criterion.
func (c Criterion) Operator() string {
	switch c {
	case CriterionGreater:
		return ">"
	case CriterionLess:
		return "<"
	default:
		return "="
	}
}

// Match reports whether price satisfies the criterion against value.
func (c Criterion) Match(price, value decimal.Decimal) bool {
	switch c {
	case CriterionGreater:
		return price.GreaterThan(value)
	case CriterionLess:
		return price.LessThan(value)
	case CriterionEqual:
		return price.Equal(value)
	default:
		return false
	}
}

// PriceFilter is applied only when both fields are set.
type PriceFilter struct {
	Price     *decimal.Decimal
	Criterion *Criterion
}

func (f PriceFilter) Active() bool {
	return f.Price != nil && f.Criterion != nil
}

const (
	MinPatchStock = 1
	MaxPatchStock = 9999
)

// ProductPatch is a partial update of the stock fields of a product.
type ProductPatch struct {
	Stock     *float32
	CreatedAt *time.Time
}

// Apply merges the patch onto p and checks the merged result.
func (pp ProductPatch) Apply(p *Product, now time.Time) error {
	if pp.Stock != nil {
		p.Stock = *pp.Stock
	}
	if pp.CreatedAt != nil {
		p.CreatedAt = *pp.CreatedAt
	}
	if p.Stock < MinPatchStock || p.Stock > MaxPatchStock {
		return customErrors.NewInvalidArgument("stock must be between 1 and 9999")
	}
	if !p.CreatedAt.After(now) {
		return customErrors.NewInvalidArgument("createdAt must be later than the current date")
	}
	return nil
}

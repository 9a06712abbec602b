package service

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/catalog/model"
	repo "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/catalog/repo"
	customErrors "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/errors"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/pkg/pagination"
)

// memUoW is an in-memory catalog store; Do works on a copy and commits it
// only when fn succeeds.
type memUoW struct {
	mu    *sync.Mutex
	state *memState
}

type memState struct {
	categories map[int64]model.Category
	products   map[int64]model.Product
	nextID     int64
}

func newMemUoW() *memUoW {
	return &memUoW{
		mu: &sync.Mutex{},
		state: &memState{
			categories: map[int64]model.Category{},
			products:   map[int64]model.Product{},
		},
	}
}

func (s *memState) clone() *memState {
	c := &memState{
		categories: make(map[int64]model.Category, len(s.categories)),
		products:   make(map[int64]model.Product, len(s.products)),
		nextID:     s.nextID,
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	return c
}

func (u *memUoW) Categories() repo.CategoryRepo { return memCategories{u.state} }
func (u *memUoW) Products() repo.ProductRepo    { return memProducts{u.state} }

func (u *memUoW) Do(_ context.Context, fn func(repo.UnitOfWork) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	tx := &memUoW{mu: &sync.Mutex{}, state: u.state.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	*u.state = *tx.state
	return nil
}

type memCategories struct{ s *memState }

func (m memCategories) sorted() []model.Category {
	out := make([]model.Category, 0, len(m.s.categories))
	for _, c := range m.s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryID < out[j].CategoryID })
	return out
}

func (m memCategories) GetAll(context.Context) ([]model.Category, error) {
	return m.sorted(), nil
}

func (m memCategories) Get(_ context.Context, id int64) (model.Category, error) {
	c, ok := m.s.categories[id]
	if !ok {
		return model.Category{}, customErrors.ErrNotFound
	}
	return c, nil
}

func (m memCategories) Create(_ context.Context, c model.Category) (model.Category, error) {
	m.s.nextID++
	c.CategoryID = m.s.nextID
	m.s.categories[c.CategoryID] = c
	return c, nil
}

func (m memCategories) Update(_ context.Context, c model.Category) (model.Category, error) {
	m.s.categories[c.CategoryID] = c
	return c, nil
}

func (m memCategories) Delete(_ context.Context, c model.Category) error {
	delete(m.s.categories, c.CategoryID)
	for id, p := range m.s.products {
		if p.CategoryID == c.CategoryID {
			delete(m.s.products, id)
		}
	}
	return nil
}

func (m memCategories) GetCategories(ctx context.Context, p pagination.Params) (pagination.Page[model.Category], error) {
	return pagination.ToPagedList(ctx, pagination.FromSlice(m.sorted()), p.PageNumber, p.PageSize)
}

func (m memCategories) GetCategoriesByName(ctx context.Context, name string, p pagination.Params) (pagination.Page[model.Category], error) {
	all := m.sorted()
	if name != "" {
		all = slices.DeleteFunc(all, func(c model.Category) bool { return !strings.Contains(c.Name, name) })
	}
	return pagination.ToPagedList(ctx, pagination.FromSlice(all), p.PageNumber, p.PageSize)
}

type memProducts struct{ s *memState }

func (m memProducts) sorted() []model.Product {
	out := make([]model.Product, 0, len(m.s.products))
	for _, p := range m.s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func (m memProducts) GetAll(context.Context) ([]model.Product, error) {
	return m.sorted(), nil
}

func (m memProducts) Get(_ context.Context, id int64) (model.Product, error) {
	p, ok := m.s.products[id]
	if !ok {
		return model.Product{}, customErrors.ErrNotFound
	}
	return p, nil
}

func (m memProducts) Create(_ context.Context, p model.Product) (model.Product, error) {
	m.s.nextID++
	p.ProductID = m.s.nextID
	m.s.products[p.ProductID] = p
	return p, nil
}

func (m memProducts) Update(_ context.Context, p model.Product) (model.Product, error) {
	m.s.products[p.ProductID] = p
	return p, nil
}

func (m memProducts) Delete(_ context.Context, p model.Product) error {
	delete(m.s.products, p.ProductID)
	return nil
}

func (m memProducts) GetProducts(ctx context.Context, p pagination.Params) (pagination.Page[model.Product], error) {
	return pagination.ToPagedList(ctx, pagination.FromSlice(m.sorted()), p.PageNumber, p.PageSize)
}

func (m memProducts) GetProductsByPrice(ctx context.Context, f model.PriceFilter, p pagination.Params) (pagination.Page[model.Product], error) {
	all := m.sorted()
	if f.Active() {
		all = slices.DeleteFunc(all, func(pr model.Product) bool { return !f.Criterion.Match(pr.Price, *f.Price) })
		sort.SliceStable(all, func(i, j int) bool { return all[i].Price.LessThan(all[j].Price) })
	}
	return pagination.ToPagedList(ctx, pagination.FromSlice(all), p.PageNumber, p.PageSize)
}

func (m memProducts) GetProductsByCategory(_ context.Context, categoryID int64) ([]model.Product, error) {
	return slices.DeleteFunc(m.sorted(), func(p model.Product) bool { return p.CategoryID != categoryID }), nil
}

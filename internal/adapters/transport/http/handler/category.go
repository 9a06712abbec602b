package handler

import (
	"fmt"
	"net/http"

	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/adapters/transport/http/dto"
	catalogsvc "github.com/Miraines/MoonyAndStarry/catalog-service/internal/app/catalog/service"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/pkg/pagination"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	svc catalogsvc.CategoryService
}

func NewCategoryHandler(svc catalogsvc.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func (h *CategoryHandler) GetAll(c *gin.Context) {
	cs, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CategoriesFromModel(cs))
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	cat, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CategoryFromModel(cat))
}

func (h *CategoryHandler) GetPaged(c *gin.Context) {
	p, ok := pageParams(c)
	if !ok {
		return
	}
	page, err := h.svc.GetCategories(c.Request.Context(), p)
	if err != nil {
		handleError(c, err)
		return
	}
	h.writePage(c, pagination.Map(page, dto.CategoryFromModel))
}

func (h *CategoryHandler) GetFilteredByName(c *gin.Context) {
	p, ok := pageParams(c)
	if !ok {
		return
	}
	var q dto.NameFilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "name filter must be at most 80 characters")
		return
	}

	page, err := h.svc.GetCategoriesByName(c.Request.Context(), q.Name, p)
	if err != nil {
		handleError(c, err)
		return
	}
	h.writePage(c, pagination.Map(page, dto.CategoryFromModel))
}

func (h *CategoryHandler) writePage(c *gin.Context, page pagination.Page[dto.CategoryDTO]) {
	SetPaginationHeader(c, page.Metadata())
	c.JSON(http.StatusOK, page.Items)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var in dto.CategoryDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid data")
		return
	}
	cat, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/categories/%d", cat.CategoryID))
	c.JSON(http.StatusCreated, dto.CategoryFromModel(cat))
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in dto.CategoryDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid data")
		return
	}
	cat, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CategoryFromModel(cat))
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	cat, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CategoryFromModel(cat))
}

package handler

import (
	"fmt"
	"net/http"

	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/adapters/transport/http/dto"
	catalogsvc "github.com/Miraines/MoonyAndStarry/catalog-service/internal/app/catalog/service"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/pkg/pagination"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	svc catalogsvc.ProductService
}

func NewProductHandler(svc catalogsvc.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func (h *ProductHandler) GetAll(c *gin.Context) {
	ps, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProductsFromModel(ps))
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProductFromModel(p))
}

func (h *ProductHandler) GetByCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	ps, err := h.svc.GetProductsByCategory(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProductsFromModel(ps))
}

func (h *ProductHandler) GetPaged(c *gin.Context) {
	p, ok := pageParams(c)
	if !ok {
		return
	}
	page, err := h.svc.GetProducts(c.Request.Context(), p)
	if err != nil {
		handleError(c, err)
		return
	}
	h.writePage(c, pagination.Map(page, dto.ProductFromModel))
}

func (h *ProductHandler) GetFilteredByPrice(c *gin.Context) {
	p, ok := pageParams(c)
	if !ok {
		return
	}
	var q dto.PriceFilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "price must be a decimal number")
		return
	}

	page, err := h.svc.GetProductsByPrice(c.Request.Context(), q, p)
	if err != nil {
		handleError(c, err)
		return
	}
	h.writePage(c, pagination.Map(page, dto.ProductFromModel))
}

func (h *ProductHandler) writePage(c *gin.Context, page pagination.Page[dto.ProductDTO]) {
	SetPaginationHeader(c, page.Metadata())
	c.JSON(http.StatusOK, page.Items)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var in dto.ProductDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid data")
		return
	}
	p, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/products/%d", p.ProductID))
	c.JSON(http.StatusCreated, dto.ProductFromModel(p))
}

func (h *ProductHandler) Patch(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in dto.ProductPatchDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid data")
		return
	}
	p, err := h.svc.Patch(c.Request.Context(), id, in)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProductUpdateResponseFromModel(p))
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in dto.ProductDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid data")
		return
	}
	p, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProductFromModel(p))
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	p, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProductFromModel(p))
}

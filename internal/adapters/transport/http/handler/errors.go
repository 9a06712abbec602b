package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/adapters/transport/http/dto"
	customErrors "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/errors"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/pkg/pagination"
	"github.com/gin-gonic/gin"
)

const PaginationHeader = "X-Pagination"

// handleError maps domain errors to HTTP statuses. Internal details stay in
// c.Errors for the request logger and never reach the body.
func handleError(c *gin.Context, err error) {
	status, msg := http.StatusInternalServerError, "internal error"
	switch {
	case customErrors.IsInvalidArgument(err):
		status, msg = http.StatusBadRequest, err.Error()
	case customErrors.IsInvalidCredentials(err):
		status, msg = http.StatusUnauthorized, "invalid credentials"
	case customErrors.IsInvalidToken(err):
		status, msg = http.StatusUnauthorized, "invalid token"
	case customErrors.IsForbidden(err):
		status, msg = http.StatusForbidden, "forbidden"
	case customErrors.IsNotFound(err):
		status, msg = http.StatusNotFound, err.Error()
	case customErrors.IsAlreadyExists(err):
		status, msg = http.StatusConflict, err.Error()
	default:
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.ResponseDTO{Status: "Error", Message: msg})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ResponseDTO{Status: "Error", Message: msg})
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "id must be an integer")
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) (pagination.Params, bool) {
	var p pagination.Params
	if err := c.ShouldBindQuery(&p); err != nil {
		badRequest(c, "pageNumber and pageSize must be integers")
		return p, false
	}
	return p, true
}

// SetPaginationHeader writes the page metadata as JSON into X-Pagination.
func SetPaginationHeader(c *gin.Context, m pagination.Metadata) {
	b, err := json.Marshal(m)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Header(PaginationHeader, string(b))
}

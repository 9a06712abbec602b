package handler

import (
	"fmt"
	"net/http"

	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/adapters/transport/http/dto"
	appsvc "github.com/Miraines/MoonyAndStarry/catalog-service/internal/app/auth/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc appsvc.Service
}

func NewAuthHandler(svc appsvc.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in dto.LoginDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), in)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponseDTO{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Expiration:   pair.Expiration,
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in dto.RegisterDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	if err := h.svc.Register(c.Request.Context(), in); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ResponseDTO{Status: "Success", Message: "User created successfully"})
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var in dto.TokenDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid client request")
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), in)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenDTO{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *AuthHandler) Revoke(c *gin.Context) {
	if err := h.svc.Revoke(c.Request.Context(), c.Param("username")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) CreateRole(c *gin.Context) {
	name := c.Query("roleName")
	if err := h.svc.CreateRole(c.Request.Context(), name); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ResponseDTO{
		Status:  "Success",
		Message: fmt.Sprintf("Role %s created successfully", name),
	})
}

func (h *AuthHandler) AddUserToRole(c *gin.Context) {
	email := c.Query("userEmail")
	if email == "" {
		email = c.Query("email")
	}
	role := c.Query("roleName")
	if err := h.svc.AddUserToRole(c.Request.Context(), email, role); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ResponseDTO{
		Status:  "Success",
		Message: fmt.Sprintf("User %s added to role %s", email, role),
	})
}

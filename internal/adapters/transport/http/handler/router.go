package handler

import (
	"net/http"

	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/adapters/transport/http/middleware"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/auth/policy"
	"github.com/gin-gonic/gin"
)

// Deps wires the HTTP surface. Metrics and Health are optional.
type Deps struct {
	Auth           *AuthHandler
	Categories     *CategoryHandler
	Products       *ProductHandler
	Authenticator  middleware.Authenticator
	ExclusiveUsers []string
	RateLimit      gin.HandlerFunc
	Health         Pinger
	Metrics        http.Handler
}

func RegisterRoutes(r gin.IRouter, d Deps) {
	if d.Health != nil {
		r.GET("/health", Health(d.Health))
	}
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics))
	}

	requireAuth := middleware.RequireAuth(d.Authenticator)
	api := r.Group("/api")

	auth := api.Group("/Auth")
	{
		auth.POST("/login", d.Auth.Login)
		auth.POST("/register", d.Auth.Register)
		auth.POST("/refresh-token", d.Auth.RefreshToken)
		auth.POST("/revoke/:username", requireAuth,
			middleware.RequirePolicy(policy.ExclusiveOnly(d.ExclusiveUsers)), d.Auth.Revoke)
		auth.POST("/CreateRole", requireAuth,
			middleware.RequirePolicy(policy.SuperAdminOnly()), d.Auth.CreateRole)
		auth.POST("/AddUserToRole", requireAuth,
			middleware.RequirePolicy(policy.SuperAdminOnly()), d.Auth.AddUserToRole)
	}

	categories := api.Group("/categories")
	categories.GET("", d.Categories.GetAll)
	limited := categories.Group("")
	if d.RateLimit != nil {
		limited.Use(d.RateLimit)
	}
	{
		limited.GET("/pagination", d.Categories.GetPaged)
		limited.GET("/filter/name/pagination", d.Categories.GetFilteredByName)
		limited.GET("/:id", d.Categories.Get)
		limited.POST("", d.Categories.Create)
		limited.PUT("/:id", d.Categories.Update)
		limited.DELETE("/:id", requireAuth,
			middleware.RequirePolicy(policy.AdminOnly()), d.Categories.Delete)
	}

	products := api.Group("/products")
	{
		products.GET("", d.Products.GetAll)
		products.GET("/pagination", d.Products.GetPaged)
		products.GET("/filter/price/pagination", d.Products.GetFilteredByPrice)
		products.GET("/category/:id", d.Products.GetByCategory)
		products.GET("/:id", d.Products.Get)
		products.POST("", d.Products.Create)
		products.PATCH("/:id/UpdatePartial", d.Products.Patch)
		products.PUT("/:id", d.Products.Update)
		products.DELETE("/:id", d.Products.Delete)
	}
}

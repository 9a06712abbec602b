package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/adapters/db/postgres"
	redisrepo "github.com/Miraines/MoonyAndStarry/catalog-service/internal/adapters/db/redis"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/adapters/transport/http/middleware"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/app/auth/jwt"
	authsvc "github.com/Miraines/MoonyAndStarry/catalog-service/internal/app/auth/service"
	catalogsvc "github.com/Miraines/MoonyAndStarry/catalog-service/internal/app/catalog/service"
	authmodel "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/auth/model"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/catalog/model"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/infra/config"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/infra/validation"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/pkg/pagination"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const strongPassword = "Str0ng!pass"

type testApp struct {
	router *gin.Engine
	users  *postgres.PostgresUserRepo
	roles  *postgres.PostgresRoleRepo
}

func newTestApp(t *testing.T, permits int) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&authmodel.Role{}, &authmodel.User{}, &model.Category{}, &model.Product{}))

	mr := miniredis.RunT(t)
	rdb := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		PasswordPepper: "pepper",
		ExclusiveUsers: []string{"boss"},
		JWT: config.JWTConfig{
			SecretKey:                     "handler-test-secret",
			ValidIssuer:                   "test",
			ValidAudience:                 "test",
			TokenValidityInMinutes:        30,
			RefreshTokenValidityInMinutes: 60,
		},
	}
	util, err := jwt.NewJWTUtil(cfg.JWT)
	require.NoError(t, err)

	users := postgres.NewPostgresUserRepo(db)
	roles := postgres.NewPostgresRoleRepo(db)
	for _, name := range []string{authmodel.RoleAdmin, authmodel.RoleSuperAdmin, authmodel.RoleUser} {
		require.NoError(t, roles.CreateRole(context.Background(), authmodel.Role{ID: uuid.New(), Name: name}))
	}

	v := validation.New()
	log := zap.NewNop()
	auth := authsvc.New(users, roles, redisrepo.NewRedisTokenRepo(rdb), util, cfg, v, log)
	uow := postgres.NewUnitOfWork(db)

	r := gin.New()
	RegisterRoutes(r, Deps{
		Auth:           NewAuthHandler(auth),
		Categories:     NewCategoryHandler(catalogsvc.NewCategoryService(uow, v, log)),
		Products:       NewProductHandler(catalogsvc.NewProductService(uow, v, log)),
		Authenticator:  auth,
		ExclusiveUsers: cfg.ExclusiveUsers,
		RateLimit:      middleware.NewFixedWindowPerIP(permits, time.Minute, 100),
	})

	return &testApp{router: r, users: users, roles: roles}
}

func (a *testApp) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.1:1234"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) signup(t *testing.T, name string, roles ...string) dto.LoginResponseDTO {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/Auth/register", dto.RegisterDTO{
		UserName: name, Email: name + "@example.com", Password: strongPassword,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	ctx := context.Background()
	u, err := a.users.GetUserByUsername(ctx, name)
	require.NoError(t, err)
	for _, r := range roles {
		role, err := a.roles.GetRoleByName(ctx, r)
		require.NoError(t, err)
		require.NoError(t, a.users.AddUserToRole(ctx, u.ID, role.ID))
	}

	w = a.do(t, http.MethodPost, "/api/Auth/login", dto.LoginDTO{UserName: name, Password: strongPassword}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out dto.LoginResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAuth_RegisterValidationAndConflict(t *testing.T) {
	app := newTestApp(t, 100)
	app.signup(t, "alice")

	w := app.do(t, http.MethodPost, "/api/Auth/register", dto.RegisterDTO{
		UserName: "alice", Email: "new@example.com", Password: strongPassword,
	}, "")
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "User already exists")

	w = app.do(t, http.MethodPost, "/api/Auth/register", dto.RegisterDTO{
		UserName: "bob", Email: "bob@example.com", Password: "weak",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/api/Auth/login", dto.LoginDTO{UserName: "alice", Password: "Wr0ng!pass"}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_RefreshRotation(t *testing.T) {
	app := newTestApp(t, 100)
	login := app.signup(t, "alice")
	require.WithinDuration(t, time.Now().Add(30*time.Minute), login.Expiration, 2*time.Second)

	req := dto.TokenDTO{AccessToken: login.Token, RefreshToken: login.RefreshToken}
	w := app.do(t, http.MethodPost, "/api/Auth/refresh-token", req, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var next dto.TokenDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &next))
	require.NotEmpty(t, next.AccessToken)
	require.NotEqual(t, login.RefreshToken, next.RefreshToken)

	w = app.do(t, http.MethodPost, "/api/Auth/refresh-token", req, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/api/Auth/refresh-token", dto.TokenDTO{AccessToken: login.Token}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuth_RevokeRequiresExclusivePolicy(t *testing.T) {
	app := newTestApp(t, 100)
	alice := app.signup(t, "alice")
	boss := app.signup(t, "boss")

	// a live token without the Admin role is forbidden, not unauthorized
	require.Equal(t, http.StatusForbidden, app.do(t, http.MethodDelete, "/api/categories/1", nil, alice.Token).Code)

	require.Equal(t, http.StatusForbidden, app.do(t, http.MethodPost, "/api/Auth/revoke/boss", nil, alice.Token).Code)
	require.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodPost, "/api/Auth/revoke/alice", nil, "").Code)
	require.Equal(t, http.StatusNotFound, app.do(t, http.MethodPost, "/api/Auth/revoke/ghost", nil, boss.Token).Code)
	require.Equal(t, http.StatusNoContent, app.do(t, http.MethodPost, "/api/Auth/revoke/alice", nil, boss.Token).Code)

	w := app.do(t, http.MethodPost, "/api/Auth/refresh-token",
		dto.TokenDTO{AccessToken: alice.Token, RefreshToken: alice.RefreshToken}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	require.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodDelete, "/api/categories/1", nil, alice.Token).Code)

	w = app.do(t, http.MethodPost, "/api/Auth/login", dto.LoginDTO{UserName: "alice", Password: strongPassword}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var relogin dto.LoginResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &relogin))
	require.Equal(t, http.StatusForbidden, app.do(t, http.MethodDelete, "/api/categories/1", nil, relogin.Token).Code,
		"token from a login after the revoke is authenticated")
}

func TestAuth_RoleManagement(t *testing.T) {
	app := newTestApp(t, 100)
	root := app.signup(t, "root", authmodel.RoleSuperAdmin)
	plain := app.signup(t, "plain")

	require.Equal(t, http.StatusForbidden,
		app.do(t, http.MethodPost, "/api/Auth/CreateRole?roleName=Manager", nil, plain.Token).Code)
	require.Equal(t, http.StatusCreated,
		app.do(t, http.MethodPost, "/api/Auth/CreateRole?roleName=Manager", nil, root.Token).Code)
	require.Equal(t, http.StatusBadRequest,
		app.do(t, http.MethodPost, "/api/Auth/CreateRole?roleName=Manager", nil, root.Token).Code)

	require.Equal(t, http.StatusOK,
		app.do(t, http.MethodPost, "/api/Auth/AddUserToRole?email=plain@example.com&roleName=Manager", nil, root.Token).Code)
	require.Equal(t, http.StatusNotFound,
		app.do(t, http.MethodPost, "/api/Auth/AddUserToRole?email=ghost@example.com&roleName=Manager", nil, root.Token).Code)
	require.Equal(t, http.StatusNotFound,
		app.do(t, http.MethodPost, "/api/Auth/AddUserToRole?email=plain@example.com&roleName=Ghost", nil, root.Token).Code)

	require.Equal(t, http.StatusCreated,
		app.do(t, http.MethodPost, "/api/Auth/CreateRole?roleName=Auditor", nil, root.Token).Code)
	w := app.do(t, http.MethodPost, "/api/Auth/AddUserToRole?userEmail=plain@example.com&roleName=Auditor", nil, root.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), "plain@example.com")
}

func TestCategories_CRUDAndPagination(t *testing.T) {
	app := newTestApp(t, 100)
	admin := app.signup(t, "admin", authmodel.RoleAdmin)

	for _, n := range []string{"Drinks", "drinkware", "Snacks", "Soft Drinks", "Sweets"} {
		w := app.do(t, http.MethodPost, "/api/categories", dto.CategoryDTO{Name: n}, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		require.NotEmpty(t, w.Header().Get("Location"))
	}

	w := app.do(t, http.MethodGet, "/api/categories/pagination?pageNumber=2&pageSize=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var meta pagination.Metadata
	require.NoError(t, json.Unmarshal([]byte(w.Header().Get(PaginationHeader)), &meta))
	require.Equal(t, pagination.Metadata{
		TotalCount: 5, PageSize: 2, CurrentPage: 2, TotalPages: 3, HasNext: true, HasPrevious: true,
	}, meta)
	require.Contains(t, w.Header().Get(PaginationHeader), `"TotalCount":5`)

	var items []dto.CategoryDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 2)
	require.Equal(t, "Snacks", items[0].Name)

	w = app.do(t, http.MethodGet, "/api/categories/filter/name/pagination?name=Drinks", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 2)

	require.Equal(t, http.StatusBadRequest, app.do(t, http.MethodGet, "/api/categories/pagination?pageSize=abc", nil, "").Code)
	w = app.do(t, http.MethodGet, "/api/categories/filter/name/pagination?name="+strings.Repeat("x", 81), nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "at most 80 characters")

	w = app.do(t, http.MethodPut, "/api/categories/1", dto.CategoryDTO{CategoryID: 2, Name: "x"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = app.do(t, http.MethodPut, "/api/categories/1", dto.CategoryDTO{CategoryID: 1, Name: "Beverages"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	require.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodDelete, "/api/categories/1", nil, "").Code)
	require.Equal(t, http.StatusOK, app.do(t, http.MethodDelete, "/api/categories/1", nil, admin.Token).Code)
	require.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/api/categories/1", nil, "").Code)

	w = app.do(t, http.MethodGet, "/api/categories", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 4)
}

func TestCategories_RateLimited(t *testing.T) {
	app := newTestApp(t, 2)

	require.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/api/categories/pagination", nil, "").Code)
	require.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/api/categories/pagination", nil, "").Code)
	require.Equal(t, http.StatusTooManyRequests, app.do(t, http.MethodGet, "/api/categories/pagination", nil, "").Code)

	// listing everything is exempt
	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/api/categories", nil, "").Code)
	}
}

func TestProducts_Flow(t *testing.T) {
	app := newTestApp(t, 100)

	require.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/api/products", nil, "").Code)

	w := app.do(t, http.MethodPost, "/api/categories", dto.CategoryDTO{Name: "Stationery"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var cat dto.CategoryDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cat))

	var ids []int64
	for _, price := range []int64{5, 10, 15} {
		w = app.do(t, http.MethodPost, "/api/products", dto.ProductDTO{
			Name: "p", Price: decimal.NewFromInt(price), Stock: 1, CategoryID: cat.CategoryID,
		}, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var p dto.ProductDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
		ids = append(ids, p.ProductID)
	}

	w = app.do(t, http.MethodGet, "/api/products/filter/price/pagination?price=10&priceCriterion=greater", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var ps []dto.ProductDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ps))
	require.Len(t, ps, 1)
	require.True(t, ps[0].Price.Equal(decimal.NewFromInt(15)))
	require.Contains(t, w.Body.String(), `"price":15`)

	w = app.do(t, http.MethodGet, "/api/products/filter/price/pagination?price=10&priceCriterion=bigger", nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodGet, "/api/products/filter/price/pagination?price=ten&priceCriterion=greater", nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "price must be a decimal number")
	require.Empty(t, w.Header().Get(PaginationHeader))

	w = app.do(t, http.MethodGet, "/api/products/category/"+itoa(cat.CategoryID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ps))
	require.Len(t, ps, 3)
	require.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/api/products/category/999", nil, "").Code)

	future := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	stock := float32(20)
	w = app.do(t, http.MethodPatch, "/api/products/"+itoa(ids[0])+"/UpdatePartial",
		dto.ProductPatchDTO{Stock: &stock, CreatedAt: &future}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var patched dto.ProductUpdateResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &patched))
	require.Equal(t, float32(20), patched.Stock)

	tooMuch := float32(10000)
	w = app.do(t, http.MethodPatch, "/api/products/"+itoa(ids[0])+"/UpdatePartial",
		dto.ProductPatchDTO{Stock: &tooMuch}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodGet, "/api/products/pagination?pageNumber=1&pageSize=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get(PaginationHeader), `"HasNext":true`)

	require.Equal(t, http.StatusOK, app.do(t, http.MethodDelete, "/api/products/"+itoa(ids[1]), nil, "").Code)
	require.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/api/products/"+itoa(ids[1]), nil, "").Code)
	require.Equal(t, http.StatusBadRequest, app.do(t, http.MethodGet, "/api/products/abc", nil, "").Code)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

package httpserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vmkazarin/online_store/internal/hash"
	"github.com/vmkazarin/online_store/internal/httpserver"
	authmw "github.com/vmkazarin/online_store/internal/middleware/auth"
	"github.com/vmkazarin/online_store/internal/models"
	"github.com/vmkazarin/online_store/internal/repo"
	"github.com/vmkazarin/online_store/internal/service"
	"github.com/vmkazarin/online_store/internal/tokens"
)

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB
}

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Address{},
		&models.WishlistItem{},
		&models.Review{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

// newTestEnv wires the full router against an in-memory database, so tests
// exercise routing, auth middleware and handlers together. No kafka producer
// is configured; event publishing is a no-op.
func newTestEnv(t *testing.T) *testEnv {
	db := initTestDB(t)

	manager, err := tokens.NewManager(
		[]byte("test_jwt_secret"),
		[]byte("test_refresh_secret"),
		"HS256",
		15*time.Minute,
		24*time.Hour,
	)
	require.NoError(t, err)

	store := &repo.GormRepo{DB: db}
	catalogSvc := &service.CatalogService{Repo: store}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	httpserver.Register(e, &httpserver.Deps{
		Auth:            authmw.New(manager),
		AuthHandler:     &httpserver.AuthHTTP{Svc: &service.AuthService{Repo: store, Tokens: manager}},
		UserHandler:     &httpserver.UserHTTP{Svc: &service.UserService{Repo: store}},
		ProductHandler:  &httpserver.ProductHTTP{Svc: catalogSvc},
		CategoryHandler: &httpserver.CategoryHTTP{Svc: catalogSvc},
		CartHandler:     &httpserver.CartHTTP{Svc: &service.CartService{Repo: store}},
		OrderHandler:    &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: store}},
		WishlistHandler: &httpserver.WishlistHTTP{Svc: &service.WishlistService{Repo: store}},
		ReviewHandler:   &httpserver.ReviewHTTP{Svc: &service.ReviewService{Repo: store}},
		AddressHandler:  &httpserver.AddressHTTP{Svc: &service.AddressService{Repo: store}},
	})

	return &testEnv{T: t, E: e, DB: db}
}

func (env *testEnv) doJSONRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func registerAndLogin(t *testing.T, env *testEnv, email string) (string, string) {
	t.Helper()

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/register", map[string]string{
		"name":     "test_user",
		"email":    email,
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	recLogin := env.doJSONRequest(http.MethodPost, "/api/v1/login", map[string]string{
		"email":    email,
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, recLogin.Code)

	var pair tokenPair
	require.NoError(t, json.Unmarshal(recLogin.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	// the access TTL configured in newTestEnv, give or take request time
	require.InDelta(t, (15 * time.Minute).Seconds(), pair.ExpiresIn, 2)
	return pair.AccessToken, pair.RefreshToken
}

func login(t *testing.T, env *testEnv) (string, string) {
	t.Helper()
	return registerAndLogin(t, env, "user@example.com")
}

func loginAdmin(t *testing.T, env *testEnv) (string, string) {
	t.Helper()

	pwHash, err := hash.HashPassword("admin_password")
	require.NoError(t, err)
	admin := models.User{
		Name:         "test_admin",
		Email:        "admin@example.com",
		PasswordHash: pwHash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	require.NoError(t, env.DB.Create(&admin).Error)

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/login", map[string]string{
		"email":    "admin@example.com",
		"password": "admin_password",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var pair tokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)
	return pair.AccessToken, pair.RefreshToken
}

func seedProduct(t *testing.T, env *testEnv, name, price string, stock int) models.Product {
	t.Helper()

	product := models.Product{
		Name:        name,
		Description: "seeded",
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
	}
	require.NoError(t, env.DB.Create(&product).Error)
	return product
}

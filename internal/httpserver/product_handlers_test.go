package httpserver_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vmkazarin/online_store/internal/models"
)

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)
	product := seedProduct(t, env, "test_name", "9.99", 5)

	rec := env.doJSONRequest(http.MethodGet, fmt.Sprintf("/api/v1/products/%d", product.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, product.ID, got.ID)
	require.Equal(t, "test_name", got.Name)
	require.True(t, got.Price.Equal(decimal.RequireFromString("9.99")))
	require.Equal(t, 5, got.Stock)

	recMissing := env.doJSONRequest(http.MethodGet, "/api/v1/products/999", nil, "")
	require.Equal(t, http.StatusNotFound, recMissing.Code)

	recBadID := env.doJSONRequest(http.MethodGet, "/api/v1/products/abc", nil, "")
	require.Equal(t, http.StatusBadRequest, recBadID.Code)
}

type productPage struct {
	Data []models.Product `json:"data"`
	Meta struct {
		Page       int   `json:"page"`
		Size       int   `json:"size"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"total_pages"`
		HasPrev    bool  `json:"has_prev"`
		HasNext    bool  `json:"has_next"`
	} `json:"meta"`
}

func TestGetProductsPagination(t *testing.T) {
	env := newTestEnv(t)
	for i := 1; i <= 25; i++ {
		seedProduct(t, env, fmt.Sprintf("product_%02d", i), "1.00", 1)
	}

	seen := map[uint]bool{}
	var prevMaxID uint
	for page := 1; page <= 3; page++ {
		rec := env.doJSONRequest(http.MethodGet, fmt.Sprintf("/api/v1/products?page=%d&size=10", page), nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp productPage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.EqualValues(t, 25, resp.Meta.Total)
		require.EqualValues(t, 3, resp.Meta.TotalPages)
		require.Equal(t, page > 1, resp.Meta.HasPrev)
		require.Equal(t, page < 3, resp.Meta.HasNext)

		if page < 3 {
			require.Len(t, resp.Data, 10)
		} else {
			require.Len(t, resp.Data, 5)
		}

		// id-ordered pages never overlap and never skip backwards
		for _, p := range resp.Data {
			require.False(t, seen[p.ID], "product %d returned twice", p.ID)
			seen[p.ID] = true
			require.Greater(t, p.ID, prevMaxID)
			prevMaxID = p.ID
		}
	}
	require.Len(t, seen, 25)
}

func TestGetProductsCategoryFilter(t *testing.T) {
	env := newTestEnv(t)

	books := models.Category{Name: "books"}
	toys := models.Category{Name: "toys"}
	require.NoError(t, env.DB.Create(&books).Error)
	require.NoError(t, env.DB.Create(&toys).Error)

	for i := 0; i < 3; i++ {
		p := seedProduct(t, env, fmt.Sprintf("book_%d", i), "5.00", 1)
		require.NoError(t, env.DB.Model(&p).Update("category_id", books.ID).Error)
	}
	p := seedProduct(t, env, "toy_0", "5.00", 1)
	require.NoError(t, env.DB.Model(&p).Update("category_id", toys.ID).Error)

	rec := env.doJSONRequest(http.MethodGet, fmt.Sprintf("/api/v1/products?category_id=%d", books.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp productPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.EqualValues(t, 3, resp.Meta.Total)
	for _, item := range resp.Data {
		require.Equal(t, books.ID, item.CategoryID)
	}
}

func TestCreateProduct(t *testing.T) {
	env := newTestEnv(t)
	adminToken, _ := loginAdmin(t, env)

	payload := map[string]any{
		"name":        "test_name",
		"description": "test_description",
		"price":       "19.90",
		"stock":       3,
	}
	rec := env.doJSONRequest(http.MethodPost, "/api/v1/admin/products", payload, adminToken)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, "test_name", created.Name)
	require.True(t, created.Price.Equal(decimal.RequireFromString("19.90")))
	require.Equal(t, 3, created.Stock)
}

func TestCreateProductValidation(t *testing.T) {
	env := newTestEnv(t)
	adminToken, _ := loginAdmin(t, env)

	recEmptyName := env.doJSONRequest(http.MethodPost, "/api/v1/admin/products", map[string]any{
		"name": "", "price": "1.00", "stock": 1,
	}, adminToken)
	require.Equal(t, http.StatusBadRequest, recEmptyName.Code)

	recNegPrice := env.doJSONRequest(http.MethodPost, "/api/v1/admin/products", map[string]any{
		"name": "x", "price": "-1.00", "stock": 1,
	}, adminToken)
	require.Equal(t, http.StatusBadRequest, recNegPrice.Code)

	recNegStock := env.doJSONRequest(http.MethodPost, "/api/v1/admin/products", map[string]any{
		"name": "x", "price": "1.00", "stock": -1,
	}, adminToken)
	require.Equal(t, http.StatusBadRequest, recNegStock.Code)

	recBadCategory := env.doJSONRequest(http.MethodPost, "/api/v1/admin/products", map[string]any{
		"name": "x", "price": "1.00", "stock": 1, "category_id": 42,
	}, adminToken)
	require.Equal(t, http.StatusBadRequest, recBadCategory.Code)
}

func TestProductAdminGates(t *testing.T) {
	env := newTestEnv(t)
	customerToken, _ := login(t, env)

	payload := map[string]any{"name": "x", "price": "1.00", "stock": 1}

	recNoToken := env.doJSONRequest(http.MethodPost, "/api/v1/admin/products", payload, "")
	require.Equal(t, http.StatusUnauthorized, recNoToken.Code)

	recCustomer := env.doJSONRequest(http.MethodPost, "/api/v1/admin/products", payload, customerToken)
	require.Equal(t, http.StatusForbidden, recCustomer.Code)
}

func TestPatchProduct(t *testing.T) {
	env := newTestEnv(t)
	adminToken, _ := loginAdmin(t, env)
	product := seedProduct(t, env, "before", "10.00", 1)

	rec := env.doJSONRequest(http.MethodPatch, fmt.Sprintf("/api/v1/admin/products/%d", product.ID), map[string]any{
		"name":  "after",
		"price": "12.50",
		"stock": 7,
	}, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)

	var patched models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patched))
	require.Equal(t, "after", patched.Name)
	require.True(t, patched.Price.Equal(decimal.RequireFromString("12.50")))
	require.Equal(t, 7, patched.Stock)

	recMissing := env.doJSONRequest(http.MethodPatch, "/api/v1/admin/products/999", map[string]any{
		"name": "whatever",
	}, adminToken)
	require.Equal(t, http.StatusNotFound, recMissing.Code)
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	adminToken, _ := loginAdmin(t, env)
	product := seedProduct(t, env, "doomed", "1.00", 1)

	rec := env.doJSONRequest(http.MethodDelete, fmt.Sprintf("/api/v1/admin/products/%d", product.ID), nil, adminToken)
	require.Equal(t, http.StatusNoContent, rec.Code)

	recAgain := env.doJSONRequest(http.MethodDelete, fmt.Sprintf("/api/v1/admin/products/%d", product.ID), nil, adminToken)
	require.Equal(t, http.StatusNotFound, recAgain.Code)
}

func TestCategoryCRUD(t *testing.T) {
	env := newTestEnv(t)
	adminToken, _ := loginAdmin(t, env)

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/admin/categories", map[string]string{
		"name":        "books",
		"description": "printed things",
	}, adminToken)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	recDup := env.doJSONRequest(http.MethodPost, "/api/v1/admin/categories", map[string]string{
		"name": "books",
	}, adminToken)
	require.Equal(t, http.StatusConflict, recDup.Code)

	recList := env.doJSONRequest(http.MethodGet, "/api/v1/categories", nil, "")
	require.Equal(t, http.StatusOK, recList.Code)
	var categories []models.Category
	require.NoError(t, json.Unmarshal(recList.Body.Bytes(), &categories))
	require.Len(t, categories, 1)

	recPatch := env.doJSONRequest(http.MethodPatch, fmt.Sprintf("/api/v1/admin/categories/%d", created.ID), map[string]string{
		"name": "literature",
	}, adminToken)
	require.Equal(t, http.StatusOK, recPatch.Code)

	recDelete := env.doJSONRequest(http.MethodDelete, fmt.Sprintf("/api/v1/admin/categories/%d", created.ID), nil, adminToken)
	require.Equal(t, http.StatusNoContent, recDelete.Code)

	recGet := env.doJSONRequest(http.MethodGet, fmt.Sprintf("/api/v1/categories/%d", created.ID), nil, "")
	require.Equal(t, http.StatusNotFound, recGet.Code)
}

// Deleting a category must not delete its products; they just stop matching
// any category filter.
func TestDeleteCategoryKeepsProducts(t *testing.T) {
	env := newTestEnv(t)
	adminToken, _ := loginAdmin(t, env)

	category := models.Category{Name: "doomed"}
	require.NoError(t, env.DB.Create(&category).Error)
	product := seedProduct(t, env, "survivor", "2.00", 1)
	require.NoError(t, env.DB.Model(&product).Update("category_id", category.ID).Error)

	rec := env.doJSONRequest(http.MethodDelete, fmt.Sprintf("/api/v1/admin/categories/%d", category.ID), nil, adminToken)
	require.Equal(t, http.StatusNoContent, rec.Code)

	recProduct := env.doJSONRequest(http.MethodGet, fmt.Sprintf("/api/v1/products/%d", product.ID), nil, "")
	require.Equal(t, http.StatusOK, recProduct.Code)
}

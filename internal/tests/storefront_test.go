// internal/tests/storefront_test.go
package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/yahiawalid23/HEPTA/internal/bootstrap"
	"github.com/yahiawalid23/HEPTA/internal/config"
	"github.com/yahiawalid23/HEPTA/internal/records"
	"github.com/yahiawalid23/HEPTA/internal/router"
	"github.com/yahiawalid23/HEPTA/internal/spreadsheet"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type StorefrontTestSuite struct {
	suite.Suite
	dir    string
	app    *bootstrap.App
	router *gin.Engine
	cookie *http.Cookie
}

func (suite *StorefrontTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.dir = suite.T().TempDir()

	cfg := &config.Config{
		Environment: "test",
		LogLevel:    "error",
		Server: config.ServerConfig{
			Port:        "0",
			MaxUploadMB: 5,
			RateLimit:   false,
		},
		Storage: config.StorageConfig{
			FilesBucket:  "files",
			ImagesBucket: "product-images",
			LocalRoot:    filepath.Join(suite.dir, "storage"),
			LocalURL:     "http://localhost:8080/storage",
			DataDir:      filepath.Join(suite.dir, "data"),
			ListLimit:    100,
		},
		Admin: config.AdminConfig{
			Username:      "admin",
			Password:      "secret",
			SessionSecret: "test-session-secret",
			SessionTTL:    1,
			CookieName:    "admin-auth",
		},
		Redis: config.RedisConfig{ImageCacheTTL: 60},
		I18n:  config.I18nConfig{DefaultLocale: "en"},
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app, err := bootstrap.New(context.Background(), cfg, logger)
	require.NoError(suite.T(), err)
	suite.app = app
	suite.router = router.Initialize(app)
	suite.cookie = nil
}

func (suite *StorefrontTestSuite) TearDownTest() {
	suite.app.Close()
}

func (suite *StorefrontTestSuite) do(req *http.Request) *httptest.ResponseRecorder {
	if suite.cookie != nil {
		req.AddCookie(suite.cookie)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *StorefrontTestSuite) doJSON(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(suite.T(), json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return suite.do(req)
}

func (suite *StorefrontTestSuite) decode(w *httptest.ResponseRecorder, data interface{}) envelope {
	var env envelope
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(suite.T(), json.Unmarshal(env.Data, data))
	}
	return env
}

func (suite *StorefrontTestSuite) login() {
	w := suite.doJSON(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "admin",
		"password": "secret",
	})
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	for _, c := range w.Result().Cookies() {
		if c.Name == "admin-auth" {
			suite.cookie = c
		}
	}
	require.NotNil(suite.T(), suite.cookie)
	assert.True(suite.T(), suite.cookie.HttpOnly)
}

func (suite *StorefrontTestSuite) multipartRequest(path string, files map[string][]byte, field string, fields map[string]string) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, name := range sortedKeys(files) {
		part, err := mw.CreateFormFile(field, name)
		require.NoError(suite.T(), err)
		_, err = part.Write(files[name])
		require.NoError(suite.T(), err)
	}
	for k, v := range fields {
		require.NoError(suite.T(), mw.WriteField(k, v))
	}
	require.NoError(suite.T(), mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (suite *StorefrontTestSuite) productSheet() []byte {
	data, err := spreadsheet.Encode(&spreadsheet.Table{
		Columns: []string{"ID", "English Name", "Arabic Name", "Category", "Unit"},
		Rows: []spreadsheet.Row{
			{"ID": "P1", "English Name": "Rice", "Arabic Name": "أرز", "Category": "Grains", "Unit": "kg"},
			{"ID": "P2", "English Name": "Olive Oil", "Arabic Name": "زيت زيتون", "Category": "Oils", "Unit": "l"},
		},
	}, "Products")
	require.NoError(suite.T(), err)
	return data
}

func (suite *StorefrontTestSuite) TestHealth() {
	w := suite.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "healthy")
}

func (suite *StorefrontTestSuite) TestProductsEmptyBeforeUpload() {
	w := suite.do(httptest.NewRequest(http.MethodGet, "/api/products", nil))
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var products []map[string]interface{}
	env := suite.decode(w, &products)
	assert.True(suite.T(), env.Success)
	assert.Empty(suite.T(), products)
}

func (suite *StorefrontTestSuite) TestAdminRoutesRequireSession() {
	for _, path := range []string{"/api/admin/orders", "/api/admin/session", "/api/admin/files/orders"} {
		w := suite.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(suite.T(), http.StatusUnauthorized, w.Code, path)
	}

	suite.cookie = &http.Cookie{Name: "admin-auth", Value: "not-a-token"}
	w := suite.do(httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil))
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *StorefrontTestSuite) TestLoginRejectsWrongPassword() {
	w := suite.doJSON(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "admin",
		"password": "nope",
	})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	assert.Empty(suite.T(), w.Result().Cookies())
}

func (suite *StorefrontTestSuite) TestSessionAndLogout() {
	suite.login()

	w := suite.do(httptest.NewRequest(http.MethodGet, "/api/admin/session", nil))
	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), `"username":"admin"`)

	w = suite.doJSON(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(suite.T(), cookies, 1)
	assert.Equal(suite.T(), "", cookies[0].Value)
	assert.True(suite.T(), cookies[0].MaxAge < 0)
}

func (suite *StorefrontTestSuite) TestProductUploadAndFilter() {
	suite.login()

	req := suite.multipartRequest("/api/admin/products/upload", map[string][]byte{"products.xlsx": suite.productSheet()}, "file", nil)
	w := suite.do(req)
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	var result struct {
		Count int `json:"count"`
	}
	suite.decode(w, &result)
	assert.Equal(suite.T(), 2, result.Count)

	// The catalog is public.
	suite.cookie = nil
	w = suite.do(httptest.NewRequest(http.MethodGet, "/api/products", nil))
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var products []map[string]string
	suite.decode(w, &products)
	require.Len(suite.T(), products, 2)
	assert.Equal(suite.T(), "P1", products[0]["id"])
	assert.Equal(suite.T(), "Rice", products[0]["englishName"])
	assert.Equal(suite.T(), "أرز", products[0]["arabicName"])

	w = suite.do(httptest.NewRequest(http.MethodGet, "/api/products?category=Oils", nil))
	products = nil
	suite.decode(w, &products)
	require.Len(suite.T(), products, 1)
	assert.Equal(suite.T(), "P2", products[0]["id"])

	w = suite.do(httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	var categories []string
	suite.decode(w, &categories)
	assert.Equal(suite.T(), []string{"Grains", "Oils"}, categories)

	_, err := os.Stat(filepath.Join(suite.dir, "data", records.ProductsObject))
	assert.NoError(suite.T(), err)
}

func (suite *StorefrontTestSuite) TestProductUploadRejectsGarbage() {
	suite.login()

	req := suite.multipartRequest("/api/admin/products/upload", map[string][]byte{"products.xlsx": []byte("not a workbook")}, "file", nil)
	w := suite.do(req)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *StorefrontTestSuite) TestCheckoutAndOrderLifecycle() {
	w := suite.doJSON(http.MethodPost, "/api/orders", map[string]interface{}{
		"clientName":  "Sara",
		"clientPhone": "0100",
		"items": []map[string]interface{}{
			{"name": "Rice", "unit": "kg", "qty": 2, "price": 3.5},
		},
	})
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())

	var placed struct {
		Order map[string]interface{} `json:"order"`
		Total string                 `json:"total"`
	}
	suite.decode(w, &placed)
	assert.Equal(suite.T(), "7.00", placed.Total)
	assert.Equal(suite.T(), "pending", placed.Order["status"])
	id, _ := placed.Order["id"].(string)
	require.NotEmpty(suite.T(), id)

	suite.login()

	w = suite.do(httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil))
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var orders []map[string]interface{}
	suite.decode(w, &orders)
	require.Len(suite.T(), orders, 1)
	assert.Equal(suite.T(), id, orders[0]["id"])
	assert.Equal(suite.T(), "Sara", orders[0]["customer"])

	w = suite.doJSON(http.MethodPut, "/api/admin/orders/"+id+"/status", map[string]string{"status": "shipped"})
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())
	assert.Contains(suite.T(), w.Body.String(), `"status":"shipped"`)

	w = suite.doJSON(http.MethodPut, "/api/admin/orders/"+id+"/status", map[string]string{"status": "lost"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.doJSON(http.MethodPut, "/api/admin/orders/ORD-0/status", map[string]string{"status": "shipped"})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	w = suite.do(httptest.NewRequest(http.MethodGet, "/api/admin/files/orders", nil))
	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), spreadsheet.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(suite.T(), w.Header().Get("Content-Disposition"), records.OrdersObject)
	assert.NotEmpty(suite.T(), w.Header().Get("ETag"))
	table, err := spreadsheet.Decode(w.Body.Bytes())
	require.NoError(suite.T(), err)
	require.Len(suite.T(), table.Rows, 1)
	assert.Equal(suite.T(), "shipped", spreadsheet.Text(table.Rows[0]["status"]))

	w = suite.doJSON(http.MethodPost, "/api/admin/orders/reset", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.do(httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil))
	orders = nil
	suite.decode(w, &orders)
	assert.Empty(suite.T(), orders)
}

func (suite *StorefrontTestSuite) TestCheckoutValidation() {
	w := suite.doJSON(http.MethodPost, "/api/orders", map[string]interface{}{
		"clientName": "Sara",
		"items":      []map[string]interface{}{},
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	env := suite.decode(w, nil)
	assert.False(suite.T(), env.Success)
	require.NotNil(suite.T(), env.Error)
}

func (suite *StorefrontTestSuite) TestDownloadBeforeAnyWriteIsNotFound() {
	suite.login()

	w := suite.do(httptest.NewRequest(http.MethodGet, "/api/admin/files/products", nil))
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	w = suite.do(httptest.NewRequest(http.MethodGet, "/api/admin/files/invoices", nil))
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *StorefrontTestSuite) TestProductImagesLifecycle() {
	suite.login()

	files := map[string][]byte{
		"a.png": pngHeader,
		"b.png": pngHeader,
	}
	req := suite.multipartRequest("/api/admin/products/P1/images", files, "images", map[string]string{"thumbnailIndex": "1"})
	w := suite.do(req)
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	w = suite.do(httptest.NewRequest(http.MethodGet, "/api/products/P1/images", nil))
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var listed struct {
		Images []struct {
			Name string `json:"name"`
			URL  string `json:"url"`
			Kind string `json:"kind"`
		} `json:"images"`
		Thumbnail string `json:"thumbnail"`
	}
	suite.decode(w, &listed)
	require.Len(suite.T(), listed.Images, 2)
	assert.Equal(suite.T(), "thumbnail.png", listed.Images[0].Name)
	assert.Equal(suite.T(), "thumbnail", listed.Images[0].Kind)
	assert.Equal(suite.T(), "image_1.png", listed.Images[1].Name)
	assert.Equal(suite.T(), listed.Images[0].URL, listed.Thumbnail)

	req = httptest.NewRequest(http.MethodDelete, "/api/admin/products/P1/images/thumbnail.png", nil)
	w = suite.do(req)
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	w = suite.do(httptest.NewRequest(http.MethodGet, "/api/products/P1/images", nil))
	listed.Images = nil
	listed.Thumbnail = ""
	suite.decode(w, &listed)
	require.Len(suite.T(), listed.Images, 1)
	assert.Equal(suite.T(), "image_1.png", listed.Images[0].Name)
	assert.Empty(suite.T(), listed.Thumbnail)
}

func (suite *StorefrontTestSuite) TestProductImagesRejectNonImages() {
	suite.login()

	files := map[string][]byte{
		"a.png":   pngHeader,
		"doc.png": []byte("%PDF-1.4"),
	}
	w := suite.do(suite.multipartRequest("/api/admin/products/P1/images", files, "images", nil))
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	// Nothing from the rejected batch was written.
	w = suite.do(httptest.NewRequest(http.MethodGet, "/api/products/P1/images", nil))
	var listed struct {
		Images []interface{} `json:"images"`
	}
	suite.decode(w, &listed)
	assert.Empty(suite.T(), listed.Images)
}

func (suite *StorefrontTestSuite) TestArabicErrorMessages() {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders?lang=ar", nil)
	w := suite.do(req)
	require.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	assert.Equal(suite.T(), "ar", w.Header().Get("Content-Language"))
}

func TestStorefrontTestSuite(t *testing.T) {
	suite.Run(t, new(StorefrontTestSuite))
}

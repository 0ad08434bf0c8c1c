package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akkervarken/webshop-api/config"
	"github.com/akkervarken/webshop-api/models"
	"github.com/akkervarken/webshop-api/services"
)

// newImageUploadRequest builds a multipart POST with the given file in the
// "image" form field
func newImageUploadRequest(t *testing.T, path, filename string, content []byte) *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, _ := http.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func setupMockImageService() *services.MockS3Service {
	mockS3 := services.NewMockS3Service()
	mockS3.SetAsMockForTesting()
	services.InitImageService(mockS3)
	return mockS3
}

func TestUploadProductImage_Success(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	mockS3 := setupMockImageService()
	defer services.SetImageService(nil)

	product := createTestProduct(t, db, "gehakt", 8.50, true)

	router := setupTestRouter()
	router.POST("/products/:id/image", UploadProductImage)

	req := newImageUploadRequest(t, fmt.Sprintf("/products/%d/image", product.ID), "gehakt.png", []byte("fake png content"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.True(t, response["success"].(bool))

	data := response["data"].(map[string]interface{})
	imageKey := data["image"].(string)
	assert.Equal(t, "products/mock_gehakt.png", imageKey)
	assert.True(t, mockS3.FileExists(imageKey))
	assert.Contains(t, data["image_url"].(string), imageKey)

	// The key is persisted on the product
	var stored models.Product
	require.NoError(t, db.First(&stored, product.ID).Error)
	require.NotNil(t, stored.Image)
	assert.Equal(t, imageKey, *stored.Image)
}

func TestUploadProductImage_ReplacesPreviousImage(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	mockS3 := setupMockImageService()
	defer services.SetImageService(nil)

	product := createTestProduct(t, db, "gehakt", 8.50, true)

	router := setupTestRouter()
	router.POST("/products/:id/image", UploadProductImage)

	first := newImageUploadRequest(t, fmt.Sprintf("/products/%d/image", product.ID), "oud.png", []byte("old"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, first)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, mockS3.FileExists("products/mock_oud.png"))

	second := newImageUploadRequest(t, fmt.Sprintf("/products/%d/image", product.ID), "nieuw.png", []byte("new"))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, second)
	require.Equal(t, http.StatusOK, w.Code)

	assert.True(t, mockS3.FileExists("products/mock_nieuw.png"))
	assert.False(t, mockS3.FileExists("products/mock_oud.png"), "Previous photo is removed after replacement")
}

func TestUploadProductImage_InvalidFormat(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	setupMockImageService()
	defer services.SetImageService(nil)

	product := createTestProduct(t, db, "gehakt", 8.50, true)

	router := setupTestRouter()
	router.POST("/products/:id/image", UploadProductImage)

	req := newImageUploadRequest(t, fmt.Sprintf("/products/%d/image", product.ID), "gehakt.jpg", []byte("fake jpg content"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.False(t, response["success"].(bool))

	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_FILE_FORMAT", errorData["code"])
}

func TestUploadProductImage_MissingFile(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	setupMockImageService()
	defer services.SetImageService(nil)

	product := createTestProduct(t, db, "gehakt", 8.50, true)

	router := setupTestRouter()
	router.POST("/products/:id/image", UploadProductImage)

	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/products/%d/image", product.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "MISSING_FILE", errorData["code"])
}

func TestUploadProductImage_ProductNotFound(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	setupMockImageService()
	defer services.SetImageService(nil)

	router := setupTestRouter()
	router.POST("/products/:id/image", UploadProductImage)

	req := newImageUploadRequest(t, "/products/99999/image", "gehakt.png", []byte("fake png content"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "PRODUCT_NOT_FOUND", errorData["code"])
}

func TestUploadProductImage_StorageNotConfigured(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	services.SetImageService(nil)

	product := createTestProduct(t, db, "gehakt", 8.50, true)

	router := setupTestRouter()
	router.POST("/products/:id/image", UploadProductImage)

	req := newImageUploadRequest(t, fmt.Sprintf("/products/%d/image", product.ID), "gehakt.png", []byte("fake png content"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "STORAGE_NOT_CONFIGURED", errorData["code"])
}

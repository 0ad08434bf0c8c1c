package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/akkervarken/webshop-api/config"
	"github.com/akkervarken/webshop-api/models"
	"github.com/akkervarken/webshop-api/services"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "geheim123"
)

// setupAcceptanceStack wires a fully migrated in-memory database, mock
// services and the real router, exactly as main does for production
func setupAcceptanceStack(t *testing.T) (*gin.Engine, *gorm.DB, *services.MockEmailService) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.Batch{},
		&models.PickupSlot{},
		&models.Order{},
		&models.OrderItem{},
	))
	config.SetDB(db)
	t.Cleanup(func() { config.SetDB(nil) })

	mockMailer := services.NewMockEmailService()
	mockMailer.SetAsMockForTesting()
	t.Cleanup(func() { services.SetEmailService(nil) })

	mockS3 := services.NewMockS3Service()
	mockS3.SetAsMockForTesting()
	services.InitImageService(mockS3)
	t.Cleanup(func() { services.SetImageService(nil) })

	cfg := &config.Config{
		AdminUsername:  testAdminUser,
		AdminPassword:  testAdminPassword,
		AllowedOrigins: []string{"https://akkervarken.be"},
	}

	return setupRouter(cfg), db, mockMailer
}

func adminJSONRequest(method, path string, payload map[string]interface{}) *http.Request {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest(method, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(testAdminUser, testAdminPassword)
	return req
}

// TestOrderFlowAcceptance walks the full shop lifecycle: the admin sets up
// the catalog and a batch, a customer places an order, and the admin works
// the order through its statuses.
func TestOrderFlowAcceptance(t *testing.T) {
	router, db, mockMailer := setupAcceptanceStack(t)

	// Admin creates two products
	w := httptest.NewRecorder()
	router.ServeHTTP(w, adminJSONRequest(http.MethodPost, "/api/products", map[string]interface{}{
		"slug":             "gehakt",
		"name":             "Gehakt",
		"description":      "Vers varkensgehakt",
		"price":            8.50,
		"weight_display":   "500g",
		"packaging_pieces": 1,
		"unit_grams":       500,
	}))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, adminJSONRequest(http.MethodPost, "/api/products", map[string]interface{}{
		"slug":           "ontbijtspek",
		"name":           "Ontbijtspek",
		"description":    "Gerookt ontbijtspek",
		"price":          12.00,
		"weight_display": "250g",
	}))
	require.Equal(t, http.StatusCreated, w.Code)

	var gehakt, spek models.Product
	require.NoError(t, db.Where("slug = ?", "gehakt").First(&gehakt).Error)
	require.NoError(t, db.Where("slug = ?", "ontbijtspek").First(&spek).Error)

	// Admin opens a batch with both products and two pickup slots
	form := url.Values{
		"slug":            {"winterbatch-2026"},
		"name":            {"Winterbatch 2026"},
		"pickup_location": {"Hoeve Akkervarken"},
		"is_active":       {"true"},
		"product_ids":     {fmt.Sprintf("%d", gehakt.ID), fmt.Sprintf("%d", spek.ID)},
		"slot_dates":      {"2026-09-12", "2026-09-13"},
		"slot_times":      {"10:00 - 12:00", "17:00 - 19:00"},
	}
	req, _ := http.NewRequest(http.MethodPost, "/admin/batches", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(testAdminUser, testAdminPassword)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusSeeOther, w.Code)

	// A customer browses the batch
	req, _ = http.NewRequest(http.MethodGet, "/api/batches/winterbatch-2026", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var batchResponse map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batchResponse))
	batchData := batchResponse["data"].(map[string]interface{})
	assert.Equal(t, 2, len(batchData["products"].([]interface{})))
	assert.Equal(t, 2, len(batchData["pickup_slots"].([]interface{})))

	// The customer places an order
	orderBody, _ := json.Marshal(map[string]interface{}{
		"customer_name":  "Jan Peeters",
		"customer_email": "jan@example.com",
		"batch_id":       "winterbatch-2026",
		"pickup_info":    "Zaterdag 12/09, 10:00 - 12:00",
		"items": []map[string]interface{}{
			{"product_slug": "gehakt", "quantity": 2},
			{"product_slug": "ontbijtspek", "quantity": 1},
		},
	})
	req, _ = http.NewRequest(http.MethodPost, "/api/orders", bytes.NewBuffer(orderBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var orderResponse map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orderResponse))
	assert.True(t, orderResponse["email_sent"].(bool))
	orderID := int(orderResponse["order_id"].(float64))

	// Both the confirmation and the admin notification went out
	assert.Len(t, mockMailer.Sent(), 2)

	// The order reads back with live-computed totals
	req, _ = http.NewRequest(http.MethodGet, fmt.Sprintf("/api/orders/%d", orderID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var getResponse map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &getResponse))
	orderData := getResponse["data"].(map[string]interface{})
	assert.Equal(t, 29.00, orderData["total_amount"])
	assert.Equal(t, "pending", orderData["status"])

	// The admin confirms the order
	statusForm := url.Values{"new_status": {"confirmed"}}
	req, _ = http.NewRequest(http.MethodPost, fmt.Sprintf("/admin/orders/%d/status", orderID), strings.NewReader(statusForm.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(testAdminUser, testAdminPassword)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusSeeOther, w.Code)

	var stored models.Order
	require.NoError(t, db.First(&stored, orderID).Error)
	assert.Equal(t, models.StatusConfirmed, stored.Status)
}

// TestAdminEndpointsRequireCredentials verifies the whole admin surface is
// unreachable without valid credentials
func TestAdminEndpointsRequireCredentials(t *testing.T) {
	router, _, _ := setupAcceptanceStack(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/products"},
		{http.MethodPut, "/api/products/1"},
		{http.MethodDelete, "/api/products/1"},
		{http.MethodPost, "/api/products/1/image"},
		{http.MethodGet, "/admin/orders"},
		{http.MethodPost, "/admin/orders/1/status"},
		{http.MethodGet, "/admin/batches"},
		{http.MethodPost, "/admin/batches"},
	}

	for _, tt := range paths {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, tt.path, nil)
			req.SetBasicAuth(testAdminUser, "verkeerd-wachtwoord")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/akkervarken/webshop-api/config"
	"github.com/akkervarken/webshop-api/models"
	"github.com/akkervarken/webshop-api/services"
)

// OrderItemRequest is one line item in an order request. The product can be
// referenced by id or by slug.
type OrderItemRequest struct {
	ProductID   uint   `json:"product_id"`
	ProductSlug string `json:"product_slug"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest represents the request body for placing an order
type CreateOrderRequest struct {
	CustomerName  string             `json:"customer_name" binding:"required"`
	CustomerPhone *string            `json:"customer_phone"`
	CustomerEmail *string            `json:"customer_email" binding:"omitempty,email"`
	BatchSlug     string             `json:"batch_id" binding:"required"`
	PickupInfo    *string            `json:"pickup_info"`
	Notes         *string            `json:"notes"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrder handles POST /api/orders - places a new order.
//
// The order and all its items are persisted in a single transaction; after
// the commit a confirmation email goes to the customer (when an address was
// given) and a notification email to the admin. Email failures never fail
// the request.
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()

	// Resolve the batch; orders can only target an active batch
	var batch models.Batch
	if err := db.Where("slug = ?", req.BatchSlug).First(&batch).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BATCH_NOT_FOUND",
				"message": fmt.Sprintf("Batch '%s' not found", req.BatchSlug),
			},
		})
		return
	}
	if !batch.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BATCH_INACTIVE",
				"message": fmt.Sprintf("Batch '%s' is not open for orders", req.BatchSlug),
			},
		})
		return
	}

	// Resolve every line item's product before touching the orders table
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		var product models.Product
		query := db.Model(&models.Product{})
		switch {
		case itemReq.ProductID != 0:
			query = query.Where("id = ?", itemReq.ProductID)
		case itemReq.ProductSlug != "":
			query = query.Where("slug = ?", itemReq.ProductSlug)
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Each item must reference a product by id or slug",
				},
			})
			return
		}

		if err := query.First(&product).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PRODUCT_NOT_FOUND",
					"message": "Order references an unknown product",
				},
			})
			return
		}
		if !product.IsActive {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PRODUCT_INACTIVE",
					"message": fmt.Sprintf("Product '%s' is no longer available", product.Slug),
				},
			})
			return
		}

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Product:   product,
			Quantity:  itemReq.Quantity,
		})
	}

	order := models.Order{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		BatchID:       batch.Slug,
		BatchName:     batch.Name,
		PickupInfo:    req.PickupInfo,
		Notes:         req.Notes,
		Status:        models.StatusPending,
		Items:         items,
	}

	// Order and items are one atomic unit; a failure anywhere rolls back all rows
	if err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&order).Error
	}); err != nil {
		log.Printf("Failed to create order for %s: %v", req.CustomerName, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	order.Hydrate()
	log.Printf("Order #%d created successfully for %s", order.ID, order.CustomerName)

	emailSent := sendOrderEmails(&order)

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"order_id":   order.ID,
		"message":    fmt.Sprintf("Bestelling #%d succesvol aangemaakt", order.ID),
		"email_sent": emailSent,
	})
}

// sendOrderEmails dispatches the customer confirmation and admin notification
// for a freshly committed order. Returns whether the customer email was sent.
func sendOrderEmails(order *models.Order) bool {
	mailer := services.GetEmailService()
	if mailer == nil {
		return false
	}

	emailItems := make([]services.OrderEmailItem, 0, len(order.Items))
	for _, item := range order.Items {
		emailItems = append(emailItems, services.OrderEmailItem{
			Name:     item.ProductName,
			Quantity: item.Quantity,
			Subtotal: item.Subtotal,
		})
	}

	pickupInfo := "Wordt later bevestigd"
	if order.PickupInfo != nil && *order.PickupInfo != "" {
		pickupInfo = *order.PickupInfo
	}

	emailSent := false
	if order.CustomerEmail != nil && *order.CustomerEmail != "" {
		emailSent = mailer.SendOrderConfirmation(
			*order.CustomerEmail,
			order.CustomerName,
			order.ID,
			order.BatchName,
			pickupInfo,
			emailItems,
			order.TotalAmount,
		)
	}

	phone := "Niet opgegeven"
	if order.CustomerPhone != nil && *order.CustomerPhone != "" {
		phone = *order.CustomerPhone
	}
	email := "Niet opgegeven"
	if order.CustomerEmail != nil && *order.CustomerEmail != "" {
		email = *order.CustomerEmail
	}
	notes := ""
	if order.Notes != nil {
		notes = *order.Notes
	}

	mailer.SendOrderNotification(
		order.ID,
		order.CustomerName,
		phone,
		email,
		order.BatchName,
		pickupInfo,
		emailItems,
		order.TotalAmount,
		notes,
	)

	return emailSent
}

// GetOrder handles GET /api/orders/:id - fetches one order with its items
func GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ORDER_ID",
				"message": "Order id must be a number",
			},
		})
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Preload("Items.Product").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": fmt.Sprintf("Order #%d not found", orderID),
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order",
			},
		})
		return
	}

	order.Hydrate()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/orders - lists orders with optional batch and
// status filters, paginated via skip/limit
func ListOrders(c *gin.Context) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		limit = 100
	}

	db := config.GetDB()
	query := db.Model(&models.Order{})

	if batchID := c.Query("batch_id"); batchID != "" {
		query = query.Where("batch_id = ?", batchID)
	}
	if rawStatus := c.Query("status"); rawStatus != "" {
		status, err := models.ParseOrderStatus(rawStatus)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_STATUS",
					"message": err.Error(),
				},
			})
			return
		}
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.
		Preload("Items.Product").
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list orders",
			},
		})
		return
	}

	for i := range orders {
		orders[i].Hydrate()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

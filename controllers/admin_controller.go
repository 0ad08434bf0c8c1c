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
)

// adminOrderLimit caps the number of orders shown on the admin dashboard
const adminOrderLimit = 200

// AdminListOrders handles GET /admin/orders - renders the order dashboard
// with an optional status filter
func AdminListOrders(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.Order{}).Order("created_at DESC")

	var statusFilter models.OrderStatus
	if raw := c.Query("status_filter"); raw != "" {
		status, err := models.ParseOrderStatus(raw)
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		statusFilter = status
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.
		Preload("Items.Product").
		Limit(adminOrderLimit).
		Find(&orders).Error; err != nil {
		c.String(http.StatusInternalServerError, "Failed to list orders")
		return
	}

	for i := range orders {
		orders[i].Hydrate()
	}

	c.HTML(http.StatusOK, "orders.html", gin.H{
		"Orders":       orders,
		"StatusFilter": statusFilter,
		"Statuses":     models.OrderStatuses,
		"Updated":      c.Query("updated"),
	})
}

// AdminUpdateOrderStatus handles POST /admin/orders/:id/status - moves an
// order to the submitted status. Any status from the closed set is accepted;
// no transition guards apply.
func AdminUpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "Order id must be a number")
		return
	}

	status, err := models.ParseOrderStatus(c.PostForm("new_status"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	db := config.GetDB()

	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.String(http.StatusNotFound, fmt.Sprintf("Order #%d not found", orderID))
			return
		}
		c.String(http.StatusInternalServerError, "Failed to load order")
		return
	}

	if err := db.Model(&order).Update("status", status).Error; err != nil {
		c.String(http.StatusInternalServerError, "Failed to update order status")
		return
	}

	log.Printf("Order #%d status changed to %q", order.ID, status)
	c.Redirect(http.StatusSeeOther, "/admin/orders?updated=1")
}

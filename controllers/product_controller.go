package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/akkervarken/webshop-api/config"
	"github.com/akkervarken/webshop-api/models"
	"github.com/akkervarken/webshop-api/services"
)

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Slug            string  `json:"slug" binding:"required"`
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description" binding:"required"`
	Ingredients     *string `json:"ingredients"`
	Price           float64 `json:"price" binding:"required,gt=0"`
	WeightDisplay   string  `json:"weight_display" binding:"required"`
	PackagingPieces *int    `json:"packaging_pieces" binding:"omitempty,gte=0"`
	UnitGrams       *int    `json:"unit_grams" binding:"omitempty,gte=0"`
	IsActive        *bool   `json:"is_active"`
}

// UpdateProductRequest represents the request body for updating a product.
// All fields are optional; only the provided ones are applied.
type UpdateProductRequest struct {
	Slug            *string  `json:"slug"`
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	Ingredients     *string  `json:"ingredients"`
	Price           *float64 `json:"price" binding:"omitempty,gt=0"`
	WeightDisplay   *string  `json:"weight_display"`
	PackagingPieces *int     `json:"packaging_pieces" binding:"omitempty,gte=0"`
	UnitGrams       *int     `json:"unit_grams" binding:"omitempty,gte=0"`
	IsActive        *bool    `json:"is_active"`
}

// hydrateProductImage fills the presigned image URL on a product
func hydrateProductImage(product *models.Product) {
	imageService := services.GetImageService()
	if imageService == nil || product.Image == nil || *product.Image == "" {
		return
	}

	url, err := imageService.GetImageURL(*product.Image)
	if err != nil {
		log.Printf("Failed to generate image URL for product %s: %v", product.Slug, err)
		return
	}
	if url != "" {
		product.ImageURL = &url
	}
}

// ListProducts handles GET /api/products - returns the catalog, hiding
// inactive products unless include_inactive=true
func ListProducts(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.Product{})

	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var products []models.Product
	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list products",
			},
		})
		return
	}

	for i := range products {
		hydrateProductImage(&products[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

// GetProduct handles GET /api/products/:slug - fetches a single active product
func GetProduct(c *gin.Context) {
	slug := c.Param("slug")

	db := config.GetDB()
	var product models.Product
	if err := db.Where("slug = ?", slug).First(&product).Error; err != nil || !product.IsActive {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product niet gevonden",
			},
		})
		return
	}

	hydrateProductImage(&product)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// CreateProduct handles POST /api/products - creates a product (admin only)
func CreateProduct(c *gin.Context) {
	var req CreateProductRequest
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

	// Slug collisions are an exact, case-sensitive match
	var existing models.Product
	if err := db.Where("slug = ?", req.Slug).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SLUG_EXISTS",
				"message": "Product met deze slug bestaat al",
			},
		})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product := models.Product{
		Slug:            strings.TrimSpace(req.Slug),
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		Ingredients:     req.Ingredients,
		Price:           req.Price,
		WeightDisplay:   req.WeightDisplay,
		PackagingPieces: req.PackagingPieces,
		UnitGrams:       req.UnitGrams,
		IsActive:        isActive,
	}

	if err := db.Create(&product).Error; err != nil {
		// Unique index may still fire on a concurrent insert
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") || strings.Contains(errMsg, "unique") {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SLUG_EXISTS",
					"message": "Product met deze slug bestaat al",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create product",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    product,
	})
}

// UpdateProduct handles PUT /api/products/:id - partially updates a product (admin only)
func UpdateProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_PRODUCT_ID",
				"message": "Product id must be a number",
			},
		})
		return
	}

	var req UpdateProductRequest
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
	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product niet gevonden",
			},
		})
		return
	}

	// A slug change must not collide with another product
	if req.Slug != nil && *req.Slug != product.Slug {
		var existing models.Product
		if err := db.Where("slug = ?", *req.Slug).First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SLUG_EXISTS",
					"message": "Product met deze slug bestaat al",
				},
			})
			return
		}
	}

	updates := make(map[string]interface{})
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Ingredients != nil {
		updates["ingredients"] = *req.Ingredients
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.WeightDisplay != nil {
		updates["weight_display"] = *req.WeightDisplay
	}
	if req.PackagingPieces != nil {
		updates["packaging_pieces"] = *req.PackagingPieces
	}
	if req.UnitGrams != nil {
		updates["unit_grams"] = *req.UnitGrams
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := db.Model(&product).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update product",
				},
			})
			return
		}
	}

	if err := db.First(&product, productID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch updated product",
			},
		})
		return
	}

	hydrateProductImage(&product)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// DeleteProduct handles DELETE /api/products/:id - deletes a product (admin only).
// Deletion is rejected while order items still reference the product; the
// foreign key from order_items is hard.
func DeleteProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_PRODUCT_ID",
				"message": "Product id must be a number",
			},
		})
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PRODUCT_NOT_FOUND",
					"message": "Product niet gevonden",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load product",
			},
		})
		return
	}

	var referencing int64
	if err := db.Model(&models.OrderItem{}).Where("product_id = ?", product.ID).Count(&referencing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to check product references",
			},
		})
		return
	}
	if referencing > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_IN_USE",
				"message": "Product is referenced by existing orders and cannot be deleted",
			},
		})
		return
	}

	if err := db.Delete(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete product",
			},
		})
		return
	}

	// Best effort: drop the photo along with the product
	if product.Image != nil && *product.Image != "" {
		if imageService := services.GetImageService(); imageService != nil {
			if err := imageService.DeleteImage(*product.Image); err != nil {
				log.Printf("Failed to delete image for product %s: %v", product.Slug, err)
			}
		}
	}

	c.Status(http.StatusNoContent)
}

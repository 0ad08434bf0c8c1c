package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/akkervarken/webshop-api/config"
	"github.com/akkervarken/webshop-api/models"
)

// preloadBatch loads a batch's pickup slots (in sort order) and products
func preloadBatch(db *gorm.DB) *gorm.DB {
	return db.
		Preload("PickupSlots", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sort_order ASC")
		}).
		Preload("Products", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("name ASC")
		})
}

// ListBatches handles GET /api/batches - lists batches, active only unless
// include_inactive=true. Freezer batches sort last.
func ListBatches(c *gin.Context) {
	db := config.GetDB()
	query := preloadBatch(db.Model(&models.Batch{}))

	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var batches []models.Batch
	if err := query.Order("is_freezer ASC, created_at DESC").Find(&batches).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list batches",
			},
		})
		return
	}

	for i := range batches {
		for j := range batches[i].Products {
			hydrateProductImage(&batches[i].Products[j])
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    batches,
	})
}

// GetBatch handles GET /api/batches/:slug - fetches a batch with its pickup
// slots and eligible products
func GetBatch(c *gin.Context) {
	slug := c.Param("slug")

	db := config.GetDB()
	var batch models.Batch
	if err := preloadBatch(db).Where("slug = ?", slug).First(&batch).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BATCH_NOT_FOUND",
				"message": "Batch niet gevonden",
			},
		})
		return
	}

	for i := range batch.Products {
		hydrateProductImage(&batch.Products[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    batch,
	})
}

// batchFormValues extracts the shared batch fields from an admin form post
type batchFormValues struct {
	slug           string
	name           string
	pickupLocation string
	pickupText     *string
	isFreezer      bool
	isActive       bool
	productIDs     []uint
	slotDates      []string
	slotTimes      []string
}

func parseBatchForm(c *gin.Context) (*batchFormValues, string) {
	values := &batchFormValues{
		slug:           strings.TrimSpace(c.PostForm("slug")),
		name:           strings.TrimSpace(c.PostForm("name")),
		pickupLocation: strings.TrimSpace(c.PostForm("pickup_location")),
		isFreezer:      c.PostForm("is_freezer") == "true",
		isActive:       c.PostForm("is_active") == "true",
		slotDates:      c.PostFormArray("slot_dates"),
		slotTimes:      c.PostFormArray("slot_times"),
	}

	if values.slug == "" || values.name == "" || values.pickupLocation == "" {
		return nil, "Slug, name and pickup location are required"
	}

	if text := strings.TrimSpace(c.PostForm("pickup_text")); text != "" {
		values.pickupText = &text
	}

	for _, raw := range c.PostFormArray("product_ids") {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, "Product ids must be numbers"
		}
		values.productIDs = append(values.productIDs, uint(id))
	}

	return values, ""
}

// buildPickupSlots pairs the submitted date and time lists into slots.
// Rows with a missing date or time are skipped.
func buildPickupSlots(batchID uint, dates, times []string) []models.PickupSlot {
	n := len(dates)
	if len(times) < n {
		n = len(times)
	}

	slots := make([]models.PickupSlot, 0, n)
	for i := 0; i < n; i++ {
		if dates[i] == "" || times[i] == "" {
			continue
		}
		slots = append(slots, models.PickupSlot{
			BatchID:   batchID,
			Date:      dates[i],
			Time:      times[i],
			SortOrder: i,
		})
	}
	return slots
}

// AdminListBatches handles GET /admin/batches - renders the batch overview
func AdminListBatches(c *gin.Context) {
	db := config.GetDB()

	var batches []models.Batch
	if err := preloadBatch(db).Order("is_active DESC, created_at DESC").Find(&batches).Error; err != nil {
		c.String(http.StatusInternalServerError, "Failed to list batches")
		return
	}

	c.HTML(http.StatusOK, "batches.html", gin.H{
		"Batches": batches,
		"Created": c.Query("created"),
		"Saved":   c.Query("saved"),
		"Deleted": c.Query("deleted"),
	})
}

// AdminNewBatchForm handles GET /admin/batches/new - renders the create form
func AdminNewBatchForm(c *gin.Context) {
	db := config.GetDB()

	var products []models.Product
	if err := db.Order("name ASC").Find(&products).Error; err != nil {
		c.String(http.StatusInternalServerError, "Failed to load products")
		return
	}

	c.HTML(http.StatusOK, "batch_form.html", gin.H{
		"Mode":     "new",
		"Batch":    nil,
		"Products": products,
	})
}

// AdminCreateBatch handles POST /admin/batches - creates a batch with its
// product set and pickup slots
func AdminCreateBatch(c *gin.Context) {
	values, formErr := parseBatchForm(c)
	if formErr != "" {
		c.String(http.StatusBadRequest, formErr)
		return
	}

	db := config.GetDB()

	if err := db.Transaction(func(tx *gorm.DB) error {
		batch := models.Batch{
			Slug:           values.slug,
			Name:           values.name,
			PickupLocation: values.pickupLocation,
			PickupText:     values.pickupText,
			IsFreezer:      values.isFreezer,
			IsActive:       values.isActive,
		}
		if err := tx.Create(&batch).Error; err != nil {
			return err
		}

		if len(values.productIDs) > 0 {
			var products []models.Product
			if err := tx.Where("id IN ?", values.productIDs).Find(&products).Error; err != nil {
				return err
			}
			if err := tx.Model(&batch).Association("Products").Replace(products); err != nil {
				return err
			}
		}

		slots := buildPickupSlots(batch.ID, values.slotDates, values.slotTimes)
		if len(slots) > 0 {
			if err := tx.Create(&slots).Error; err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		c.String(http.StatusInternalServerError, "Failed to create batch")
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin/batches?created=1")
}

// AdminEditBatchForm handles GET /admin/batches/:id/edit - renders the edit form
func AdminEditBatchForm(c *gin.Context) {
	batchID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "Batch id must be a number")
		return
	}

	db := config.GetDB()

	var batch models.Batch
	if err := preloadBatch(db).First(&batch, batchID).Error; err != nil {
		c.String(http.StatusNotFound, "Batch niet gevonden")
		return
	}

	var products []models.Product
	if err := db.Order("name ASC").Find(&products).Error; err != nil {
		c.String(http.StatusInternalServerError, "Failed to load products")
		return
	}

	selected := make(map[uint]bool, len(batch.Products))
	for _, p := range batch.Products {
		selected[p.ID] = true
	}

	c.HTML(http.StatusOK, "batch_form.html", gin.H{
		"Mode":     "edit",
		"Batch":    batch,
		"Products": products,
		"Selected": selected,
	})
}

// AdminUpdateBatch handles POST /admin/batches/:id/update.
//
// The product association and the pickup slots are fully replaced on every
// save: slots are deleted and recreated from the submitted list, so slot ids
// do not survive an edit.
func AdminUpdateBatch(c *gin.Context) {
	batchID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "Batch id must be a number")
		return
	}

	values, formErr := parseBatchForm(c)
	if formErr != "" {
		c.String(http.StatusBadRequest, formErr)
		return
	}

	db := config.GetDB()

	var batch models.Batch
	if err := db.First(&batch, batchID).Error; err != nil {
		c.String(http.StatusNotFound, "Batch niet gevonden")
		return
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"slug":            values.slug,
			"name":            values.name,
			"pickup_location": values.pickupLocation,
			"pickup_text":     values.pickupText,
			"is_freezer":      values.isFreezer,
			"is_active":       values.isActive,
		}
		if err := tx.Model(&batch).Updates(updates).Error; err != nil {
			return err
		}

		var products []models.Product
		if len(values.productIDs) > 0 {
			if err := tx.Where("id IN ?", values.productIDs).Find(&products).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&batch).Association("Products").Replace(products); err != nil {
			return err
		}

		if err := tx.Where("batch_id = ?", batch.ID).Delete(&models.PickupSlot{}).Error; err != nil {
			return err
		}
		slots := buildPickupSlots(batch.ID, values.slotDates, values.slotTimes)
		if len(slots) > 0 {
			if err := tx.Create(&slots).Error; err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		c.String(http.StatusInternalServerError, "Failed to update batch")
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin/batches?saved=1")
}

// AdminDeleteBatch handles POST /admin/batches/:id/delete - deletes a batch
// and, via the cascade, its pickup slots
func AdminDeleteBatch(c *gin.Context) {
	batchID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "Batch id must be a number")
		return
	}

	db := config.GetDB()

	var batch models.Batch
	if err := db.First(&batch, batchID).Error; err != nil {
		c.String(http.StatusNotFound, "Batch niet gevonden")
		return
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&batch).Association("Products").Clear(); err != nil {
			return err
		}
		if err := tx.Where("batch_id = ?", batch.ID).Delete(&models.PickupSlot{}).Error; err != nil {
			return err
		}
		return tx.Delete(&batch).Error
	}); err != nil {
		c.String(http.StatusInternalServerError, "Failed to delete batch")
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin/batches?deleted=1")
}

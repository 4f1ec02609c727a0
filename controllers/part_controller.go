package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hermes-oms/hermes/models"
	"gorm.io/gorm"
)

// PartController handles the parts-inventory CRUD views
type PartController struct {
	db *gorm.DB
}

// NewPartController creates a part controller with its database injected
func NewPartController(db *gorm.DB) *PartController {
	return &PartController{db: db}
}

// List handles GET /parts/ - all non-deleted parts, serialized
func (pc *PartController) List(c *gin.Context) {
	var parts []models.Part
	if err := pc.db.Where("deleted = ?", false).Order("pid").Find(&parts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list parts",
			},
		})
		return
	}

	views := make([]map[string]interface{}, 0, len(parts))
	for i := range parts {
		views = append(views, parts[i].ToView())
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    views,
	})
}

// Detail handles GET /part/:pid - one part by id, or a synthesized blank
// record for the "new" sentinel
func (pc *PartController) Detail(c *gin.Context) {
	idParam := c.Param("pid")

	if idParam == "new" {
		next, err := models.NextID(pc.db, &models.Part{}, "pid")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to allocate part id",
				},
			})
			return
		}
		blank := models.Part{ID: next}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    blank.ToView(),
		})
		return
	}

	id, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Part id must be an integer or 'new'",
			},
		})
		return
	}

	var part models.Part
	if err := pc.db.First(&part, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Part not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch part",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    part.ToView(),
	})
}

// Upsert handles POST /part/:pid - updates the part with the submitted id
// if it exists, otherwise inserts a new one
func (pc *PartController) Upsert(c *gin.Context) {
	id, err := strconv.ParseUint(c.PostForm("pid"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Form field 'pid' must be an integer",
			},
		})
		return
	}
	stock, err := strconv.Atoi(c.PostForm("stock"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Form field 'stock' must be an integer",
			},
		})
		return
	}
	name := c.PostForm("name")
	description := c.PostForm("description")
	units := c.PostForm("units")

	var part models.Part
	created := false
	err = pc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&part, uint(id)).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			created = true
			part = models.Part{ID: uint(id), Name: name, Description: description, Units: units, Stock: stock, Deleted: false}
			return tx.Create(&part).Error
		}
		part.Name = name
		part.Description = description
		part.Units = units
		part.Stock = stock
		return tx.Save(&part).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save part",
			},
		})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"success": true,
		"data":    part.ToView(),
	})
}

// BatchDelete handles POST /delete_parts/ - soft-deletes every part whose
// id appears in a "part_<id>" form key. Order lines referencing the part
// are left untouched.
func (pc *PartController) BatchDelete(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Malformed form body",
			},
		})
		return
	}
	ids := parseDeleteKeys(c.Request.PostForm, "part")

	var deleted int64
	err := pc.db.Transaction(func(tx *gorm.DB) error {
		if len(ids) == 0 {
			return nil
		}
		res := tx.Model(&models.Part{}).Where("pid IN ?", ids).Update("deleted", true)
		deleted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete parts",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": deleted},
	})
}

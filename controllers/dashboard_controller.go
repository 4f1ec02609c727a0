package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hermes-oms/hermes/models"
	"gorm.io/gorm"
)

// DashboardController serves the read-only index aggregate
type DashboardController struct {
	db *gorm.DB
}

// NewDashboardController creates a dashboard controller with its database injected
func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{db: db}
}

// RestockEntry reports a part whose total ordered quantity exceeds its
// on-hand stock
type RestockEntry struct {
	PartID    uint   `json:"pid"`
	Name      string `json:"name"`
	Units     string `json:"units"`
	Stock     int    `json:"stock"`
	Required  int    `json:"required"`
	Shortfall int    `json:"shortfall"`
}

// Index handles GET / - non-deleted order counts per status plus the
// restock list
func (dc *DashboardController) Index(c *gin.Context) {
	// All four statuses are always reported, zero counts included
	statusCounts := make(map[string]int64, len(models.OrderStatuses))
	for _, status := range models.OrderStatuses {
		statusCounts[status] = 0
	}

	var counted []struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}
	err := dc.db.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Where("deleted = ?", false).
		Group("status").
		Scan(&counted).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count orders",
			},
		})
		return
	}
	for _, row := range counted {
		statusCounts[row.Status] = row.Count
	}

	restock, err := dc.restockList()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to compute restock list",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"status_counts": statusCounts,
			"restock":       restock,
		},
	})
}

// restockList sums the ordered quantity per part over all non-deleted
// line items and reports each non-deleted part whose total exceeds its
// stock. Parts with no shortfall are omitted.
func (dc *DashboardController) restockList() ([]RestockEntry, error) {
	var required []struct {
		PartID   uint `gorm:"column:pid"`
		Required int  `gorm:"column:required"`
	}
	err := dc.db.Model(&models.OrderToPart{}).
		Select("pid, SUM(quantity) AS required").
		Where("deleted = ?", false).
		Group("pid").
		Scan(&required).Error
	if err != nil {
		return nil, err
	}
	requiredByPart := make(map[uint]int, len(required))
	for _, row := range required {
		requiredByPart[row.PartID] = row.Required
	}

	var parts []models.Part
	if err := dc.db.Where("deleted = ?", false).Order("pid").Find(&parts).Error; err != nil {
		return nil, err
	}

	restock := make([]RestockEntry, 0)
	for i := range parts {
		need := requiredByPart[parts[i].ID]
		if need <= parts[i].Stock {
			continue
		}
		restock = append(restock, RestockEntry{
			PartID:    parts[i].ID,
			Name:      parts[i].Name,
			Units:     parts[i].Units,
			Stock:     parts[i].Stock,
			Required:  need,
			Shortfall: need - parts[i].Stock,
		})
	}
	return restock, nil
}

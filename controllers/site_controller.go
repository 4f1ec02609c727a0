package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hermes-oms/hermes/models"
	"github.com/hermes-oms/hermes/services"
	"gorm.io/gorm"
)

// SiteController handles the delivery-site CRUD views
type SiteController struct {
	db       *gorm.DB
	geocoder services.GeocoderInterface
}

// NewSiteController creates a site controller with its dependencies injected
func NewSiteController(db *gorm.DB, geocoder services.GeocoderInterface) *SiteController {
	return &SiteController{db: db, geocoder: geocoder}
}

// List handles GET /sites/ - all non-deleted sites, serialized
func (sc *SiteController) List(c *gin.Context) {
	var sites []models.Site
	if err := sc.db.Where("deleted = ?", false).Order("sid").Find(&sites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list sites",
			},
		})
		return
	}

	views := make([]map[string]interface{}, 0, len(sites))
	for i := range sites {
		views = append(views, sites[i].ToView())
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    views,
	})
}

// Detail handles GET /site/:sid - one site by id, or a synthesized blank
// record for the "new" sentinel
func (sc *SiteController) Detail(c *gin.Context) {
	idParam := c.Param("sid")

	if idParam == "new" {
		next, err := models.NextID(sc.db, &models.Site{}, "sid")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to allocate site id",
				},
			})
			return
		}
		blank := models.Site{ID: next}
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
				"message": "Site id must be an integer or 'new'",
			},
		})
		return
	}

	var site models.Site
	if err := sc.db.First(&site, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Site not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch site",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    site.ToView(),
	})
}

// Upsert handles POST /site/:sid. A new site has its address geocoded
// once at creation; an existing site keeps its coordinates even when the
// address is edited.
func (sc *SiteController) Upsert(c *gin.Context) {
	id, err := strconv.ParseUint(c.PostForm("sid"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Form field 'sid' must be an integer",
			},
		})
		return
	}
	address := c.PostForm("address")

	var site models.Site
	err = sc.db.First(&site, uint(id)).Error
	created := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !created {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch site",
			},
		})
		return
	}

	if created {
		// Geocode before touching the database so the lookup never runs
		// inside a transaction
		lat, lon, geoErr := sc.geocoder.Geocode(address)
		if geoErr != nil {
			// Recovered locally: the site is still created at (0, 0)
			log.Printf("Geocoding failed for %q: %v", address, geoErr)
			lat, lon = 0, 0
		}
		site = models.Site{ID: uint(id), Address: address, Lat: lat, Lon: lon, Deleted: false}
		err = sc.db.Create(&site).Error
	} else {
		site.Address = address
		err = sc.db.Save(&site).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save site",
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
		"data":    site.ToView(),
	})
}

// BatchDelete handles POST /delete_sites/ - soft-deletes every site whose
// id appears in a "site_<id>" form key
func (sc *SiteController) BatchDelete(c *gin.Context) {
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
	ids := parseDeleteKeys(c.Request.PostForm, "site")

	var deleted int64
	err := sc.db.Transaction(func(tx *gorm.DB) error {
		if len(ids) == 0 {
			return nil
		}
		res := tx.Model(&models.Site{}).Where("sid IN ?", ids).Update("deleted", true)
		deleted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete sites",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": deleted},
	})
}

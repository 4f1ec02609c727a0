package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hermes-oms/hermes/models"
	"gorm.io/gorm"
)

// ClientController handles the client CRUD views
type ClientController struct {
	db *gorm.DB
}

// NewClientController creates a client controller with its database injected
func NewClientController(db *gorm.DB) *ClientController {
	return &ClientController{db: db}
}

// List handles GET /clients/ - all non-deleted clients, serialized
func (cc *ClientController) List(c *gin.Context) {
	var clients []models.Client
	if err := cc.db.Where("deleted = ?", false).Order("cid").Find(&clients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list clients",
			},
		})
		return
	}

	views := make([]map[string]interface{}, 0, len(clients))
	for i := range clients {
		views = append(views, clients[i].ToView())
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    views,
	})
}

// Detail handles GET /client/:cid - one client by id, or a synthesized
// blank record when the id is the "new" sentinel. Soft-deleted clients
// remain reachable here.
func (cc *ClientController) Detail(c *gin.Context) {
	idParam := c.Param("cid")

	if idParam == "new" {
		next, err := models.NextID(cc.db, &models.Client{}, "cid")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to allocate client id",
				},
			})
			return
		}
		blank := models.Client{ID: next}
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
				"message": "Client id must be an integer or 'new'",
			},
		})
		return
	}

	var client models.Client
	if err := cc.db.First(&client, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Client not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch client",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    client.ToView(),
	})
}

// Upsert handles POST /client/:cid - updates the client with the submitted
// id if it exists, otherwise inserts a new one. The whole write is one
// transaction.
func (cc *ClientController) Upsert(c *gin.Context) {
	id, err := strconv.ParseUint(c.PostForm("cid"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Form field 'cid' must be an integer",
			},
		})
		return
	}
	name := c.PostForm("name")
	description := c.PostForm("description")

	var client models.Client
	created := false
	err = cc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&client, uint(id)).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			created = true
			client = models.Client{ID: uint(id), Name: name, Description: description, Deleted: false}
			return tx.Create(&client).Error
		}
		client.Name = name
		client.Description = description
		return tx.Save(&client).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save client",
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
		"data":    client.ToView(),
	})
}

// BatchDelete handles POST /delete_clients/ - soft-deletes every client
// whose id appears in a "client_<id>" form key
func (cc *ClientController) BatchDelete(c *gin.Context) {
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
	ids := parseDeleteKeys(c.Request.PostForm, "client")

	var deleted int64
	err := cc.db.Transaction(func(tx *gorm.DB) error {
		if len(ids) == 0 {
			return nil
		}
		res := tx.Model(&models.Client{}).Where("cid IN ?", ids).Update("deleted", true)
		deleted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete clients",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": deleted},
	})
}

package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hermes-oms/hermes/models"
	"gorm.io/gorm"
)

// OrderController handles the order CRUD views, including the per-part
// line-item merge
type OrderController struct {
	db *gorm.DB
}

// NewOrderController creates an order controller with its database injected
func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{db: db}
}

// List handles GET /orders/ - all non-deleted orders, serialized with
// their client and site labels resolved
func (oc *OrderController) List(c *gin.Context) {
	var orders []models.Order
	if err := oc.db.Where("deleted = ?", false).Order("oid").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list orders",
			},
		})
		return
	}

	views := make([]map[string]interface{}, 0, len(orders))
	for i := range orders {
		views = append(views, orders[i].ToView(oc.db))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    views,
	})
}

// Detail handles GET /order/:oid. Besides the order itself (or a
// synthesized new one), the response carries option lists of non-deleted
// clients and sites, and every non-deleted part annotated with the
// quantity and price currently ordered on this order (0 / 0.00 when no
// line exists yet).
func (oc *OrderController) Detail(c *gin.Context) {
	idParam := c.Param("oid")

	var order models.Order
	if idParam == "new" {
		next, err := models.NextID(oc.db, &models.Order{}, "oid")
		if err != nil {
			oc.respondDatabaseError(c, "Failed to allocate order id")
			return
		}
		// New orders default to the most recently added client and site
		maxCID, err := models.MaxID(oc.db, &models.Client{}, "cid")
		if err != nil {
			oc.respondDatabaseError(c, "Failed to load client default")
			return
		}
		maxSID, err := models.MaxID(oc.db, &models.Site{}, "sid")
		if err != nil {
			oc.respondDatabaseError(c, "Failed to load site default")
			return
		}
		order = models.Order{
			ID:       next,
			ClientID: maxCID,
			SiteID:   maxSID,
			Due:      "No due date",
			Status:   models.StatusPlaced,
		}
	} else {
		id, err := strconv.ParseUint(idParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_ID",
					"message": "Order id must be an integer or 'new'",
				},
			})
			return
		}
		if err := oc.db.First(&order, uint(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "NOT_FOUND",
						"message": "Order not found",
					},
				})
				return
			}
			oc.respondDatabaseError(c, "Failed to fetch order")
			return
		}
	}

	var clients []models.Client
	if err := oc.db.Where("deleted = ?", false).Order("cid").Find(&clients).Error; err != nil {
		oc.respondDatabaseError(c, "Failed to list clients")
		return
	}
	clientOpts := make([]map[string]interface{}, 0, len(clients))
	for i := range clients {
		clientOpts = append(clientOpts, map[string]interface{}{"cid": clients[i].ID, "name": clients[i].Name})
	}

	var sites []models.Site
	if err := oc.db.Where("deleted = ?", false).Order("sid").Find(&sites).Error; err != nil {
		oc.respondDatabaseError(c, "Failed to list sites")
		return
	}
	siteOpts := make([]map[string]interface{}, 0, len(sites))
	for i := range sites {
		siteOpts = append(siteOpts, map[string]interface{}{"sid": sites[i].ID, "address": sites[i].Address})
	}

	partOpts, err := oc.partOptions(order.ID)
	if err != nil {
		oc.respondDatabaseError(c, "Failed to list parts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order":   order.ToView(oc.db),
			"clients": clientOpts,
			"sites":   siteOpts,
			"parts":   partOpts,
		},
	})
}

// partOptions returns every non-deleted part annotated with the quantity
// and price the given order currently carries for it
func (oc *OrderController) partOptions(orderID uint) ([]map[string]interface{}, error) {
	var parts []models.Part
	if err := oc.db.Where("deleted = ?", false).Order("pid").Find(&parts).Error; err != nil {
		return nil, err
	}

	var lines []models.OrderToPart
	if err := oc.db.Where("oid = ? AND deleted = ?", orderID, false).Find(&lines).Error; err != nil {
		return nil, err
	}
	lineByPart := make(map[uint]models.OrderToPart, len(lines))
	for _, line := range lines {
		lineByPart[line.PartID] = line
	}

	opts := make([]map[string]interface{}, 0, len(parts))
	for i := range parts {
		quantity := 0
		price := 0.0
		if line, ok := lineByPart[parts[i].ID]; ok {
			quantity = line.Quantity
			price = line.Price
		}
		opts = append(opts, map[string]interface{}{
			"pid":      parts[i].ID,
			"name":     parts[i].Name,
			"units":    parts[i].Units,
			"stock":    parts[i].Stock,
			"quantity": quantity,
			"price":    price,
		})
	}
	return opts, nil
}

// Upsert handles POST /order/:oid. Two merges run in a single
// transaction: the order's own scalar fields, then one line item per
// non-deleted part from the submitted quantity_<pid>/price_<pid> pairs.
// An existing line is updated in place; a missing line is only created
// when the submitted quantity is nonzero. Either both merges commit or
// neither does.
func (oc *OrderController) Upsert(c *gin.Context) {
	id, err := strconv.ParseUint(c.PostForm("oid"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Form field 'oid' must be an integer",
			},
		})
		return
	}
	clientID, err := strconv.ParseUint(c.PostForm("client"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Form field 'client' must be an integer",
			},
		})
		return
	}
	siteID, err := strconv.ParseUint(c.PostForm("site"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Form field 'site' must be an integer",
			},
		})
		return
	}
	due := c.PostForm("due")
	status := c.PostForm("status")

	var order models.Order
	created := false
	err = oc.db.Transaction(func(tx *gorm.DB) error {
		// Merge 1: the order's scalar fields
		if err := tx.First(&order, uint(id)).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			created = true
			order = models.Order{
				ID:       uint(id),
				ClientID: uint(clientID),
				SiteID:   uint(siteID),
				Due:      due,
				Status:   status,
				Deleted:  false,
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
		} else {
			order.ClientID = uint(clientID)
			order.SiteID = uint(siteID)
			order.Due = due
			order.Status = status
			if err := tx.Save(&order).Error; err != nil {
				return err
			}
		}

		// Merge 2: one line item per non-deleted part
		var parts []models.Part
		if err := tx.Where("deleted = ?", false).Order("pid").Find(&parts).Error; err != nil {
			return err
		}
		for i := range parts {
			pid := parts[i].ID
			quantity := formInt(c, "quantity_"+strconv.FormatUint(uint64(pid), 10))
			price := formFloat(c, "price_"+strconv.FormatUint(uint64(pid), 10))

			var line models.OrderToPart
			err := tx.Where("oid = ? AND pid = ?", order.ID, pid).First(&line).Error
			if err == nil {
				line.Quantity = quantity
				line.Price = price
				if err := tx.Save(&line).Error; err != nil {
					return err
				}
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			// No existing line: a zero quantity is never materialized
			if quantity == 0 {
				continue
			}
			line = models.OrderToPart{
				OrderID:  order.ID,
				PartID:   pid,
				Quantity: quantity,
				Price:    price,
				Deleted:  false,
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		oc.respondDatabaseError(c, "Failed to save order")
		return
	}

	httpStatus := http.StatusOK
	if created {
		httpStatus = http.StatusCreated
	}
	c.JSON(httpStatus, gin.H{
		"success": true,
		"data":    order.ToView(oc.db),
	})
}

// BatchDelete handles POST /delete_orders/ - soft-deletes every order
// whose id appears in an "order_<id>" form key, along with all of its
// line items. Parts themselves are not touched.
func (oc *OrderController) BatchDelete(c *gin.Context) {
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
	ids := parseDeleteKeys(c.Request.PostForm, "order")

	var deleted int64
	err := oc.db.Transaction(func(tx *gorm.DB) error {
		if len(ids) == 0 {
			return nil
		}
		res := tx.Model(&models.Order{}).Where("oid IN ?", ids).Update("deleted", true)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return tx.Model(&models.OrderToPart{}).Where("oid IN ?", ids).Update("deleted", true).Error
	})
	if err != nil {
		oc.respondDatabaseError(c, "Failed to delete orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": deleted},
	})
}

func (oc *OrderController) respondDatabaseError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": message,
		},
	})
}

// formInt reads an integer form field, treating absent or unparseable
// values as 0
func formInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.PostForm(key))
	if err != nil {
		return 0
	}
	return v
}

// formFloat reads a decimal form field, treating absent or unparseable
// values as 0
func formFloat(c *gin.Context, key string) float64 {
	v, err := strconv.ParseFloat(c.PostForm(key), 64)
	if err != nil {
		return 0
	}
	return v
}

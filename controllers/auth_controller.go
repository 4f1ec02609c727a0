package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/hermes-oms/hermes/middleware"
	"github.com/hermes-oms/hermes/models"
	"gorm.io/gorm"
)

// AuthController handles login and logout
type AuthController struct {
	db    *gorm.DB
	store *sessions.CookieStore
}

// NewAuthController creates an auth controller with its dependencies injected
func NewAuthController(db *gorm.DB, store *sessions.CookieStore) *AuthController {
	return &AuthController{db: db, store: store}
}

// LoginGet handles GET /login - the login view
func (ac *AuthController) LoginGet(c *gin.Context) {
	if middleware.IsAuthenticated(ac.store, c.Request) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Please log in",
	})
}

// LoginPost handles POST /login - checks the credentials and establishes
// the session. Failures redirect back to the login view without revealing
// which field was wrong.
func (ac *AuthController) LoginPost(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	var user models.User
	if err := ac.db.Where("username = ?", username).First(&user).Error; err != nil {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	if !user.CheckPassword(password) {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	if err := middleware.LoginUser(ac.store, c, &user); err != nil {
		log.Printf("Failed to save session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SESSION_ERROR",
				"message": "Failed to save session",
			},
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// Logout handles GET /logout - invalidates the session's identity
func (ac *AuthController) Logout(c *gin.Context) {
	if err := middleware.LogoutUser(ac.store, c); err != nil {
		log.Printf("Failed to clear session: %v", err)
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

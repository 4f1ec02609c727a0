package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hermes-oms/hermes/config"
	"github.com/hermes-oms/hermes/controllers"
	"github.com/hermes-oms/hermes/middleware"
	"github.com/hermes-oms/hermes/services"
	"gorm.io/gorm"
)

// SetupRouter assembles the full application router. Controllers receive
// their data-store handle and collaborators here rather than reaching for
// globals, so tests can build the whole app against an in-memory database.
func SetupRouter(cfg *config.Config, db *gorm.DB, geocoder services.GeocoderInterface) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	sessionStore := middleware.NewSessionStore(cfg.SessionSecret)

	auth := controllers.NewAuthController(db, sessionStore)
	dashboard := controllers.NewDashboardController(db)
	clients := controllers.NewClientController(db)
	sites := controllers.NewSiteController(db, geocoder)
	parts := controllers.NewPartController(db)
	orders := controllers.NewOrderController(db)

	// Login and logout are the only views reachable without a session
	router.GET("/login", auth.LoginGet)
	router.POST("/login", auth.LoginPost)
	router.GET("/logout", auth.Logout)
	router.GET("/health", healthCheck)

	authed := router.Group("/", middleware.RequireLogin(sessionStore))
	{
		authed.GET("", dashboard.Index)
		authed.GET("/index", dashboard.Index)

		authed.GET("/clients/", clients.List)
		authed.GET("/client/:cid", clients.Detail)
		authed.POST("/client/:cid", clients.Upsert)
		authed.POST("/delete_clients/", clients.BatchDelete)

		authed.GET("/sites/", sites.List)
		authed.GET("/site/:sid", sites.Detail)
		authed.POST("/site/:sid", sites.Upsert)
		authed.POST("/delete_sites/", sites.BatchDelete)

		authed.GET("/parts/", parts.List)
		authed.GET("/part/:pid", parts.Detail)
		authed.POST("/part/:pid", parts.Upsert)
		authed.POST("/delete_parts/", parts.BatchDelete)

		authed.GET("/orders/", orders.List)
		authed.GET("/order/:oid", orders.Detail)
		authed.POST("/order/:oid", orders.Upsert)
		authed.POST("/delete_orders/", orders.BatchDelete)
	}

	return router
}

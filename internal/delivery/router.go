package delivery

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RouterConfig struct {
	Session     SessionConfig
	AdminAPIKey string
	CORSOrigins []string
}

type Handlers struct {
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Orders   *OrderHandler
	Users    *UserHandler
	Feedback *FeedbackHandler
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	// Wildcard origins cannot be combined with credentials.
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func NewRouter(cfg RouterConfig, tokens TokenParser, handlers Handlers, log *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	storefront := router.Group("")
	storefront.Use(Identity(tokens, cfg.Session, log))
	handlers.Catalog.RegisterRoutes(storefront)
	handlers.Cart.RegisterRoutes(storefront)
	handlers.Orders.RegisterRoutes(storefront)
	handlers.Users.RegisterRoutes(storefront)
	handlers.Feedback.RegisterRoutes(storefront)

	admin := router.Group("/admin")
	admin.Use(APIKey(cfg.AdminAPIKey, log))
	handlers.Orders.RegisterAdminRoutes(admin)

	log.Info("HTTP routes registered")
	return router
}

package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"rocketshoes-cart/internal/notify"
	cartsvc "rocketshoes-cart/internal/service/cart"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SessionService issues sessions and resolves them to cart stores.
type SessionService interface {
	Issue(ctx context.Context) (string, error)
	Resume(ctx context.Context, id string) error
	Store(ctx context.Context, id string) (*cartsvc.Store, error)
	Recorder(id string) (*notify.Recorder, error)
}

// Deps are the collaborators of the router. Sessions is required.
type Deps struct {
	Sessions       SessionService
	Ready          Pinger
	Metrics        http.Handler
	AllowedOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, deps Deps) (*gin.Engine, error) {
	if deps.Sessions == nil {
		return nil, errors.New("httpserver: session service is required")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Ready))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	h := &cartHandler{sessions: deps.Sessions, logger: logger}
	router.POST("/sessions", h.createSession)

	cart := router.Group("/cart", sessionMiddleware(deps.Sessions))
	cart.GET("", h.getCart)
	cart.GET("/notifications", h.drainNotifications)
	cart.POST("/items", h.addItem)
	cart.PUT("/items/:productId", h.updateItem)
	cart.DELETE("/items/:productId", h.removeItem)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", sessionHeader},
		ExposeHeaders: []string{sessionHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

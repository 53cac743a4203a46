package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/matcert/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.CertificateHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/catalog", handler.Catalog)

	sessions := r.Group("/sessions")
	sessions.POST("", handler.CreateSession)
	sessions.GET("/:id", handler.GetSession)
	sessions.DELETE("/:id", handler.DeleteSession)
	sessions.PUT("/:id/fields/:name", handler.UpdateField)
	sessions.PUT("/:id/draft/:field", handler.UpdateDraftItem)
	sessions.PUT("/:id/chemicals/:element", handler.UpdateDraftChemical)
	sessions.POST("/:id/items", handler.CommitItem)
	sessions.DELETE("/:id/items/:index", handler.RemoveItem)
	sessions.POST("/:id/items/:index/edit", handler.EditItem)
	sessions.POST("/:id/reset", handler.Reset)
	sessions.GET("/:id/preview", handler.Preview)
	sessions.GET("/:id/export", handler.Export)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

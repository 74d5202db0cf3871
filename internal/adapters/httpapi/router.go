package httpapi

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pumpbrain/pumpbrain/internal/logger"
	"go.uber.org/zap"
)

// NewRouter wires the API, health check and browser UI. ui may be nil.
func NewRouter(h *Handler, ui fs.FS, log *logger.Logger) *gin.Engine {
	log = log.WithComponent("http")

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(requestLogger(log), recovery(log))

	r.NoMethod(func(c *gin.Context) {
		errorJSON(c, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	})
	r.NoRoute(func(c *gin.Context) {
		errorJSON(c, http.StatusNotFound, "Not Found")
	})

	api := r.Group("/api")
	api.POST("/analyze-token", h.AnalyzeToken)
	api.POST("/analyze-tx", h.AnalyzeTx)
	api.POST("/analyze-wallet", h.AnalyzeWallet)

	r.GET("/healthz", h.Health)

	if ui != nil {
		mountUI(r, ui)
	}
	return r
}

func mountUI(r *gin.Engine, ui fs.FS) {
	if assets, err := fs.Sub(ui, "assets"); err == nil {
		r.StaticFS("/assets", http.FS(assets))
	}
	r.GET("/", func(c *gin.Context) {
		page, err := fs.ReadFile(ui, "index.html")
		if err != nil {
			errorJSON(c, http.StatusNotFound, "Not Found")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Warn("request", fields...)
			return
		}
		log.Info("request", fields...)
	}
}

func recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		log.Error("panic recovered", zap.Any("panic", rec), zap.String("path", c.Request.URL.Path))
		errorJSON(c, http.StatusInternalServerError, msgInternal)
	})
}

package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pumpbrain/pumpbrain/internal/adapters/httpapi"
	"github.com/pumpbrain/pumpbrain/internal/config"
	"github.com/pumpbrain/pumpbrain/internal/core/service"
	"github.com/pumpbrain/pumpbrain/internal/logger"
	"github.com/pumpbrain/pumpbrain/web"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ServerModule serves the HTTP API and UI for the lifetime of the fx app.
var ServerModule = fx.Options(
	fx.Provide(
		newHandler,
		newRouter,
	),
	fx.Invoke(startHTTPServer),
)

func newHandler(tokens *service.TokenService, txs *service.TransactionService, wallets *service.WalletService, log *logger.Logger) *httpapi.Handler {
	return httpapi.NewHandler(tokens, txs, wallets, log)
}

func newRouter(cfg *config.Config, h *httpapi.Handler, log *logger.Logger) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	return httpapi.NewRouter(h, web.Static(), log)
}

// startHTTPServer starts the API server
func startHTTPServer(lifecycle fx.Lifecycle, cfg *config.Config, router *gin.Engine, log *logger.Logger) {
	server := &http.Server{
		Addr:              cfg.App.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return err
			}
			log.Info("Starting HTTP server...", zap.String("addr", ln.Addr().String()))

			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("HTTP server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}

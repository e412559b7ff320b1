package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/saga-aleeka/saga-store/app"
	"github.com/saga-aleeka/saga-store/config"
	"github.com/saga-aleeka/saga-store/routes"
)

func main() {
	config.LoadEnv()

	application := app.MustNew()
	defer application.Close()

	r := application.Router

	// Health
	r.GET("/", func(c *app.Ctx) {
		c.JSON(http.StatusOK, app.H{
			"status":  "healthy",
			"service": app.ServiceName,
			"version": app.Version,
		})
	})

	routes.RegisterRoutes(r, application)

	srv := &http.Server{
		Addr:    ":" + application.Config.Port,
		Handler: r,
	}

	go func() {
		application.Log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			application.Log.Fatal("serve", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	application.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		application.Log.Error("shutdown", zap.Error(err))
	}
}

// Command api runs the CampusHire HTTP server
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"CampusHire-backend/internal/config"
	"CampusHire-backend/internal/logging"
	"CampusHire-backend/internal/server"
)

func gracefulShutdown(apiServer *http.Server, log *logrus.Logger, done chan<- struct{}) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info("shutting down gracefully, press Ctrl+C again to force")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	log.Info("server exiting")
	close(done)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logging.New(cfg.Logging)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s, err := server.New(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to build server")
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.WithError(err).Error("failed to close server resources")
		}
	}()

	apiServer := s.HTTPServer()
	done := make(chan struct{})
	go gracefulShutdown(apiServer, log, done)

	log.WithField("addr", apiServer.Addr).Info("listening")
	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("http server error")
		return
	}

	<-done
	log.Info("graceful shutdown complete")
}

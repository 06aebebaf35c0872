package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	_ "github.com/noah-isme/yoga-admission/api/swagger"
	"github.com/noah-isme/yoga-admission/internal/handler"
	"github.com/noah-isme/yoga-admission/internal/service"
	"github.com/noah-isme/yoga-admission/pkg/config"
	"github.com/noah-isme/yoga-admission/pkg/logger"
)

const shutdownGrace = 5 * time.Second

// @title Yoga Admission enrollment stub
// @version 0.1.0
// @description Local stand-in for the enrollment endpoint
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg, "enroll-stub")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	enrollments := service.NewStubEnrollmentService(cfg.Stub.FullBatches, metrics, logr)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Stub.Port),
		Handler:           handler.NewStubRouter(cfg, enrollments, metrics, logr),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("stub starting", "addr", srv.Addr, "env", cfg.Env, "full_batches", cfg.Stub.FullBatches)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("stub failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("stub shutdown incomplete", "error", err)
	}
	requests, _ := metrics.Snapshot()
	logr.Sugar().Infow("stub stopped", "requests_served", requests)
}

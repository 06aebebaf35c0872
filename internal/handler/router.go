package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/yoga-admission/internal/middleware"
	"github.com/noah-isme/yoga-admission/internal/service"
	"github.com/noah-isme/yoga-admission/pkg/config"
	"github.com/noah-isme/yoga-admission/pkg/logger"
	corsmiddleware "github.com/noah-isme/yoga-admission/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/yoga-admission/pkg/middleware/requestid"
)

const metricsPath = "/metrics"

// NewStubRouter wires the collaborator stub routes.
func NewStubRouter(cfg *config.Config, enrollments enrollmentAcceptor, metrics *service.MetricsService, logr *zap.Logger) *gin.Engine {
	if logr == nil {
		logr = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metrics, metricsPath))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	status := NewStatusHandler(metrics)
	r.GET("/health", status.Health)
	r.GET(metricsPath, status.Metrics)

	enrollmentHandler := NewEnrollmentHandler(enrollments)
	r.POST("/enroll", enrollmentHandler.Create)
	r.GET("/batches", enrollmentHandler.Batches)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	return r
}

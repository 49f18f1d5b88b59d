package bootstrap

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httpapi "github.com/jwd-portfolio/portfolio-backend/internal/api/http"
	"github.com/jwd-portfolio/portfolio-backend/internal/api/http/middleware"
	projectshttp "github.com/jwd-portfolio/portfolio-backend/internal/projects/http"
	"github.com/jwd-portfolio/portfolio-backend/internal/projects/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Logger      *zap.Logger

	Projects *service.ProjectService

	CORSOrigins    []string
	WriteRatePerS  float64
	WriteRateBurst int
	MaxBodyBytes   int64

	PublicDir    string
	ImageDir     string
	CacheSeconds int
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	logger := dep.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.Metrics())
	r.Use(cors.New(corsConfig(dep.CORSOrigins)))

	var store httpapi.Pinger
	if dep.Projects != nil {
		store = dep.Projects
	}
	httpapi.NewHealthHandler(dep.ServiceName, dep.Version, store).RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	projectsHandler := projectshttp.New(dep.Projects, dep.MaxBodyBytes, logger)
	projectsHandler.Register(api.Group("/projects"), middleware.RateLimit(dep.WriteRatePerS, dep.WriteRateBurst))

	assets := middleware.CacheControl(dep.CacheSeconds)
	if dep.ImageDir != "" {
		r.Group("/images", assets, middleware.NoSniff()).Static("/", dep.ImageDir)
	}
	if dep.PublicDir != "" {
		r.Group("/static", assets).Static("/", dep.PublicDir)
		r.StaticFile("/", filepath.Join(dep.PublicDir, "index.html"))
	}

	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "not found")
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

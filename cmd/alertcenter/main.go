package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	alertapi "github.com/logiops/alertcenter/internal/alerting/api"
	"github.com/logiops/alertcenter/internal/alerting/cache"
	adb "github.com/logiops/alertcenter/internal/alerting/database"
	"github.com/logiops/alertcenter/internal/alerting/service"
	"github.com/logiops/alertcenter/internal/alerting/store"
	"github.com/logiops/alertcenter/internal/config"
	"github.com/logiops/alertcenter/internal/metrics"
	"github.com/logiops/alertcenter/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// load config first
	log.Info().Msg("Starting alertcenter api server")
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// configure log level from config
	switch strings.ToLower(cfg.Logging.Level) {
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	metrics.Register()

	// alert record store; handlers fail closed when the DB never came up
	var alertStore store.Store
	if db, derr := adb.New(cfg.Database.DSN()); derr == nil {
		alertStore = store.NewPgStore(db)
		defer db.Close()
	} else {
		log.Error().Err(derr).Msg("alert store init failed; endpoints will report store unavailable")
	}

	// optional Redis record cache
	var alertCache cache.Cache = cache.NoopCache{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		alertCache = cache.NewRedisCache(rdb, parseDuration(cfg.Redis.CacheTTL, 15*time.Minute))
	}

	routing, err := service.LoadRoutingDefaults(cfg.Alerting.RoutingDefaultsFile)
	if err != nil {
		log.Error().Err(err).Msg("load routing defaults failed; using built-in defaults")
	}
	svc := service.New(alertStore, alertCache, routing)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.Authentication)
	router.Use(metrics.Middleware())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	alertapi.NewApi(router, svc)

	log.Info().Msgf("Starting server on %s", cfg.Server.BindAddr)
	if err := router.Run(cfg.Server.BindAddr); err != nil {
		log.Fatal().Err(err).Msg("start alertcenter api server failed.")
	}
	log.Info().Msg("alertcenter api server exit...")
}

func parseDuration(s string, d time.Duration) time.Duration {
	if s == "" {
		return d
	}
	if v, err := time.ParseDuration(s); err == nil {
		return v
	}
	return d
}

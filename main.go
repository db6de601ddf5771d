package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devfolio/devfolio/handlers"
	"github.com/devfolio/devfolio/internal/authgate"
	"github.com/devfolio/devfolio/internal/cache"
	"github.com/devfolio/devfolio/internal/config"
	"github.com/devfolio/devfolio/internal/database"
	"github.com/devfolio/devfolio/internal/oidc"
	"github.com/devfolio/devfolio/internal/operators"
	"github.com/devfolio/devfolio/internal/sessions"
	"github.com/devfolio/devfolio/internal/site"
	"github.com/devfolio/devfolio/internal/storage"
	"github.com/devfolio/devfolio/internal/store"
	"github.com/devfolio/devfolio/pkg/logger"
	"github.com/devfolio/devfolio/pkg/metrics"
	"github.com/devfolio/devfolio/pkg/middleware"
	"github.com/devfolio/devfolio/web"
	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal, LOG_FORMAT: json|console
	logger.Init(os.Getenv("LOG_LEVEL"))
	if f := os.Getenv("LOG_FORMAT"); f != "" {
		logger.SetFormat(f)
	}
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: env=%s mongo=%v redis=%v minio=%v oidc=%v",
		cfg.Server.Environment, cfg.MongoDB.URI != "", cfg.Redis.Addr() != "", cfg.Storage.Endpoint != "", cfg.OIDC.Issuer != "")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())
	r.SetHTMLTemplate(web.MustTemplates())

	// Redis is optional; it backs sessions, the blacklist, the settings cache
	// and the rate limiter when configured.
	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis ping failed (%s): %v; continuing without redis", addr, err)
			_ = rdb.Close()
			rdb = nil
		} else {
			logger.Infof("connected to redis at %s", addr)
			defer rdb.Close()
		}
	}

	// Document store: MongoDB when configured, process memory otherwise.
	var mongoClient *mongo.Client
	var docs store.Store
	if cfg.MongoDB.URI != "" {
		mongoClient, err = database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second)
		if err != nil {
			logger.Fatalf("could not connect to MongoDB: %v", err)
		}
		defer func() { _ = mongoClient.Disconnect(context.Background()) }()
		docs = store.NewMongoStore(mongoClient.Database(cfg.MongoDB.Database))
		logger.Infof("using MongoDB database %q", cfg.MongoDB.Database)
	} else {
		logger.Warn("MONGODB_URI not set; content is kept in memory and lost on restart")
		docs = store.NewMemoryStore()
	}
	docs = store.Instrument(docs, metrics.ObserveStore)

	operatorsSvc := operators.NewService(operators.NewStoreRepository(docs))
	if _, err := operatorsSvc.EnsureBootstrap(ctx, cfg.Admin); err != nil {
		logger.Warnf("operator bootstrap: %v", err)
	}

	var sessionsSvc *sessions.Service
	var blacklist sessions.Blacklist
	if rdb != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(rdb, "session:"))
		blacklist = sessions.NewRedisBlacklist(rdb)
	} else {
		sessionsSvc = sessions.NewService(sessions.NewStoreRepository(docs))
		blacklist = sessions.NewMemoryBlacklist()
	}

	var idp *oidc.Verifier
	if cfg.OIDC.Issuer != "" && cfg.OIDC.ClientID != "" {
		idp, err = oidc.NewVerifier(ctx, cfg.OIDC.Issuer, cfg.OIDC.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
			idp = nil
		}
	}

	var objects storage.ObjectStore
	if mc := storage.MinIOConfigFrom(cfg.Storage); mc != nil {
		m, err := storage.NewMinIOStorage(mc)
		if err != nil {
			logger.Fatalf("minio: %v", err)
		}
		objects = m
		logger.Infof("storing uploads in bucket %q at %s", mc.Bucket, mc.Endpoint)
	} else {
		logger.Warn("MINIO_ENDPOINT not set; uploads are kept in memory")
		objects = storage.NewMemoryStorage()
	}
	images := storage.NewImages(objects, cfg.Storage.MaxUploadMiB<<20)

	var settingsCache cache.Cache = cache.NewMemoryCache()
	if rdb != nil {
		settingsCache = cache.NewRedisCache(rdb, "devfolio:")
	}
	settings := &site.CachedSettings{Source: site.StoreSettings{Store: docs}, Cache: settingsCache, TTL: cfg.Cache.SettingsTTL}
	renderer := site.NewRenderer(docs, settings)

	var contactLimit gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			contactLimit = middleware.RedisRateLimitMiddleware(rdb, "contact", cfg.RateLimit.RPS, cfg.RateLimit.Burst, win)
		} else {
			contactLimit = middleware.RateLimitMiddleware("contact", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when the configured backing services answer
	r.GET("/ready", func(c *gin.Context) {
		pctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		ready := true
		deps := map[string]bool{}
		if mongoClient != nil {
			deps["mongodb"] = mongoClient.Ping(pctx, nil) == nil
			ready = ready && deps["mongodb"]
		}
		if rdb != nil {
			deps["redis"] = rdb.Ping(pctx).Err() == nil
			ready = ready && deps["redis"]
		}
		if cfg.OIDC.Issuer != "" {
			deps["oidc"] = idp != nil
			ready = ready && deps["oidc"]
		}
		status, label := http.StatusOK, "ready"
		if !ready {
			status, label = http.StatusServiceUnavailable, "not_ready"
		}
		c.JSON(status, gin.H{"status": label, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	auth := handlers.NewAuthHandler(cfg, operatorsSvc, sessionsSvc, blacklist)
	if idp != nil {
		auth.WithOIDC(idp)
	}
	auth.Register(r.Group("/"))
	handlers.RegisterSwagger(r)

	media := handlers.NewMediaHandler(objects, images)
	media.Register(r)

	siteHandler := handlers.NewSiteHandler(docs, renderer)
	siteHandler.Register(r, contactLimit)

	gate := authgate.New(sessionsSvc, operatorsSvc, cfg.JWT.RefreshTokenTTL, cfg.Server.CookieSecure)
	admin := handlers.NewAdminHandler(docs, gate, operatorsSvc, images).WithSettingsCache(settings).Register(r)
	admin.POST("/uploads", media.Upload)

	api := r.Group("/api/v1")
	contentHandler := handlers.NewContentHandler(docs, renderer).WithSettingsCache(settings)
	contentHandler.RegisterPublic(api, contactLimit)
	adminAPI := api.Group("/admin", middleware.AuthMiddleware(auth.Verifier(), blacklist))
	contentHandler.RegisterAdmin(adminAPI)
	adminAPI.POST("/uploads", media.Upload)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.NoRoute(siteHandler.NotFound)

	var h http.Handler = r
	if len(cfg.CORS.AllowedOrigins) > 0 {
		h = cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300,
		})(r)
	}

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Infof("starting devfolio on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
}

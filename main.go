package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/postline/postline/backend/go-services/handlers"
	"github.com/postline/postline/backend/go-services/internal/cache"
	"github.com/postline/postline/backend/go-services/internal/config"
	"github.com/postline/postline/backend/go-services/internal/database"
	"github.com/postline/postline/backend/go-services/internal/posts"
	"github.com/postline/postline/backend/go-services/internal/sessions"
	"github.com/postline/postline/backend/go-services/internal/tokens"
	"github.com/postline/postline/backend/go-services/internal/users"
	"github.com/postline/postline/backend/go-services/pkg/logger"
	"github.com/postline/postline/backend/go-services/pkg/metrics"
	"github.com/postline/postline/backend/go-services/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: postgres=%v redis=%v", cfg.Postgres.DSN != "", cfg.Redis.Host != "")

	signer, err := tokens.NewSigner(cfg.JWT)
	if err != nil {
		logger.Fatalf("failed to build token signer: %v", err)
	}

	ctx := context.Background()

	// Redis backs the revocation blocklist, the refresh registry and the
	// post cache. Without it the service falls back to in-process stores,
	// which is only suitable for a single-node dev setup.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatalf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
		}
		logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
	} else {
		logger.Warnf("REDIS_HOST not set; using in-process caches (dev mode)")
	}

	var blocklist cache.Cache
	var registry cache.ListCache
	var postCache cache.Cache
	if redisClient != nil {
		blocklist = cache.NewRedisCache(redisClient, "blocked_access:")
		registry = cache.NewRedisCache(redisClient, "active_refresh:")
		postCache = cache.NewRedisCache(redisClient, "post:")
	} else {
		blocklist = cache.NewMemoryCache()
		registry = cache.NewMemoryCache()
		postCache = cache.NewMemoryCache()
	}

	// Postgres persists users and posts. Retry with backoff to tolerate
	// container startup races; fall back to in-memory repositories in dev.
	var pool *pgxpool.Pool
	var userRepo users.Repository
	var postRepo posts.Repository
	if cfg.Postgres.DSN != "" {
		const maxAttempts = 5
		backoff := time.Second
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			pool, err = database.ConnectPostgres(ctx, cfg.Postgres.DSN, cfg.Postgres.Timeout)
			if err == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to Postgres: %v", attempt, maxAttempts, err)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if err != nil {
			logger.Fatalf("could not connect to Postgres after %d attempts: %v", maxAttempts, err)
		}
		defer pool.Close()

		if err := database.Migrate(cfg.Postgres.DSN); err != nil {
			logger.Fatalf("migrations failed: %v", err)
		}
		userRepo = users.NewPostgresRepository(pool)
		postRepo = posts.NewPostgresRepository(pool)
	} else {
		logger.Warnf("POSTGRES_DSN not set; using in-memory repositories (dev mode)")
		userRepo = users.NewMemoryRepository()
		postRepo = posts.NewMemoryRepository()
	}

	sessionsSvc := sessions.NewService(
		signer,
		sessions.NewRevocationStore(blocklist),
		sessions.NewRefreshTokenRegistry(registry),
		userRepo,
	)
	postsSvc := posts.NewService(postRepo, postCache)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS for dev/test; production should use a stricter policy.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{"postgres": true, "redis": true}
		if pool != nil {
			if err := pool.Ping(c.Request.Context()); err != nil {
				deps["postgres"] = false
				ready = false
			}
		}
		if redisClient != nil {
			if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
				deps["redis"] = false
				ready = false
			}
		}
		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	api := r.Group("/api/v1")
	handlers.NewAuthHandler(sessionsSvc, userRepo).Register(api)
	handlers.NewPostHandler(postsSvc).Register(api, middleware.AuthMiddleware(sessionsSvc))

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting service on %s (env=%s)", addr, cfg.Server.Environment)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server failed: %v", err)
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"cardwatch/internal/auth"
	"cardwatch/internal/cache"
	"cardwatch/internal/discovery"
	"cardwatch/internal/news"
	"cardwatch/internal/notify"
	"cardwatch/internal/push"
	"cardwatch/internal/sources"
	"cardwatch/internal/watchlist"
	"cardwatch/pkg/database"
	"cardwatch/pkg/utils"
)

func main() {
	cfg := database.DefaultConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	router := gin.Default()

	// gin trusts every proxy by default and logs a warning about it;
	// scope trust to loopback instead.
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := push.NewHub()
	router.GET("/ws", push.WSHandler(hub))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": cfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not_ready",
				"db_error":   err.Error(),
				"ws_clients": stats.Clients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"db":         "ok",
			"ws_clients": stats.Clients,
		})
	})

	// Cache backend
	cacheCfg := utils.LoadCacheConfig()
	var store cache.Cache
	switch cacheCfg.Backend {
	case "redis":
		rc := cache.NewRedis(cacheCfg.RedisAddr, cacheCfg.TTL)
		defer rc.Close()
		store = rc
		log.Printf("cache backend: redis (%s)", cacheCfg.RedisAddr)
	default:
		store = cache.NewMemory(cacheCfg.TTL)
		log.Printf("cache backend: memory")
	}

	// Discovery + news (public)
	registry := sources.NewRegistry()
	orch := discovery.New(registry, store)
	discovery.NewHandler(orch).RegisterRoutes(router.Group("/"))
	news.NewHandler(news.NewScraper(), store).RegisterRoutes(router.Group("/"))

	// Auth
	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	auth.NewHandler(authRepo, tokenSvc).RegisterRoutes(router.Group("/auth"))

	// Protected routes
	protected := router.Group("/")
	protected.Use(auth.AuthMiddleware(tokenSvc))

	protected.GET("/users/me", func(c *gin.Context) {
		claims := auth.MustGetClaims(c)
		c.JSON(http.StatusOK, gin.H{
			"id":       claims.UserID(),
			"username": claims.Username,
			"email":    claims.Email,
		})
	})

	// Email settings + watchlist (protected)
	mailer := notify.NewMailer(utils.LoadSMTPConfig())
	settingsRepo := notify.NewSettingsRepo(db)
	notify.NewHandler(settingsRepo, mailer).RegisterRoutes(protected)

	watchRepo := watchlist.NewRepo(db)
	watchSvc := watchlist.NewService(watchRepo, registry)
	watchlist.NewHandler(watchSvc, mailer, settingsRepo, hub).RegisterRoutes(protected)

	srvCfg := utils.LoadServerConfig()
	httpSrv := &http.Server{
		Addr:    srvCfg.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP API server listening on %s", srvCfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	log.Println("server stopped")
}

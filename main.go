package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tigarcia/validator-version-monitor/config"
	"github.com/tigarcia/validator-version-monitor/handlers"
	"github.com/tigarcia/validator-version-monitor/middleware"
	"github.com/tigarcia/validator-version-monitor/services"
	"github.com/tigarcia/validator-version-monitor/utils"
)

func main() {
	// 1. Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Println("=== Configuration ===")
	log.Printf("Server: %s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Snapshot: %s (every %ds)", cfg.Snapshot.Path, cfg.Snapshot.RefreshInterval)
	log.Printf("Redis: %s (enabled: %v)", cfg.Redis.Address, cfg.Redis.Enabled)
	log.Printf("MongoDB: %s (enabled: %v)", cfg.MongoDB.Database, cfg.MongoDB.Enabled)

	// 2. Core Services
	resolver := utils.NewInfraResolver(cfg.GeoIP.ASNDBPath, cfg.GeoIP.CityDBPath)
	defer resolver.Close()

	mongoService, err := services.NewMongoDBService(cfg)
	if err != nil {
		log.Printf("⚠️  MongoDB connection failed: %v", err)
		log.Println("Version history will be disabled")
		mongoService = nil
	}
	if mongoService != nil {
		defer mongoService.Close()
	}

	discord, err := services.NewDiscordNotifier(cfg.Discord.Token, cfg.Discord.ChannelID)
	if err != nil {
		log.Printf("⚠️  Discord initialization failed: %v", err)
		log.Println("Discord notifications will be disabled")
		discord = nil
	}
	if discord != nil {
		defer discord.Close()
	}

	cache := services.NewCacheService(cfg)
	registry := services.NewRegistryClient(cfg)
	explorer := services.NewExplorerService(cfg, registry, resolver, cache, mongoService, discord)

	// 3. Web Server
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.LoggerMiddleware())
	e.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	e.Use(middleware.Recover())

	h := handlers.NewHandler(cfg, explorer)
	handlers.Register(e, h, handlers.NewCacheHandlers(cache))

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	go func() {
		log.Printf("🚀 Server running on http://%s", serverAddr)
		if err := e.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("shutting down the server: %v", err)
		}
	}()

	// 4. Background services. The cached dataset is served until the first
	// refresh completes.
	log.Println("=== Starting Services ===")

	cache.StartHealthCheck()
	log.Printf("✓ Cache Service started (mode: %s)", cache.GetCacheMode())

	explorer.WarmFromCache()
	go func() {
		explorer.Start()
		log.Println("✓ Explorer refresh loop started")
	}()

	// 5. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⏳ Graceful shutdown initiated...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Stopping services...")
	explorer.Stop()
	cache.Stop()
	log.Println("✓ All services stopped")

	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
	log.Println("✓ Server exited cleanly")
}

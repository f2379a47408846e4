package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"leaderboard-gateway/internal/db"
	"leaderboard-gateway/internal/server"
)

func main() {
	// A .env file is a local-dev convenience; in deployment the environment
	// is injected directly and the file is absent.
	_ = godotenv.Load()

	v := server.NewConfigValidator()
	databaseURL := v.ValidateRequired("DATABASE_URL")
	storeURL := os.Getenv("SUPABASE_URL")
	v.ValidateURL("SUPABASE_URL", storeURL)
	port := getenvDefault("PORT", "8080")
	v.ValidatePort("PORT", port)
	if v.HasErrors() {
		log.Printf("service=gateway msg=%q\n%s", "invalid_configuration", v.ErrorString())
		os.Exit(1)
	}

	build := server.BuildInfo{
		Version: getenvDefault("LBG_VERSION", "dev"),
		Commit:  getenvDefault("LBG_COMMIT", "unknown"),
	}

	// Database (elevated credential)
	dbConn, err := server.OpenDB(databaseURL)
	if err != nil {
		log.Printf("service=gateway msg=%q err=%v", "db_connect_failed", err)
		os.Exit(1)
	}
	defer func() { _ = dbConn.Close() }()

	// Run migrations
	log.Printf("service=gateway msg=%q", "running_migrations")
	if err := db.RunMigrations(dbConn); err != nil {
		log.Printf("service=gateway msg=%q err=%v", "migration_failed", err)
		os.Exit(1)
	}
	log.Printf("service=gateway msg=%q", "migrations_complete")

	store := server.NewPostgresStore(dbConn)

	cfg := server.Config{
		Addr:          ":" + port,
		Build:         build,
		StoreURL:      storeURL,
		StoreAnonKey:  os.Getenv("SUPABASE_ANON_KEY"),
		HasServiceDSN: databaseURL != "",
		AllowedOrigin: getenvDefault("ALLOWED_ORIGIN", "*"),
		StaticDir:     getenvDefault("LBG_STATIC_DIR", "./public"),
		RateLimits:    server.DefaultRateLimitConfig(),
	}
	if cfg.StoreURL == "" || cfg.StoreAnonKey == "" {
		log.Printf("service=gateway msg=%q", "client_store_config_missing_api_config_disabled")
	}

	srv := server.New(cfg, store, dbConn)

	// Optional leaderboard snapshot export to object storage.
	var snapshots *server.SnapshotManager
	if getenvDefault("LBG_SNAPSHOT_ENABLED", "false") == "true" {
		snapshots, err = server.NewSnapshotManager(server.SnapshotConfig{
			Enabled:       true,
			Interval:      getenvDuration("LBG_SNAPSHOT_INTERVAL", 24*time.Hour),
			RetentionDays: getenvInt("LBG_SNAPSHOT_RETENTION_DAYS", 30),
			Endpoint:      os.Getenv("LBG_SNAPSHOT_S3_ENDPOINT"),
			AccessKey:     os.Getenv("LBG_SNAPSHOT_S3_ACCESS_KEY"),
			SecretKey:     os.Getenv("LBG_SNAPSHOT_S3_SECRET_KEY"),
			UseSSL:        getenvDefault("LBG_SNAPSHOT_S3_SSL", "true") == "true",
			Bucket:        getenvDefault("LBG_SNAPSHOT_S3_BUCKET", "leaderboard-snapshots"),
			Prefix:        getenvDefault("LBG_SNAPSHOT_S3_PREFIX", ""),
		}, store)
		if err != nil {
			log.Printf("service=gateway msg=%q err=%v", "snapshot_init_failed", err)
			os.Exit(1)
		}
		snapshots.Start()
	}

	// Start the HTTP server in a background goroutine so we can listen for
	// OS signals while it runs.
	errCh := make(chan error, 1)
	go func() {
		log.Printf("service=gateway msg=%q addr=%s version=%s commit=%s",
			"starting", cfg.Addr, build.Version, build.Commit)
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("service=gateway msg=%q signal=%s", "shutting_down", sig.String())
		if snapshots != nil {
			snapshots.Stop()
		}
		// Give in-flight requests 5 seconds to finish.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("service=gateway msg=%q err=%v", "shutdown_error", err)
			os.Exit(1)
		}
		log.Printf("service=gateway msg=%q", "shutdown_complete")
	case err := <-errCh:
		if err != nil {
			log.Printf("service=gateway msg=%q err=%v", "server_error", err)
			os.Exit(1)
		}
	}
}

// getenvDefault reads an environment variable, returning def when unset.
func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

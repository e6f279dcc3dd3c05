package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eduardojeem/Mipos-sub011/internal/catalog"
	"github.com/eduardojeem/Mipos-sub011/internal/sale"
	"github.com/eduardojeem/Mipos-sub011/internal/server"
)

type Config struct {
	HTTPPort        string
	DBHost          string
	DBPort          int
	DBUser          string
	DBPassword      string
	DBName          string
	MigrationsDir   string
	RedisAddr       string
	KafkaBrokers    []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnvInt("DB_PORT", 5432),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "postgres"),
		DBName:          getEnv("DB_NAME", "pos"),
		MigrationsDir:   getEnv("MIGRATIONS_DIR", "migrations"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		RequestTimeout:  15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return n
}

func main() {
	cfg := loadConfig()

	creds := &sale.Credentials{
		Host:              cfg.DBHost,
		Port:              cfg.DBPort,
		User:              cfg.DBUser,
		Password:          cfg.DBPassword,
		DBName:            cfg.DBName,
		MigrationsDirPath: cfg.MigrationsDir,
	}
	saleRepo, err := sale.NewPostgresRepository(creds)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer saleRepo.Close()

	if err := saleRepo.RunMigrations(creds); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	catalogRepo := catalog.NewPostgresRepository(saleRepo.DB())
	catalogSvc := catalog.NewService(catalogRepo, catalog.NewRedisCache(redisClient))
	saleSvc := sale.NewService(saleRepo)

	// Outbox publisher drains accepted sales into kafka for the
	// registers' realtime feeds.
	publisher := sale.NewPublisher(saleRepo, cfg.KafkaBrokers...)
	defer publisher.Close()
	pubCtx, pubCancel := context.WithCancel(context.Background())
	defer pubCancel()
	go publisher.Run(pubCtx)

	handler := server.NewHandler(catalogSvc, saleSvc, cfg.RequestTimeout)
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      server.NewRouter(handler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("posd starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	pubCancel()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
}

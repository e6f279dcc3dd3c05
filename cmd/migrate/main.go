package main

import (
	"log"
	"os"
	"strconv"

	"github.com/eduardojeem/Mipos-sub011/internal/sale"
)

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

// Applies pending schema migrations and exits. posd also migrates on
// startup; this runner exists for deploy pipelines that migrate before
// rolling the service.
func main() {
	creds := &sale.Credentials{
		Host:              getEnv("DB_HOST", "localhost"),
		Port:              getEnvInt("DB_PORT", 5432),
		User:              getEnv("DB_USER", "postgres"),
		Password:          getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "pos"),
		MigrationsDirPath: getEnv("MIGRATIONS_DIR", "migrations"),
	}

	repo, err := sale.NewPostgresRepository(creds)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(creds); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	log.Println("migrations applied")
}

package main

import (
	"log"
	"os"
	"strconv"

	"github.com/deskhours/sucktorial/server"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	cfg := server.Config{
		SeedEmail:    os.Getenv("SEED_EMAIL"),
		SeedPassword: os.Getenv("SEED_PASSWORD"),
	}
	if raw := os.Getenv("SEED_EMPLOYEE_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Fatalf("Invalid SEED_EMPLOYEE_ID: %v", err)
		}
		cfg.SeedEmployeeID = id
	}

	// Postgres when DATABASE_URL is set, a local sqlite file otherwise.
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Driver = "postgres"
		cfg.DSN = dbURL
	} else {
		cfg.DSN = os.Getenv("SUCKTORIAL_SERVER_DB")
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			log.Printf("Error closing server: %v", err)
		}
	}()

	log.Printf("Factorial stand-in server starting on :%s", port)
	if err := srv.Start(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

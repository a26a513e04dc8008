package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/rakapradana/fitness-tracker/config"
	"github.com/rakapradana/fitness-tracker/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	dsn := cfg.PostgresDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	username := "demo"
	email := "demo@example.com"
	name := "Demo User"
	password := "password123"
	hash, err := helpers.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	res, err := db.Exec(`
		INSERT INTO users (username, email, name, password_hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username) DO NOTHING
	`, username, email, name, hash)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		fmt.Printf("user %q already exists, skipping\n", username)
		return
	}
	fmt.Printf("seeded user: username=%s email=%s password=%s\n", username, email, password)
}

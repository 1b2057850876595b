// Command seed_admin creates or resets an administrator account.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dutyops/duty-roster-api/pkg/config"
	"github.com/dutyops/duty-roster-api/pkg/database"
)

func main() {
	var (
		email    string
		password string
		fullName string
	)
	flag.StringVar(&email, "email", "admin@example.com", "admin email")
	flag.StringVar(&password, "password", "", "admin password (required)")
	flag.StringVar(&fullName, "name", "Administrator", "admin display name")
	flag.Parse()

	if password == "" {
		log.Fatal("-password is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer db.Close() //nolint:errcheck

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	now := time.Now().UTC()
	query := `INSERT INTO users (id, email, password_hash, full_name, role, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, 'ADMIN', TRUE, $5, $5)
ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash, full_name = EXCLUDED.full_name, active = TRUE, updated_at = EXCLUDED.updated_at`
	if _, err := db.Exec(query, uuid.NewString(), email, hash, fullName, now); err != nil {
		log.Fatalf("failed to upsert admin: %v", err)
	}
	log.Printf("admin account ready: %s", email)
}

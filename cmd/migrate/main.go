package main

import (
	"log"

	"church-attendance/app/config"
	"church-attendance/app/database"
	"church-attendance/app/routes/auth"
)

// Runs the schema migrations and seeds the initial admin account when the
// users table is empty. Safe to run repeatedly.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Migration failed:", err)
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Fatal("Failed to hash admin password:", err)
	}
	if err := database.SeedAdmin(db, cfg.AdminUsername, hash); err != nil {
		log.Fatal("Failed to seed admin account:", err)
	}

	log.Println("Migration completed")
}

package config

import (
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type Config struct {
	Port        int    `env:"PORT" envDefault:"5000"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"host=localhost port=5432 user=postgres dbname=church sslmode=disable"`
	LogDir      string `env:"LOG_DIR" envDefault:"./logs"`
	StaticDir   string `env:"STATIC_DIR" envDefault:"./public"`

	// Seed credentials used by cmd/migrate when the users table is empty.
	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
}

func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConnectDB opens the Postgres pool and verifies the connection.
func ConnectDB(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	log.Println("Database connected successfully")
	return db, nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

type seedProduct struct {
	id       string
	title    string
	price    float64
	category string
	stock    int
}

// seedCatalog loads a small sample catalog for local development.
// Run with: go run scripts/seed_catalog.go
func main() {
	_ = godotenv.Load()

	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		connString = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_NAME", "shopkart"),
		)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	products := []seedProduct{
		{"P001", "Masala Chai Tin", 100.00, "grocery", 50},
		{"P002", "Steel Tiffin Box", 49.50, "kitchen", 120},
		{"P003", "Handloom Cotton Stole", 200.00, "apparel", 30},
		{"P004", "Brass Table Lamp", 850.00, "home", 12},
		{"P005", "Jute Tote Bag", 120.00, "accessories", 75},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, title, price, category, stock)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE
			SET title = EXCLUDED.title, price = EXCLUDED.price,
			    category = EXCLUDED.category, stock = EXCLUDED.stock,
			    updated_at = NOW()`,
			p.id, p.title, p.price, p.category, p.stock,
		)
		if err != nil {
			log.Fatalf("Failed to seed %s: %v", p.id, err)
		}
		fmt.Printf("Seeded %s (%s)\n", p.id, p.title)
	}

	fmt.Println("\nSample catalog seeded successfully!")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

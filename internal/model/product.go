package model

import "time"

// Product represents a product in the catalogue.
type Product struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Price     float64   `json:"price" db:"price"`
	Category  string    `json:"category" db:"category"`
	Stock     int       `json:"stock" db:"stock"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CatalogEntry is the read-only snapshot of a product used during order
// validation: the catalog-confirmed price and the stock level observed at
// read time.
type CatalogEntry struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

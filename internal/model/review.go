package model

import (
	"time"

	"github.com/google/uuid"
)

// Review represents a customer review of a product. A user may review a
// given product at most once.
type Review struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	ProductID string     `json:"productId" db:"product_id"`
	UserID    string     `json:"userId" db:"user_id"`
	Rating    int        `json:"rating" db:"rating"`
	Comment   string     `json:"comment" db:"comment"`
	Images    []MediaRef `json:"images,omitempty"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// ReviewRequest represents the request payload for creating a review.
type ReviewRequest struct {
	ProductID string `json:"productId"`
	UserID    string `json:"userId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry as returned by the server.
type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"imageURL"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductList is one page of catalog results.
type ProductList struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PerPage  int       `json:"perPage"`
}

// ProductFilters selects and pages catalog results. Nil fields are omitted
// from the request entirely; the server applies its own defaults.
type ProductFilters struct {
	Page     *int
	PerPage  *int
	Category *string
	MinPrice *float64
	MaxPrice *float64
	Search   *string
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageURL"`
}

// UpdateProductRequest is a partial update; nil fields are left untouched by
// the server.
type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	Category    *string  `json:"category,omitempty"`
	ImageURL    *string  `json:"imageURL,omitempty"`
}

// HealthCheck is the server liveness payload.
type HealthCheck struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

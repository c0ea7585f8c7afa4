package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/mhartig/shopfront/internal/domain"
)

// Typed endpoints. Each is a thin request builder over Send; no defaulting
// happens here, the server owns fallback behavior.

func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) Result[domain.AuthResult] {
	return Send[domain.AuthResult](ctx, c, Request{
		Op:     "register",
		Method: http.MethodPost,
		Path:   "/api/v1/users/register",
		Body:   req,
	})
}

func (c *Client) Login(ctx context.Context, req domain.LoginRequest) Result[domain.AuthResult] {
	return Send[domain.AuthResult](ctx, c, Request{
		Op:     "login",
		Method: http.MethodPost,
		Path:   "/api/v1/users/login",
		Body:   req,
	})
}

func (c *Client) RefreshToken(ctx context.Context, refreshToken string) Result[domain.AuthResult] {
	return Send[domain.AuthResult](ctx, c, Request{
		Op:     "refresh_token",
		Method: http.MethodPost,
		Path:   "/api/v1/users/refresh-token",
		Body:   domain.RefreshTokenRequest{RefreshToken: refreshToken},
	})
}

func (c *Client) GetProfile(ctx context.Context) Result[domain.User] {
	return Send[domain.User](ctx, c, Request{
		Op:     "get_profile",
		Method: http.MethodGet,
		Path:   "/api/v1/users/me",
	})
}

func (c *Client) UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest) Result[domain.User] {
	return Send[domain.User](ctx, c, Request{
		Op:     "update_profile",
		Method: http.MethodPut,
		Path:   "/api/v1/users/me",
		Body:   req,
	})
}

// ListProducts encodes only the filter fields actually supplied; absent
// fields are omitted from the query string entirely.
func (c *Client) ListProducts(ctx context.Context, filters domain.ProductFilters) Result[domain.ProductList] {
	query := url.Values{}
	if filters.Page != nil {
		query.Set("page", strconv.Itoa(*filters.Page))
	}
	if filters.PerPage != nil {
		query.Set("perPage", strconv.Itoa(*filters.PerPage))
	}
	if filters.Category != nil {
		query.Set("category", *filters.Category)
	}
	if filters.MinPrice != nil {
		query.Set("minPrice", strconv.FormatFloat(*filters.MinPrice, 'f', -1, 64))
	}
	if filters.MaxPrice != nil {
		query.Set("maxPrice", strconv.FormatFloat(*filters.MaxPrice, 'f', -1, 64))
	}
	if filters.Search != nil {
		query.Set("search", *filters.Search)
	}

	path := "/api/v1/products"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	return Send[domain.ProductList](ctx, c, Request{
		Op:     "list_products",
		Method: http.MethodGet,
		Path:   path,
	})
}

func (c *Client) GetProduct(ctx context.Context, id uuid.UUID) Result[domain.Product] {
	return Send[domain.Product](ctx, c, Request{
		Op:     "get_product",
		Method: http.MethodGet,
		Path:   "/api/v1/products/" + id.String(),
	})
}

func (c *Client) CreateProduct(ctx context.Context, req domain.CreateProductRequest) Result[domain.Product] {
	return Send[domain.Product](ctx, c, Request{
		Op:     "create_product",
		Method: http.MethodPost,
		Path:   "/api/v1/products",
		Body:   req,
	})
}

func (c *Client) UpdateProduct(ctx context.Context, id uuid.UUID, req domain.UpdateProductRequest) Result[domain.Product] {
	return Send[domain.Product](ctx, c, Request{
		Op:     "update_product",
		Method: http.MethodPut,
		Path:   "/api/v1/products/" + id.String(),
		Body:   req,
	})
}

func (c *Client) DeleteProduct(ctx context.Context, id uuid.UUID) Result[struct{}] {
	return Send[struct{}](ctx, c, Request{
		Op:     "delete_product",
		Method: http.MethodDelete,
		Path:   "/api/v1/products/" + id.String(),
	})
}

func (c *Client) Health(ctx context.Context) Result[domain.HealthCheck] {
	return Send[domain.HealthCheck](ctx, c, Request{
		Op:     "health",
		Method: http.MethodGet,
		Path:   "/health",
	})
}

package services

import (
	"context"
	"strings"

	"vitrine/internal/models"
	"vitrine/internal/repositories"
)

// CreateProductInput is the typed request body for creating a product.
// Omitted price and category get catalog defaults; an unknown category
// is rejected, not coerced.
type CreateProductInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
	Image       string `json:"image" validate:"omitempty,url"`
	Price       string `json:"price" validate:"max=100"`
	Category    string `json:"category" validate:"omitempty,oneof=gamer smartphone games accessories"`
}

// UpdateProductInput is the typed request body for a partial update.
// Nil means "leave the field untouched"; a present empty string is a
// real value.
type UpdateProductInput struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Image       *string `json:"image" validate:"omitempty,url"`
	Price       *string `json:"price" validate:"omitempty,max=100"`
	Category    *string `json:"category" validate:"omitempty,oneof=gamer smartphone games accessories"`
}

// ProductService is the catalog façade: it checks the caller's role
// before any repository access and applies catalog defaults.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// requireAdmin fails fast before any store access: no caller means
// unauthenticated, a non-admin caller means forbidden.
func requireAdmin(caller *models.AuthUser) error {
	if caller == nil {
		return ErrUnauthorized
	}
	if !caller.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// List returns one page of the public catalog.
func (s *ProductService) List(ctx context.Context, filter repositories.ListFilter) (*repositories.Page, error) {
	return s.repo.List(ctx, filter)
}

// GetByID returns a single live product.
func (s *ProductService) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Create creates a product on behalf of an admin caller, applying the
// catalog defaults for omitted fields.
func (s *ProductService) Create(ctx context.Context, caller *models.AuthUser, input CreateProductInput) (*models.Product, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, newValidationError("name", "name is required")
	}

	category := input.Category
	if category == "" {
		category = models.CategoryGamer
	}
	if !models.ValidCategory(category) {
		return nil, newValidationError("category", "unknown category")
	}

	price := input.Price
	if price == "" {
		price = models.DefaultPrice
	}

	product := &models.Product{
		Name:        name,
		Description: input.Description,
		Image:       input.Image,
		Price:       price,
		Category:    category,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update applies a partial update on behalf of an admin caller. Only
// fields present in the input reach the store.
func (s *ProductService) Update(ctx context.Context, caller *models.AuthUser, id string, input UpdateProductInput) (*models.Product, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, newValidationError("name", "name cannot be blank")
		}
		fields["name"] = name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Image != nil {
		fields["image"] = *input.Image
	}
	if input.Price != nil {
		fields["price"] = *input.Price
	}
	if input.Category != nil {
		if !models.ValidCategory(*input.Category) {
			return nil, newValidationError("category", "unknown category")
		}
		fields["category"] = *input.Category
	}

	return s.repo.Update(ctx, id, fields)
}

// Remove soft-deletes a product on behalf of an admin caller. Removing
// an id that is already deleted reports not found.
func (s *ProductService) Remove(ctx context.Context, caller *models.AuthUser, id string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

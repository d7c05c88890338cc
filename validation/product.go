// Package validation holds the pure field checks applied before any product
// write reaches MongoDB or Shopify. Every function returns an ordered list of
// human-readable violation messages; an empty list means valid. Callers must
// short-circuit the write on any returned violation.
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dookan/catalog-backend/models"
)

// Business rules for product fields
const (
	TitleMinLength       = 3
	TitleMaxLength       = 100
	DescriptionMaxLength = 2000
	SKUMinLength         = 3
	SKUMaxLength         = 50
	PriceDecimalPlaces   = 2
)

var (
	PriceMin = decimal.Zero
	PriceMax = decimal.NewFromInt(1_000_000)

	titlePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.,]+$`)
	skuPattern   = regexp.MustCompile(`^[A-Z0-9\-_]+$`)

	allowedStatuses   = []string{"active", "draft", "archived"}
	allowedSortFields = []string{"title", "price", "created_at", "updated_at", "sku"}
	allowedSortOrders = []string{"asc", "desc"}
)

// Validator validates product input against the business rules.
// AllowedImageHosts is the image URL host allow-list.
type Validator struct {
	AllowedImageHosts []string
}

// New creates a Validator with the given image host allow-list
func New(allowedImageHosts []string) *Validator {
	return &Validator{AllowedImageHosts: allowedImageHosts}
}

// Title checks the title field
func (v *Validator) Title(title string) []string {
	var errs []string
	title = strings.TrimSpace(title)
	if title == "" {
		return append(errs, "Title cannot be empty")
	}
	if len(title) < TitleMinLength {
		errs = append(errs, fmt.Sprintf("Title must be at least %d characters long", TitleMinLength))
	}
	if len(title) > TitleMaxLength {
		errs = append(errs, fmt.Sprintf("Title cannot exceed %d characters", TitleMaxLength))
	}
	if !titlePattern.MatchString(title) {
		errs = append(errs, "Title can only contain letters, numbers, spaces, and basic punctuation")
	}
	return errs
}

// Description checks the description field
func (v *Validator) Description(description string) []string {
	var errs []string
	if len(description) > DescriptionMaxLength {
		errs = append(errs, fmt.Sprintf("Description cannot exceed %d characters", DescriptionMaxLength))
	}
	return errs
}

// Price checks the price field: bounds and at most two decimal places
func (v *Validator) Price(price decimal.Decimal) []string {
	var errs []string
	if price.LessThan(PriceMin) {
		errs = append(errs, fmt.Sprintf("Price cannot be less than %s", PriceMin))
	}
	if price.GreaterThan(PriceMax) {
		errs = append(errs, fmt.Sprintf("Price cannot exceed %s", PriceMax))
	}
	if price.Exponent() < -PriceDecimalPlaces {
		errs = append(errs, fmt.Sprintf("Price cannot have more than %d decimal places", PriceDecimalPlaces))
	}
	return errs
}

// SKU checks the sku field
func (v *Validator) SKU(sku string) []string {
	var errs []string
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return append(errs, "SKU cannot be empty")
	}
	if len(sku) < SKUMinLength {
		errs = append(errs, fmt.Sprintf("SKU must be at least %d characters long", SKUMinLength))
	}
	if len(sku) > SKUMaxLength {
		errs = append(errs, fmt.Sprintf("SKU cannot exceed %d characters", SKUMaxLength))
	}
	if !skuPattern.MatchString(sku) {
		errs = append(errs, "SKU can only contain uppercase letters, numbers, hyphens, and underscores")
	}
	return errs
}

// ImageURL checks that the reference is a well-formed URL with an allow-listed host
func (v *Validator) ImageURL(raw string) []string {
	var errs []string
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return append(errs, "Image URL cannot be empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return append(errs, "Invalid URL format")
	}
	for _, host := range v.AllowedImageHosts {
		if parsed.Host == host {
			return errs
		}
	}
	return append(errs, fmt.Sprintf("Image URL must be from one of: %s", strings.Join(v.AllowedImageHosts, ", ")))
}

// Status checks the status field (update only)
func (v *Validator) Status(status string) []string {
	for _, s := range allowedStatuses {
		if status == s {
			return nil
		}
	}
	return []string{fmt.Sprintf("Status must be one of: %s", strings.Join(allowedStatuses, ", "))}
}

// ProductID checks that the id is a valid MongoDB ObjectID
func (v *Validator) ProductID(id string) []string {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return []string{"Invalid product ID format"}
	}
	return nil
}

// CreateInput is the validated shape of a product create request
type CreateInput struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	SKU         *string          `json:"sku"`
	ImageURL    *string          `json:"image_url"`
}

// ValidateCreate checks a create payload. All four mandatory fields must be
// present; each present field is validated.
func (v *Validator) ValidateCreate(in CreateInput) []string {
	var errs []string
	if in.Title == nil {
		errs = append(errs, "Missing required field: title")
	}
	if in.Description == nil {
		errs = append(errs, "Missing required field: description")
	}
	if in.Price == nil {
		errs = append(errs, "Missing required field: price")
	}
	if in.SKU == nil {
		errs = append(errs, "Missing required field: sku")
	}
	if in.Title != nil {
		errs = append(errs, v.Title(*in.Title)...)
	}
	if in.Description != nil {
		errs = append(errs, v.Description(*in.Description)...)
	}
	if in.Price != nil {
		errs = append(errs, v.Price(*in.Price)...)
	}
	if in.SKU != nil {
		errs = append(errs, v.SKU(*in.SKU)...)
	}
	if in.ImageURL != nil {
		errs = append(errs, v.ImageURL(*in.ImageURL)...)
	}
	return errs
}

// ValidateUpdate checks an update payload; only supplied fields are validated
func (v *Validator) ValidateUpdate(in models.ProductUpdate) []string {
	var errs []string
	if in.Title != nil {
		errs = append(errs, v.Title(*in.Title)...)
	}
	if in.Description != nil {
		errs = append(errs, v.Description(*in.Description)...)
	}
	if in.Price != nil {
		errs = append(errs, v.Price(*in.Price)...)
	}
	if in.SKU != nil {
		errs = append(errs, v.SKU(*in.SKU)...)
	}
	if in.ImageURL != nil {
		errs = append(errs, v.ImageURL(*in.ImageURL)...)
	}
	if in.Status != nil {
		errs = append(errs, v.Status(*in.Status)...)
	}
	return errs
}

// ListParams are the raw pagination and sorting parameters of a listing request
type ListParams struct {
	SortBy  string
	Order   string
	Page    int
	PerPage int
}

// ValidateListParams checks sorting and pagination parameters
func (v *Validator) ValidateListParams(p ListParams) []string {
	var errs []string
	if p.SortBy != "" && !contains(allowedSortFields, p.SortBy) {
		errs = append(errs, fmt.Sprintf("Sort field must be one of: %s", strings.Join(allowedSortFields, ", ")))
	}
	if p.Order != "" && !contains(allowedSortOrders, p.Order) {
		errs = append(errs, fmt.Sprintf("Sort order must be one of: %s", strings.Join(allowedSortOrders, ", ")))
	}
	if p.Page < 1 {
		errs = append(errs, "Page number must be positive")
	}
	if p.PerPage < 1 || p.PerPage > 100 {
		errs = append(errs, "Items per page must be between 1 and 100")
	}
	return errs
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

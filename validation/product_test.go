package validation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dookan/catalog-backend/models"
)

func newValidator() *Validator {
	return New([]string{"cdn.shopify.com", "images.example.com"})
}

func strp(s string) *string          { return &s }
func decp(s string) *decimal.Decimal { d := decimal.RequireFromString(s); return &d }

func TestTitle(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name    string
		title   string
		wantErr string
	}{
		{"valid", "Ceramic Mug", ""},
		{"valid with punctuation", "Mug - Blue, v2.0", ""},
		{"empty", "   ", "Title cannot be empty"},
		{"too short", "ab", "Title must be at least 3 characters long"},
		{"too long", strings.Repeat("a", 101), "Title cannot exceed 100 characters"},
		{"bad characters", "Mug <script>", "Title can only contain letters, numbers, spaces, and basic punctuation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.Title(tt.title)
			if tt.wantErr == "" {
				assert.Empty(t, errs)
			} else {
				assert.Contains(t, errs, tt.wantErr)
			}
		})
	}
}

func TestPrice(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name    string
		price   string
		wantErr string
	}{
		{"valid", "19.99", ""},
		{"zero", "0", ""},
		{"integer", "20", ""},
		{"max boundary", "1000000", ""},
		{"negative", "-0.01", "Price cannot be less than 0"},
		{"too large", "1000000.01", "Price cannot exceed 1000000"},
		{"three decimals", "19.999", "Price cannot have more than 2 decimal places"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.Price(decimal.RequireFromString(tt.price))
			if tt.wantErr == "" {
				assert.Empty(t, errs)
			} else {
				assert.Contains(t, errs, tt.wantErr)
			}
		})
	}
}

func TestPrice_SuppliedPrecisionCounts(t *testing.T) {
	v := newValidator()

	// The rule is about the precision as supplied: 19.990 names three
	// decimal places even though it equals a two-decimal amount.
	errs := v.Price(decimal.RequireFromString("19.990"))
	assert.NotEmpty(t, errs)

	errs = v.Price(decimal.RequireFromString("19.9"))
	assert.Empty(t, errs)
}

func TestSKU(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name    string
		sku     string
		wantErr string
	}{
		{"valid", "MUG-001", ""},
		{"valid underscore", "MUG_001", ""},
		{"empty", "", "SKU cannot be empty"},
		{"too short", "AB", "SKU must be at least 3 characters long"},
		{"too long", strings.Repeat("A", 51), "SKU cannot exceed 50 characters"},
		{"lowercase", "mug-001", "SKU can only contain uppercase letters, numbers, hyphens, and underscores"},
		{"spaces", "MUG 001", "SKU can only contain uppercase letters, numbers, hyphens, and underscores"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.SKU(tt.sku)
			if tt.wantErr == "" {
				assert.Empty(t, errs)
			} else {
				assert.Contains(t, errs, tt.wantErr)
			}
		})
	}
}

func TestImageURL(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"allowed host", "https://cdn.shopify.com/s/files/mug.png", false},
		{"second allowed host", "https://images.example.com/mug.png", false},
		{"other host", "https://evil.example.net/mug.png", true},
		{"no scheme", "cdn.shopify.com/mug.png", true},
		{"empty", "  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.ImageURL(tt.url)
			assert.Equal(t, tt.wantErr, len(errs) > 0)
		})
	}
}

func TestStatus(t *testing.T) {
	v := newValidator()

	assert.Empty(t, v.Status("active"))
	assert.Empty(t, v.Status("draft"))
	assert.Empty(t, v.Status("archived"))
	assert.Contains(t, v.Status("published"), "Status must be one of: active, draft, archived")
}

func TestProductID(t *testing.T) {
	v := newValidator()

	assert.Empty(t, v.ProductID(primitive.NewObjectID().Hex()))
	assert.NotEmpty(t, v.ProductID("not-a-hex-id"))
	assert.NotEmpty(t, v.ProductID(""))
}

func TestValidateCreate_MissingFieldsComeFirst(t *testing.T) {
	v := newValidator()

	errs := v.ValidateCreate(CreateInput{
		Title: strp("ab"),
		Price: decp("19.999"),
	})

	require.Len(t, errs, 4)
	assert.Equal(t, "Missing required field: description", errs[0])
	assert.Equal(t, "Missing required field: sku", errs[1])
	assert.Equal(t, "Title must be at least 3 characters long", errs[2])
	assert.Equal(t, "Price cannot have more than 2 decimal places", errs[3])
}

func TestValidateCreate_Valid(t *testing.T) {
	v := newValidator()

	errs := v.ValidateCreate(CreateInput{
		Title:       strp("Ceramic Mug"),
		Description: strp("A mug"),
		Price:       decp("19.99"),
		SKU:         strp("MUG-001"),
		ImageURL:    strp("https://cdn.shopify.com/mug.png"),
	})

	assert.Empty(t, errs)
}

func TestValidateUpdate_OnlySuppliedFieldsChecked(t *testing.T) {
	v := newValidator()

	assert.Empty(t, v.ValidateUpdate(models.ProductUpdate{}))
	assert.Empty(t, v.ValidateUpdate(models.ProductUpdate{Title: strp("New Title")}))

	errs := v.ValidateUpdate(models.ProductUpdate{
		SKU:    strp("xx"),
		Status: strp("published"),
	})
	assert.Len(t, errs, 3)
}

func TestValidateListParams(t *testing.T) {
	v := newValidator()

	assert.Empty(t, v.ValidateListParams(ListParams{SortBy: "price", Order: "asc", Page: 1, PerPage: 20}))
	assert.Empty(t, v.ValidateListParams(ListParams{Page: 1, PerPage: 100}))

	errs := v.ValidateListParams(ListParams{SortBy: "shopify_id", Order: "up", Page: 0, PerPage: 101})
	assert.Len(t, errs, 4)
}

package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SyncStatus represents the mirroring state of a product
type SyncStatus string

const (
	SyncStatusDraft  SyncStatus = "draft"  // never mirrored
	SyncStatusSynced SyncStatus = "synced" // mirrored, shopify_id recorded
	SyncStatusFailed SyncStatus = "failed" // mirror write succeeded but the local id patch did not
)

// Price is an exact 2-place decimal amount. It is stored as Decimal128 in
// BSON; older documents holding doubles or strings are still readable.
type Price struct {
	decimal.Decimal
}

// NewPrice wraps a decimal amount
func NewPrice(d decimal.Decimal) Price {
	return Price{Decimal: d}
}

// MarshalBSONValue implements bson.ValueMarshaler
func (p Price) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d128, err := primitive.ParseDecimal128(p.Decimal.String())
	if err != nil {
		return 0, nil, fmt.Errorf("invalid price %q: %w", p.Decimal.String(), err)
	}
	return bson.MarshalValue(d128)
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler
func (p *Price) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Decimal128:
		var d128 primitive.Decimal128
		if err := rv.Unmarshal(&d128); err != nil {
			return err
		}
		d, err := decimal.NewFromString(d128.String())
		if err != nil {
			return fmt.Errorf("invalid stored price %q: %w", d128.String(), err)
		}
		p.Decimal = d
	case bsontype.Double:
		var f float64
		if err := rv.Unmarshal(&f); err != nil {
			return err
		}
		p.Decimal = decimal.NewFromFloat(f)
	case bsontype.String:
		var s string
		if err := rv.Unmarshal(&s); err != nil {
			return err
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("invalid stored price %q: %w", s, err)
		}
		p.Decimal = d
	default:
		return fmt.Errorf("cannot decode price from BSON type %s", t)
	}
	return nil
}

// Product represents a catalog product stored in MongoDB.
// The local document is the source of truth; ShopifyID links the remote
// mirror and stays empty until the first successful mirror write.
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Price       Price              `json:"price" bson:"price"`
	// PriceText is a derived copy of the price kept for substring search;
	// the repository maintains it alongside every price write.
	PriceText    string     `json:"-" bson:"price_text"`
	Currency     string     `json:"currency" bson:"currency"`
	SKU          string     `json:"sku" bson:"sku"`
	ImageURL     string     `json:"image_url,omitempty" bson:"image_url,omitempty"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty" bson:"thumbnail_url,omitempty"`
	ShopifyID    string     `json:"shopify_id,omitempty" bson:"shopify_id,omitempty"`
	Status       string     `json:"status" bson:"status"`
	SyncStatus   SyncStatus `json:"sync_status" bson:"sync_status"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" bson:"updated_at"`
	LastSync     *time.Time `json:"last_sync,omitempty" bson:"last_sync,omitempty"`
	IsDeleted    bool       `json:"-" bson:"is_deleted"`
}

// CollectionName returns the MongoDB collection name for the Product model
func (Product) CollectionName() string {
	return "products"
}

// NewProduct creates a new unmirrored Product
func NewProduct(title, description string, price decimal.Decimal, sku string) *Product {
	now := time.Now().UTC()
	return &Product{
		Title:       title,
		Description: description,
		Price:       NewPrice(price),
		PriceText:   price.String(),
		Currency:    "USD",
		SKU:         sku,
		Status:      "draft",
		SyncStatus:  SyncStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// WithImage sets the image reference (the thumbnail defaults to the main image)
func (p *Product) WithImage(url string) *Product {
	p.ImageURL = url
	p.ThumbnailURL = url
	return p
}

// IsMirrored returns true once the product has a recorded Shopify id
func (p *Product) IsMirrored() bool {
	return p.ShopifyID != ""
}

// ProductUpdate holds a partial update; nil fields are left untouched.
type ProductUpdate struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	SKU         *string          `json:"sku,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty"`
	Status      *string          `json:"status,omitempty"`
}

// IsEmpty returns true when no field is supplied
func (u ProductUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Price == nil &&
		u.SKU == nil && u.ImageURL == nil && u.Status == nil
}

// ProductPage is one page of a product listing
type ProductPage struct {
	Products   []*Product `json:"products"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PerPage    int        `json:"per_page"`
	TotalPages int64      `json:"total_pages"`
}

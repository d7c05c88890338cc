package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNewProduct(t *testing.T) {
	price := decimal.RequireFromString("19.99")

	p := NewProduct("Blue Mug", "A ceramic mug", price, "MUG-001")

	assert.Equal(t, "Blue Mug", p.Title)
	assert.Equal(t, "19.99", p.PriceText)
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, "draft", p.Status)
	assert.Equal(t, SyncStatusDraft, p.SyncStatus)
	assert.Empty(t, p.ShopifyID)
	assert.False(t, p.IsMirrored())
	assert.False(t, p.IsDeleted)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	assert.Nil(t, p.LastSync)
}

func TestProduct_WithImage(t *testing.T) {
	p := NewProduct("Blue Mug", "A ceramic mug", decimal.RequireFromString("19.99"), "MUG-001").
		WithImage("https://cdn.shopify.com/mug.png")

	assert.Equal(t, "https://cdn.shopify.com/mug.png", p.ImageURL)
	assert.Equal(t, "https://cdn.shopify.com/mug.png", p.ThumbnailURL)
}

func TestProduct_IsMirrored(t *testing.T) {
	p := NewProduct("Blue Mug", "A ceramic mug", decimal.RequireFromString("19.99"), "MUG-001")
	assert.False(t, p.IsMirrored())

	p.ShopifyID = "gid://shopify/Product/42"
	assert.True(t, p.IsMirrored())
}

func TestPrice_BSONRoundTrip(t *testing.T) {
	type doc struct {
		Price Price `bson:"price"`
	}

	original := doc{Price: NewPrice(decimal.RequireFromString("19.99"))}

	data, err := bson.Marshal(original)
	require.NoError(t, err)

	var decoded doc
	require.NoError(t, bson.Unmarshal(data, &decoded))
	assert.True(t, decoded.Price.Equal(original.Price.Decimal),
		"expected %s, got %s", original.Price, decoded.Price)
}

func TestPrice_DecodesLegacyDouble(t *testing.T) {
	data, err := bson.Marshal(bson.M{"price": 19.99})
	require.NoError(t, err)

	var decoded struct {
		Price Price `bson:"price"`
	}
	require.NoError(t, bson.Unmarshal(data, &decoded))
	assert.Equal(t, "19.99", decoded.Price.String())
}

func TestPrice_DecodesLegacyString(t *testing.T) {
	data, err := bson.Marshal(bson.M{"price": "19.99"})
	require.NoError(t, err)

	var decoded struct {
		Price Price `bson:"price"`
	}
	require.NoError(t, bson.Unmarshal(data, &decoded))
	assert.Equal(t, "19.99", decoded.Price.String())
}

func TestPrice_RejectsUnknownBSONType(t *testing.T) {
	data, err := bson.Marshal(bson.M{"price": true})
	require.NoError(t, err)

	var decoded struct {
		Price Price `bson:"price"`
	}
	err = bson.Unmarshal(data, &decoded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot decode price")
}

func TestProductUpdate_IsEmpty(t *testing.T) {
	assert.True(t, ProductUpdate{}.IsEmpty())

	title := "Red Mug"
	assert.False(t, ProductUpdate{Title: &title}.IsEmpty())

	status := "active"
	assert.False(t, ProductUpdate{Status: &status}.IsEmpty())
}

func TestNewUser(t *testing.T) {
	u, err := NewUser("alice@example.com", "correct horse", "Alice")

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "Alice", u.Name)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "correct horse", u.PasswordHash)
	assert.WithinDuration(t, time.Now().UTC(), u.CreatedAt, time.Minute)
}

func TestUser_CheckPassword(t *testing.T) {
	u, err := NewUser("alice@example.com", "correct horse", "Alice")
	require.NoError(t, err)

	assert.True(t, u.CheckPassword("correct horse"))
	assert.False(t, u.CheckPassword("wrong horse"))
}

func TestUser_SetPasswordReplacesHash(t *testing.T) {
	u, err := NewUser("alice@example.com", "old password", "Alice")
	require.NoError(t, err)

	require.NoError(t, u.SetPassword("new password"))
	assert.False(t, u.CheckPassword("old password"))
	assert.True(t, u.CheckPassword("new password"))
}

func TestNewAuditEvent(t *testing.T) {
	e := NewAuditEvent("u-1", "Alice", "p-1", "Blue Mug", EventKindCreate)

	assert.NotEqual(t, [16]byte{}, [16]byte(e.ID))
	assert.Equal(t, "u-1", e.ActorID)
	assert.Equal(t, "Blue Mug", e.ProductTitle)
	assert.Equal(t, EventKindCreate, e.Kind)
	assert.WithinDuration(t, time.Now().UTC(), e.Timestamp, time.Minute)
}

func TestValidEventKind(t *testing.T) {
	assert.True(t, ValidEventKind("create"))
	assert.True(t, ValidEventKind("update"))
	assert.True(t, ValidEventKind("delete"))
	assert.False(t, ValidEventKind("rename"))
	assert.False(t, ValidEventKind(""))
}

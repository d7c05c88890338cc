package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductFields is the subset of product fields mirrored to Shopify.
// Nil fields are omitted from the mutation.
type ProductFields struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	SKU         *string
	ImageURL    *string
}

// OrderTotal is one order's creation date and total amount
type OrderTotal struct {
	CreatedAt string
	Amount    decimal.Decimal
}

// Gateway drives product mutations against the commerce platform.
// Image attachment is a best-effort secondary step: its failure is logged
// and swallowed, never surfaced as an operation failure.
type Gateway struct {
	client *Client
	logger *zap.Logger
}

// NewGateway creates a new commerce gateway
func NewGateway(client *Client, logger *zap.Logger) *Gateway {
	return &Gateway{
		client: client,
		logger: logger,
	}
}

// CreateProduct creates the remote mirror and returns its external id
func (g *Gateway) CreateProduct(ctx context.Context, fields ProductFields) (string, error) {
	input := buildProductInput(fields)

	resp, err := g.client.Execute(ctx, ProductCreateMutation, map[string]interface{}{"input": input})
	if err != nil {
		return "", fmt.Errorf("product create failed: %w", err)
	}

	var payload productCreateResponse
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return "", fmt.Errorf("failed to decode product create response: %w", err)
	}
	if len(payload.ProductCreate.UserErrors) > 0 {
		return "", fmt.Errorf("product create rejected: %s", joinUserErrors(payload.ProductCreate.UserErrors))
	}
	if payload.ProductCreate.Product == nil || payload.ProductCreate.Product.ID == "" {
		return "", fmt.Errorf("product create returned no id")
	}

	externalID := payload.ProductCreate.Product.ID

	// Image attachment is best-effort and never fails the create
	if fields.ImageURL != nil && strings.TrimSpace(*fields.ImageURL) != "" {
		g.attachImage(ctx, externalID, *fields.ImageURL)
	}

	return externalID, nil
}

// UpdateProduct applies the supplied fields to the remote mirror
func (g *Gateway) UpdateProduct(ctx context.Context, externalID string, fields ProductFields) error {
	input := buildProductInput(fields)
	input.ID = &externalID

	resp, err := g.client.Execute(ctx, ProductUpdateMutation, map[string]interface{}{"input": input})
	if err != nil {
		return fmt.Errorf("product update failed: %w", err)
	}

	var payload productUpdateResponse
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return fmt.Errorf("failed to decode product update response: %w", err)
	}
	if len(payload.ProductUpdate.UserErrors) > 0 {
		return fmt.Errorf("product update rejected: %s", joinUserErrors(payload.ProductUpdate.UserErrors))
	}
	if payload.ProductUpdate.Product == nil {
		return fmt.Errorf("product update returned no product")
	}

	// A supplied image replaces any existing images; both steps are
	// best-effort and never fail the update.
	if fields.ImageURL != nil {
		g.deleteImages(ctx, externalID)
		if strings.TrimSpace(*fields.ImageURL) != "" {
			g.attachImage(ctx, externalID, *fields.ImageURL)
		}
	}

	return nil
}

// DeleteProduct removes the remote mirror
func (g *Gateway) DeleteProduct(ctx context.Context, externalID string) error {
	variables := map[string]interface{}{
		"input": map[string]interface{}{"id": externalID},
	}

	resp, err := g.client.Execute(ctx, ProductDeleteMutation, variables)
	if err != nil {
		return fmt.Errorf("product delete failed: %w", err)
	}

	var payload productDeleteResponse
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return fmt.Errorf("failed to decode product delete response: %w", err)
	}
	if len(payload.ProductDelete.UserErrors) > 0 {
		return fmt.Errorf("product delete rejected: %s", joinUserErrors(payload.ProductDelete.UserErrors))
	}
	if payload.ProductDelete.DeletedProductID == nil {
		return fmt.Errorf("product delete returned no id")
	}

	return nil
}

// Orders fetches recent order totals for the sales-trend analytics
func (g *Gateway) Orders(ctx context.Context, first int) ([]OrderTotal, error) {
	resp, err := g.client.Execute(ctx, OrdersQuery, map[string]interface{}{"first": first})
	if err != nil {
		return nil, fmt.Errorf("orders query failed: %w", err)
	}

	var payload ordersResponse
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode orders response: %w", err)
	}

	totals := make([]OrderTotal, 0, len(payload.Orders.Edges))
	for _, edge := range payload.Orders.Edges {
		amount, err := decimal.NewFromString(edge.Node.TotalPriceSet.ShopMoney.Amount)
		if err != nil {
			g.logger.Warn("skipping order with unparseable total",
				zap.String("amount", edge.Node.TotalPriceSet.ShopMoney.Amount))
			continue
		}
		totals = append(totals, OrderTotal{
			CreatedAt: edge.Node.CreatedAt,
			Amount:    amount,
		})
	}
	return totals, nil
}

// attachImage adds an image via productCreateMedia. Failures are logged only.
func (g *Gateway) attachImage(ctx context.Context, externalID, imageURL string) {
	variables := map[string]interface{}{
		"productId": externalID,
		"media": []MediaInput{{
			MediaContentType: "IMAGE",
			OriginalSource:   imageURL,
		}},
	}

	resp, err := g.client.Execute(ctx, ProductCreateMediaMutation, variables)
	if err != nil {
		g.logger.Warn("failed to attach product image",
			zap.String("shopify_id", externalID),
			zap.Error(err))
		return
	}

	var payload productCreateMediaResponse
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		g.logger.Warn("failed to decode media response",
			zap.String("shopify_id", externalID),
			zap.Error(err))
		return
	}
	if len(payload.ProductCreateMedia.MediaUserErrors) > 0 {
		g.logger.Warn("product image rejected",
			zap.String("shopify_id", externalID),
			zap.String("errors", joinUserErrors(payload.ProductCreateMedia.MediaUserErrors)))
	}
}

// deleteImages removes existing images before a replacement is attached.
// Failures are logged only.
func (g *Gateway) deleteImages(ctx context.Context, externalID string) {
	variables := map[string]interface{}{"productId": externalID}

	resp, err := g.client.Execute(ctx, ProductDeleteImagesMutation, variables)
	if err != nil {
		g.logger.Warn("failed to delete product images",
			zap.String("shopify_id", externalID),
			zap.Error(err))
		return
	}

	var payload productDeleteImagesResponse
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		g.logger.Warn("failed to decode delete images response",
			zap.String("shopify_id", externalID),
			zap.Error(err))
		return
	}
	if len(payload.ProductDeleteImages.UserErrors) > 0 {
		g.logger.Warn("product image deletion rejected",
			zap.String("shopify_id", externalID),
			zap.String("errors", joinUserErrors(payload.ProductDeleteImages.UserErrors)))
	}
}

// buildProductInput maps supplied fields to a mutation input
func buildProductInput(fields ProductFields) ProductInput {
	input := ProductInput{
		Title:           fields.Title,
		DescriptionHTML: fields.Description,
	}
	if fields.Price != nil || fields.SKU != nil {
		variant := VariantInput{SKU: fields.SKU}
		if fields.Price != nil {
			price := fields.Price.StringFixed(2)
			variant.Price = &price
		}
		input.Variants = []VariantInput{variant}
	}
	return input
}

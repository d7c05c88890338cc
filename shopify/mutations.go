package shopify

// ProductCreateMutation creates a product with a single variant
const ProductCreateMutation = `
mutation productCreate($input: ProductInput!) {
  productCreate(input: $input) {
    product {
      id
      title
    }
    userErrors {
      field
      message
    }
  }
}
`

// ProductUpdateMutation updates product fields and/or its variant
const ProductUpdateMutation = `
mutation productUpdate($input: ProductInput!) {
  productUpdate(input: $input) {
    product {
      id
      title
    }
    userErrors {
      field
      message
    }
  }
}
`

// ProductDeleteMutation deletes a product
const ProductDeleteMutation = `
mutation productDelete($input: ProductDeleteInput!) {
  productDelete(input: $input) {
    deletedProductId
    userErrors {
      field
      message
    }
  }
}
`

// ProductCreateMediaMutation attaches an image to a product
const ProductCreateMediaMutation = `
mutation productCreateMedia($productId: ID!, $media: [CreateMediaInput!]!) {
  productCreateMedia(productId: $productId, media: $media) {
    media {
      ... on MediaImage {
        image {
          url
        }
      }
    }
    mediaUserErrors {
      field
      message
    }
  }
}
`

// ProductDeleteImagesMutation removes all images from a product
const ProductDeleteImagesMutation = `
mutation productDeleteImages($productId: ID!) {
  productDeleteImages(productId: $productId) {
    deletedImageIds
    userErrors {
      field
      message
    }
  }
}
`

// OrdersQuery fetches recent orders with their totals for analytics
const OrdersQuery = `
query getOrders($first: Int!) {
  orders(first: $first) {
    edges {
      node {
        createdAt
        totalPriceSet {
          shopMoney {
            amount
          }
        }
      }
    }
  }
}
`

// VariantInput is the variant part of a product mutation input
type VariantInput struct {
	Price *string `json:"price,omitempty"`
	SKU   *string `json:"sku,omitempty"`
}

// ProductInput is the input for productCreate/productUpdate
type ProductInput struct {
	ID              *string        `json:"id,omitempty"`
	Title           *string        `json:"title,omitempty"`
	DescriptionHTML *string        `json:"descriptionHtml,omitempty"`
	Variants        []VariantInput `json:"variants,omitempty"`
}

// MediaInput is the input for productCreateMedia
type MediaInput struct {
	MediaContentType string `json:"mediaContentType"`
	OriginalSource   string `json:"originalSource"`
}

// productCreateResponse decodes the productCreate payload
type productCreateResponse struct {
	ProductCreate struct {
		Product *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"product"`
		UserErrors []UserError `json:"userErrors"`
	} `json:"productCreate"`
}

// productUpdateResponse decodes the productUpdate payload
type productUpdateResponse struct {
	ProductUpdate struct {
		Product *struct {
			ID string `json:"id"`
		} `json:"product"`
		UserErrors []UserError `json:"userErrors"`
	} `json:"productUpdate"`
}

// productDeleteResponse decodes the productDelete payload
type productDeleteResponse struct {
	ProductDelete struct {
		DeletedProductID *string     `json:"deletedProductId"`
		UserErrors       []UserError `json:"userErrors"`
	} `json:"productDelete"`
}

// productCreateMediaResponse decodes the productCreateMedia payload
type productCreateMediaResponse struct {
	ProductCreateMedia struct {
		MediaUserErrors []UserError `json:"mediaUserErrors"`
	} `json:"productCreateMedia"`
}

// productDeleteImagesResponse decodes the productDeleteImages payload
type productDeleteImagesResponse struct {
	ProductDeleteImages struct {
		UserErrors []UserError `json:"userErrors"`
	} `json:"productDeleteImages"`
}

// ordersResponse decodes the orders query payload
type ordersResponse struct {
	Orders struct {
		Edges []struct {
			Node struct {
				CreatedAt     string `json:"createdAt"`
				TotalPriceSet struct {
					ShopMoney struct {
						Amount string `json:"amount"`
					} `json:"shopMoney"`
				} `json:"totalPriceSet"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"orders"`
}

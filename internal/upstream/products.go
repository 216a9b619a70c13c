package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/domain"
)

func (c *Client) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	path := "/products/"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// MenuItemRequest is the admin create/update payload for a menu item.
type MenuItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	UnitPrice   int64  `json:"unit_price"`
	ImageURL    string `json:"image_url,omitempty"`
	Available   bool   `json:"available"`
}

func (c *Client) CreateMenuItem(ctx context.Context, req MenuItemRequest) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPost, "/products/", req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) UpdateMenuItem(ctx context.Context, id string, req MenuItemRequest) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(id), req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) DeleteMenuItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
}

// VariantRequest is the admin payload for a product option.
type VariantRequest struct {
	Name            string `json:"name"`
	AdditionalPrice int64  `json:"additional_price"`
}

func (c *Client) CreateVariant(ctx context.Context, productID string, req VariantRequest) (*domain.ProductOption, error) {
	var option domain.ProductOption
	path := fmt.Sprintf("/products/%s/variants", url.PathEscape(productID))
	if err := c.do(ctx, http.MethodPost, path, req, &option); err != nil {
		return nil, err
	}
	return &option, nil
}

func (c *Client) UpdateVariant(ctx context.Context, productID, variantID string, req VariantRequest) (*domain.ProductOption, error) {
	var option domain.ProductOption
	path := fmt.Sprintf("/products/%s/variants/%s", url.PathEscape(productID), url.PathEscape(variantID))
	if err := c.do(ctx, http.MethodPut, path, req, &option); err != nil {
		return nil, err
	}
	return &option, nil
}

func (c *Client) DeleteVariant(ctx context.Context, productID, variantID string) error {
	path := fmt.Sprintf("/products/%s/variants/%s", url.PathEscape(productID), url.PathEscape(variantID))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

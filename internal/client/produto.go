package client

import (
	"context"
	"strconv"

	"github.com/timmy/siscrap/internal/domain"
)

// ListProducts fetches one catalog page plus the batch-wide product summary.
func (c *Client) ListProducts(ctx context.Context, batchID int64, page int, f domain.ProductFilter) (*domain.ProductListing, error) {
	req, cancel := c.request(ctx, 0)
	defer cancel()

	params := map[string]string{
		"arquivoId": strconv.FormatInt(batchID, 10),
		"page":      strconv.Itoa(page),
		"size":      strconv.Itoa(c.pageSize),
	}
	setIf(params, "search", f.Search)
	setIf(params, "pallet", f.Pallet)
	setIf(params, "condicao", f.Condition)

	var result domain.ProductListing
	resp, err := req.SetQueryParams(params).SetResult(&result).Get("/produto")
	if err := c.check(ctx, "list products", resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdatePrices sends a bulk sale-price edit.
func (c *Client) UpdatePrices(ctx context.Context, updates []domain.PriceUpdate) error {
	req, cancel := c.request(ctx, c.timeout)
	defer cancel()

	resp, err := req.SetBody(updates).Put("/produto/editar")
	return c.check(ctx, "update prices", resp, err)
}

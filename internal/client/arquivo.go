package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/timmy/siscrap/internal/domain"
)

// ListBatches lists the logged-in user's uploaded batches.
func (c *Client) ListBatches(ctx context.Context) ([]domain.Batch, error) {
	uid, err := c.userID()
	if err != nil {
		return nil, err
	}
	req, cancel := c.request(ctx, c.timeout)
	defer cancel()

	var result []domain.Batch
	resp, err := req.
		SetQueryParam("usuarioId", strconv.FormatInt(uid, 10)).
		SetResult(&result).
		Get("/arquivo/listar")
	if err := c.check(ctx, "list batches", resp, err); err != nil {
		return nil, err
	}
	return result, nil
}

// UploadBatch sends a spreadsheet with its column mapping. No timeout: parsing is
// done server-side before the response.
func (c *Client) UploadBatch(ctx context.Context, fileName string, file io.Reader, cfg domain.UploadConfig) (json.RawMessage, error) {
	uid, err := c.userID()
	if err != nil {
		return nil, err
	}
	req, cancel := c.request(ctx, 0)
	defer cancel()

	form := map[string]string{
		"usuarioId":       strconv.FormatInt(uid, 10),
		"colNome":         cfg.ProductColumn,
		"colPreco":        cfg.PriceColumn,
		"colFim":          cfg.EndColumn,
		"colCondicao":     cfg.ConditionColumn,
		"colCodPallet":    cfg.PalletColumn,
		"linhaInicio":     strconv.Itoa(cfg.StartRow),
		"percentualCusto": strconv.FormatFloat(cfg.CostPercent, 'f', -1, 64),
		"percentualLucro": strconv.FormatFloat(cfg.ProfitPercent, 'f', -1, 64),
	}
	if v := strings.TrimSpace(cfg.CategoryColumn); v != "" {
		form["colCategoria"] = v
	}
	if v := strings.TrimSpace(cfg.QuantityColumn); v != "" {
		form["colQtd"] = v
	}

	resp, err := req.
		SetFileReader("file", fileName, file).
		SetFormData(form).
		Post("/arquivo/upload")
	if err := c.check(ctx, "upload batch", resp, err); err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Body()), nil
}

// ListPallets returns every pallet code present in a batch.
func (c *Client) ListPallets(ctx context.Context, batchID int64) ([]string, error) {
	req, cancel := c.request(ctx, 0)
	defer cancel()

	var result []string
	resp, err := req.
		SetQueryParam("idArquivo", strconv.FormatInt(batchID, 10)).
		SetResult(&result).
		Get("/arquivo/listar-pallets")
	if err := c.check(ctx, "list pallets", resp, err); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteBatch removes a batch; its tasks and products cascade on the backend.
func (c *Client) DeleteBatch(ctx context.Context, batchID int64) error {
	req, cancel := c.request(ctx, c.timeout)
	defer cancel()

	resp, err := req.
		SetQueryParam("idArquivo", strconv.FormatInt(batchID, 10)).
		Delete("/arquivo")
	return c.check(ctx, "delete batch", resp, err)
}

// DownloadAll streams the standard spreadsheet for the whole batch.
func (c *Client) DownloadAll(ctx context.Context, batchID int64) (*domain.Download, error) {
	uid, err := c.userID()
	if err != nil {
		return nil, err
	}
	req, _ := c.request(ctx, 0)
	req.SetQueryParams(map[string]string{
		"idArquivo": strconv.FormatInt(batchID, 10),
		"idUsuario": strconv.FormatInt(uid, 10),
	})
	return c.download(ctx, "download batch", http.MethodGet, "/arquivo/download", req)
}

// DownloadPallets streams the standard spreadsheet restricted to pallets.
func (c *Client) DownloadPallets(ctx context.Context, batchID int64, pallets []string) (*domain.Download, error) {
	uid, err := c.userID()
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("idArquivo", strconv.FormatInt(batchID, 10))
	params.Set("idUsuario", strconv.FormatInt(uid, 10))
	for _, p := range pallets {
		params.Add("pallets", p)
	}

	req, _ := c.request(ctx, 0)
	req.SetQueryParamsFromValues(params)
	return c.download(ctx, "download pallets", http.MethodGet, "/arquivo/download-pallet", req)
}

type sismasterRequest struct {
	UserID  int64    `json:"idUsuario"`
	BatchID int64    `json:"idArquivo"`
	Pallets []string `json:"pallets"`
}

// DownloadSismaster streams the alternate fixed-layout spreadsheet. The pallet
// list is always sent; an empty list means every pallet.
func (c *Client) DownloadSismaster(ctx context.Context, batchID int64, pallets []string) (*domain.Download, error) {
	uid, err := c.userID()
	if err != nil {
		return nil, err
	}
	if pallets == nil {
		pallets = []string{}
	}

	req, _ := c.request(ctx, 0)
	req.SetBody(sismasterRequest{UserID: uid, BatchID: batchID, Pallets: pallets})
	return c.download(ctx, "download sismaster", http.MethodPost, "/arquivo/download/padrao-sismaster", req)
}

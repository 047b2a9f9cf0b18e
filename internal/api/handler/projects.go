package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timmy/siscrap/internal/domain"
	"github.com/timmy/siscrap/internal/export"
	"github.com/timmy/siscrap/internal/logger"
	"github.com/timmy/siscrap/internal/review"
)

// BatchAPI is the backend's batch endpoints.
type BatchAPI interface {
	ListBatches(ctx context.Context) ([]domain.Batch, error)
	UploadBatch(ctx context.Context, fileName string, file io.Reader, cfg domain.UploadConfig) (json.RawMessage, error)
	ListPallets(ctx context.Context, batchID int64) ([]string, error)
	DeleteBatch(ctx context.Context, batchID int64) error
}

// ProjectsHandler serves the batch list, uploads and exports.
type ProjectsHandler struct {
	api      BatchAPI
	exporter *export.Exporter
	reviews  *review.Registry
}

// NewProjectsHandler creates a new projects handler.
func NewProjectsHandler(api BatchAPI, exporter *export.Exporter, reviews *review.Registry) *ProjectsHandler {
	return &ProjectsHandler{api: api, exporter: exporter, reviews: reviews}
}

// List handles GET /projetos.
func (h *ProjectsHandler) List(c *gin.Context) {
	batches, err := h.api.ListBatches(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if batches == nil {
		batches = []domain.Batch{}
	}
	c.JSON(http.StatusOK, gin.H{"projetos": batches})
}

type uploadForm struct {
	ProductColumn   string  `form:"colunaProduto" binding:"required"`
	EndColumn       string  `form:"colunaFim" binding:"required"`
	PriceColumn     string  `form:"colunaPreco" binding:"required"`
	QuantityColumn  string  `form:"colunaQtd"`
	ConditionColumn string  `form:"colunaCondicao"`
	PalletColumn    string  `form:"colunaCodPallet"`
	CategoryColumn  string  `form:"colunaCategoria"`
	StartRow        int     `form:"linhaInicio" binding:"min=1"`
	CostPercent     float64 `form:"percentualCusto"`
	ProfitPercent   float64 `form:"percentualLucro"`
}

// Upload handles POST /projetos (multipart: file plus column mapping).
func (h *ProjectsHandler) Upload(c *gin.Context) {
	var form uploadForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, "cannot read file: "+err.Error())
		return
	}
	defer f.Close()

	cfg := domain.UploadConfig{
		ProductColumn:   form.ProductColumn,
		EndColumn:       form.EndColumn,
		PriceColumn:     form.PriceColumn,
		QuantityColumn:  form.QuantityColumn,
		ConditionColumn: form.ConditionColumn,
		PalletColumn:    form.PalletColumn,
		CategoryColumn:  form.CategoryColumn,
		StartRow:        form.StartRow,
		CostPercent:     form.CostPercent,
		ProfitPercent:   form.ProfitPercent,
	}

	ctx := c.Request.Context()
	result, err := h.api.UploadBatch(ctx, fh.Filename, f, cfg)
	if err != nil {
		writeError(c, err)
		return
	}
	logger.With(logger.Fields{logger.FieldSize: fh.Size}).Info(ctx, "Uploaded %s", fh.Filename)

	if len(result) == 0 || !json.Valid(result) {
		c.JSON(http.StatusCreated, gin.H{"msg": string(result)})
		return
	}
	c.Data(http.StatusCreated, "application/json; charset=utf-8", result)
}

// Delete handles DELETE /projetos/:id.
func (h *ProjectsHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.api.DeleteBatch(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	h.reviews.Forget(id)
	c.Status(http.StatusNoContent)
}

// Pallets handles GET /projetos/:id/pallets.
func (h *ProjectsHandler) Pallets(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	pallets, err := h.api.ListPallets(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if pallets == nil {
		pallets = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"pallets": pallets})
}

type exportRequest struct {
	Schema  string   `json:"schema"`
	Pallets []string `json:"pallets"`
	Save    bool     `json:"save"`
}

// Export handles POST /projetos/:id/export. The spreadsheet is streamed back as
// an attachment, or written to storage when save is set.
func (h *ProjectsHandler) Export(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req exportRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request: "+err.Error())
			return
		}
	}
	schema, err := export.ParseSchema(req.Schema)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	exportReq := export.Request{BatchID: id, Schema: schema, Pallets: req.Pallets}

	if req.Save {
		res, err := h.exporter.Export(ctx, exportReq)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
		return
	}

	dl, name, err := h.exporter.Fetch(ctx, exportReq)
	if err != nil {
		writeError(c, err)
		return
	}
	defer dl.Body.Close()

	contentType := dl.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, dl.Size, contentType, dl.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", name),
	})
}

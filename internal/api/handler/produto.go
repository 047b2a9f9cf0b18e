package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/timmy/siscrap/internal/catalog"
)

// ProdutoHandler serves the product catalog view. The view lives as long as the
// session.
type ProdutoHandler struct {
	api      catalog.API
	debounce time.Duration

	mu   sync.Mutex
	view *catalog.View
}

// NewProdutoHandler creates a new catalog handler.
func NewProdutoHandler(api catalog.API, debounce time.Duration) *ProdutoHandler {
	return &ProdutoHandler{api: api, debounce: debounce}
}

func (h *ProdutoHandler) current() *catalog.View {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.view == nil {
		h.view = catalog.NewView(h.api, h.debounce)
	}
	return h.view
}

// Reset discards the view, e.g. on logout.
func (h *ProdutoHandler) Reset() {
	h.mu.Lock()
	v := h.view
	h.view = nil
	h.mu.Unlock()
	if v != nil {
		v.Close()
	}
}

// Get handles GET /produto.
func (h *ProdutoHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.current().State())
}

type queryRequest struct {
	BatchID   *int64  `json:"arquivoId"`
	Search    *string `json:"search"`
	Pallet    *string `json:"pallet"`
	Condition *string `json:"condicao"`
	Page      *int    `json:"page"`
	Move      string  `json:"move" binding:"omitempty,oneof=next prev"`
}

// Query handles PUT /produto/query. Changes are applied in order: batch, then
// filters, then paging. The fetch happens after the debounce delay; poll GET
// /produto for the result.
func (h *ProdutoHandler) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}
	v := h.current()

	if req.BatchID != nil {
		if *req.BatchID <= 0 {
			badRequest(c, "invalid arquivoId")
			return
		}
		v.SelectBatch(*req.BatchID)
	}

	steps := []struct {
		set bool
		fn  func() error
	}{
		{req.Search != nil, func() error { return v.SetSearch(*req.Search) }},
		{req.Pallet != nil, func() error { return v.SetPallet(*req.Pallet) }},
		{req.Condition != nil, func() error { return v.SetCondition(*req.Condition) }},
		{req.Page != nil, func() error { return v.SetPage(*req.Page) }},
		{req.Move == "next", v.Next},
		{req.Move == "prev", v.Prev},
	}
	for _, s := range steps {
		if !s.set {
			continue
		}
		if err := s.fn(); err != nil {
			writeError(c, err)
			return
		}
	}
	c.JSON(http.StatusAccepted, v.State())
}

type priceRequest struct {
	Value string `json:"value" binding:"required"`
}

// EditPrice handles PUT /produto/:id/price.
func (h *ProdutoHandler) EditPrice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}
	v := h.current()
	if err := v.EditPrice(id, req.Value); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v.State())
}

// Save handles POST /produto/save.
func (h *ProdutoHandler) Save(c *gin.Context) {
	v := h.current()
	n, err := v.SaveAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": n, "state": v.State()})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timmy/siscrap/internal/logger"
	"github.com/timmy/siscrap/internal/review"
)

// ReviewHandler serves the reconciliation view of one batch.
type ReviewHandler struct {
	reviews *review.Registry
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviews *review.Registry) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// controller resolves :id to an opened controller, writing the error response
// when it cannot.
func (h *ReviewHandler) controller(c *gin.Context) (*review.Controller, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}
	ctx := logger.SetArquivoID(c.Request.Context(), id)
	c.Request = c.Request.WithContext(ctx)

	ctrl, err := h.reviews.Open(ctx, id)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return ctrl, true
}

// respond writes the state, or the error with the state attached so the UI can
// show what it rolled back to.
func respond(c *gin.Context, ctrl *review.Controller, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.State())
}

// Get handles GET /projeto/:id. ?refresh=1 refetches page and summary silently.
func (h *ReviewHandler) Get(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var err error
	if c.Query("refresh") != "" {
		err = ctrl.Refresh(c.Request.Context())
	}
	respond(c, ctrl, err)
}

type filterRequest struct {
	Dimension string `json:"dimension" binding:"required"`
	Value     string `json:"value"`
}

// SetFilter handles POST /projeto/:id/filters.
func (h *ReviewHandler) SetFilter(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}
	respond(c, ctrl, ctrl.SetFilter(c.Request.Context(), review.Dimension(req.Dimension), req.Value))
}

// ClearFilters handles DELETE /projeto/:id/filters.
func (h *ReviewHandler) ClearFilters(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	respond(c, ctrl, ctrl.ClearFilters(c.Request.Context()))
}

type pageRequest struct {
	Page *int `json:"page" binding:"required"`
}

// SetPage handles POST /projeto/:id/page.
func (h *ReviewHandler) SetPage(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var req pageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}
	respond(c, ctrl, ctrl.SetPage(c.Request.Context(), *req.Page))
}

// Approve handles POST /projeto/:id/tasks/:taskId/approve.
func (h *ReviewHandler) Approve(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	taskID, ok := idParam(c, "taskId")
	if !ok {
		return
	}
	respond(c, ctrl, ctrl.Approve(c.Request.Context(), taskID))
}

// ChooseCandidate handles POST /projeto/:id/tasks/:taskId/candidates/:candidateId.
func (h *ReviewHandler) ChooseCandidate(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	taskID, ok := idParam(c, "taskId")
	if !ok {
		return
	}
	candidateID, ok := idParam(c, "candidateId")
	if !ok {
		return
	}
	respond(c, ctrl, ctrl.ChooseCandidate(c.Request.Context(), taskID, candidateID))
}

// OpenCorrection handles GET /projeto/:id/tasks/:taskId/correction.
func (h *ReviewHandler) OpenCorrection(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	taskID, ok := idParam(c, "taskId")
	if !ok {
		return
	}
	form, err := ctrl.OpenCorrection(taskID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// SubmitCorrection handles PUT /projeto/:id/tasks/:taskId/correction. The task
// in the path must be the one the form was opened for.
func (h *ReviewHandler) SubmitCorrection(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	taskID, ok := idParam(c, "taskId")
	if !ok {
		return
	}
	var in review.CorrectionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	if form := ctrl.Correction(); !form.Open || form.TaskID != taskID {
		if _, err := ctrl.OpenCorrection(taskID); err != nil {
			writeError(c, err)
			return
		}
	}
	form, err := ctrl.SubmitCorrection(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"correcao": form, "state": ctrl.State()})
}

// CancelCorrection handles DELETE /projeto/:id/tasks/:taskId/correction.
func (h *ReviewHandler) CancelCorrection(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if err := ctrl.CancelCorrection(); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reprocess handles POST /projeto/:id/reprocess.
func (h *ReviewHandler) Reprocess(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	respond(c, ctrl, ctrl.Reprocess(c.Request.Context()))
}

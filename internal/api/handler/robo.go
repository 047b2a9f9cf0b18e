package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/timmy/siscrap/internal/export"
	"github.com/timmy/siscrap/internal/robot"
)

// RoboHandler serves the robot controller page.
type RoboHandler struct {
	ctrl     *robot.Controller
	exporter *export.Exporter
}

// NewRoboHandler creates a new robot handler.
func NewRoboHandler(ctrl *robot.Controller, exporter *export.Exporter) *RoboHandler {
	return &RoboHandler{ctrl: ctrl, exporter: exporter}
}

// Get handles GET /robo. The first visit (or ?refresh=1) reads the status.
func (h *RoboHandler) Get(c *gin.Context) {
	st := h.ctrl.State()
	if st.CheckedAt.Equal(time.Time{}) || c.Query("refresh") != "" {
		// Other failures are reported through the OFFLINE state.
		if err := h.ctrl.Init(c.Request.Context()); err != nil && statusFor(err) == http.StatusUnauthorized {
			writeError(c, err)
			return
		}
		st = h.ctrl.State()
	}
	c.JSON(http.StatusOK, st)
}

// Toggle handles POST /robo/toggle.
func (h *RoboHandler) Toggle(c *gin.Context) {
	if _, err := h.ctrl.Toggle(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.ctrl.State())
}

// DownloadAgent handles POST /robo/agent: saves the desktop installer to storage.
func (h *RoboHandler) DownloadAgent(c *gin.Context) {
	res, err := h.exporter.DownloadAgent(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

package admin

import (
	"github.com/Dhanush032/Smart-Shopping/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboardOverview returns the back-office landing page snapshot.
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	data, err := h.DashboardService.Overview(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch dashboard", err)
		return
	}

	response.Success(c, data)
}

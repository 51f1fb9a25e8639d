// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yahiawalid23/HEPTA/internal/database"
	"github.com/yahiawalid23/HEPTA/internal/i18n"
	"github.com/yahiawalid23/HEPTA/internal/utils"
)

type AdminHandler struct {
	audit *database.AuditRepository
}

func NewAdminHandler(audit *database.AuditRepository) *AdminHandler {
	return &AdminHandler{audit: audit}
}

// GET /api/admin/audit
func (h *AdminHandler) GetAuditLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	entries, total, err := h.audit.Recent(c.Request.Context(), params.Limit, params.Offset())
	if err != nil {
		utils.InternalErrorResponse(c, i18n.KeySystemError, err)
		return
	}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(entries, total, params))
}

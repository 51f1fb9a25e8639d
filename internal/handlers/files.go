// internal/handlers/files.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yahiawalid23/HEPTA/internal/i18n"
	"github.com/yahiawalid23/HEPTA/internal/objectstore"
	"github.com/yahiawalid23/HEPTA/internal/records"
	"github.com/yahiawalid23/HEPTA/internal/services"
	"github.com/yahiawalid23/HEPTA/internal/spreadsheet"
	"github.com/yahiawalid23/HEPTA/internal/utils"
)

type FileHandler struct {
	exports map[string]func(context.Context) ([]byte, error)
}

func NewFileHandler(catalogService *services.CatalogService, orderService *services.OrderService) *FileHandler {
	return &FileHandler{
		exports: map[string]func(context.Context) ([]byte, error){
			"products": catalogService.ExportProducts,
			"orders":   orderService.ExportOrders,
		},
	}
}

// GET /api/admin/files/:type
func (h *FileHandler) Download(c *gin.Context) {
	kind := c.Param("type")
	export, ok := h.exports[kind]
	if !ok {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyFileInvalidType), nil)
		return
	}

	data, err := export(c.Request.Context())
	if err != nil {
		if objectstore.IsNotFound(err) {
			utils.NotFoundResponse(c, i18n.KeyFileNotFound)
			return
		}
		utils.InternalErrorResponse(c, i18n.KeyStorageError, err)
		return
	}

	filename := records.ProductsObject
	if kind == "orders" {
		filename = records.OrdersObject
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("ETag", `"`+utils.HashBytes(data)+`"`)
	c.Data(http.StatusOK, spreadsheet.ContentType, data)
}

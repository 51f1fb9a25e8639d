// internal/handlers/product.go
package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yahiawalid23/HEPTA/internal/i18n"
	"github.com/yahiawalid23/HEPTA/internal/services"
	"github.com/yahiawalid23/HEPTA/internal/spreadsheet"
	"github.com/yahiawalid23/HEPTA/internal/utils"
)

type ProductHandler struct {
	catalogService *services.CatalogService
	imageService   *services.ImageService
	maxUploadBytes int64
}

func NewProductHandler(catalogService *services.CatalogService, imageService *services.ImageService, maxUploadBytes int64) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		imageService:   imageService,
		maxUploadBytes: maxUploadBytes,
	}
}

// GET /api/products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	filter := services.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	products := h.catalogService.ListProducts(c.Request.Context(), filter)

	if !utils.WantsPagination(c) {
		utils.SuccessResponse(c, products)
		return
	}
	utils.PaginatedResponse(c, utils.Paginate(products, utils.GetPaginationParams(c)))
}

// GET /api/categories
func (h *ProductHandler) GetCategories(c *gin.Context) {
	utils.SuccessResponse(c, h.catalogService.Categories(c.Request.Context()))
}

// POST /api/admin/products/upload
func (h *ProductHandler) UploadProducts(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	file, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyProductsFileRequired), nil)
		return
	}
	data, err := h.readUpload(file)
	if err != nil {
		h.uploadError(c, err, nil)
		return
	}

	result, err := h.catalogService.ImportProducts(c.Request.Context(), data)
	if err != nil {
		if spreadsheet.IsDecodeError(err) {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyProductsInvalidSheet), nil)
			return
		}
		utils.InternalErrorResponse(c, i18n.KeyStorageError, err)
		return
	}

	c.JSON(http.StatusOK, utils.APIResponse{
		Success: true,
		Message: i18n.T(lang, i18n.KeyProductsImported, result.Count),
		Data:    result,
	})
}

// GET /api/products/:id/images
func (h *ProductHandler) GetProductImages(c *gin.Context) {
	images, err := h.imageService.ListImages(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidImageName) {
			utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyImageInvalidName), nil)
			return
		}
		utils.InternalErrorResponse(c, i18n.KeyStorageError, err)
		return
	}
	utils.SuccessResponse(c, images)
}

// POST /api/admin/products/:id/images
func (h *ProductHandler) UploadProductImages(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyImagesRequired), nil)
		return
	}

	headers := form.File["images"]
	if len(headers) == 0 {
		headers = form.File["images[]"]
	}

	files := make([]services.UploadFile, 0, len(headers))
	for _, fh := range headers {
		data, err := h.readUpload(fh)
		if err != nil {
			h.uploadError(c, err, fh.Filename)
			return
		}
		files = append(files, services.UploadFile{Filename: fh.Filename, Data: data})
	}

	var thumbnailIndex *int
	if raw := c.PostForm("thumbnailIndex"); raw != "" {
		idx, err := strconv.Atoi(raw)
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyImageThumbnailIndex), nil)
			return
		}
		thumbnailIndex = &idx
	}

	uploaded, err := h.imageService.UploadImages(c.Request.Context(), c.Param("id"), files, thumbnailIndex)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoImages):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyImagesRequired), nil)
		case errors.Is(err, services.ErrInvalidImage):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyImageInvalidType), nil)
		case errors.Is(err, services.ErrInvalidThumbnailIndex):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyImageThumbnailIndex), nil)
		case errors.Is(err, services.ErrInvalidImageName):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyImageInvalidName), nil)
		default:
			utils.InternalErrorResponse(c, i18n.KeyStorageError, err)
		}
		return
	}

	c.JSON(http.StatusOK, utils.APIResponse{
		Success: true,
		Message: i18n.T(lang, i18n.KeyImagesUploaded, len(uploaded)),
		Data:    gin.H{"images": uploaded},
	})
}

// DELETE /api/admin/products/:id/images/:name
func (h *ProductHandler) DeleteProductImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	err := h.imageService.DeleteImage(c.Request.Context(), c.Param("id"), c.Param("name"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidImageName) {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyImageInvalidName), nil)
			return
		}
		utils.InternalErrorResponse(c, i18n.KeyStorageError, err)
		return
	}
	utils.MessageResponse(c, i18n.KeyImageDeleted)
}

var errUploadTooLarge = errors.New("upload too large")

// uploadError answers 400 for an oversized file and 500 for anything else.
func (h *ProductHandler) uploadError(c *gin.Context, err error, details interface{}) {
	if errors.Is(err, errUploadTooLarge) {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyImageTooLarge), details)
		return
	}
	utils.InternalErrorResponse(c, i18n.KeySystemError, err)
}

func (h *ProductHandler) readUpload(fh *multipart.FileHeader) ([]byte, error) {
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		return nil, errUploadTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

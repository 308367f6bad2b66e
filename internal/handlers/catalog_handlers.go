package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rings-s/anha/internal/common"
	"github.com/rings-s/anha/internal/models"
	"github.com/rings-s/anha/internal/services"
)

// CatalogHandlers handles the public service catalog and its admin CRUD.
type CatalogHandlers struct {
	catalogService services.CatalogServiceInterface
}

func NewCatalogHandlers(catalogService services.CatalogServiceInterface) *CatalogHandlers {
	return &CatalogHandlers{catalogService: catalogService}
}

// List returns the full catalog. Public.
func (h *CatalogHandlers) List(c echo.Context) error {
	services, err := h.catalogService.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, services)
}

// Get returns a single catalog entry. Public.
func (h *CatalogHandlers) Get(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return httpError(err)
	}

	service, err := h.catalogService.GetByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, service)
}

// ImageURL returns a short-lived presigned URL for the service image.
func (h *CatalogHandlers) ImageURL(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return httpError(err)
	}

	url, err := h.catalogService.ImageURL(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

// ServiceRequest represents the create/update payload for a catalog entry.
type ServiceRequest struct {
	NameAr      string  `json:"name_ar" validate:"required"`
	NameEn      *string `json:"name_en"`
	Description *string `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
}

// Create adds a catalog entry. Admin only.
func (h *CatalogHandlers) Create(c echo.Context) error {
	var req ServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	service := &models.Service{
		ID:          uuid.New(),
		NameAr:      req.NameAr,
		NameEn:      req.NameEn,
		Description: req.Description,
		Price:       req.Price,
	}
	if err := h.catalogService.Create(c.Request().Context(), service); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, service)
}

// Update edits a catalog entry. Admin only.
func (h *CatalogHandlers) Update(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return httpError(err)
	}

	var req ServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	existing, err := h.catalogService.GetByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	existing.NameAr = req.NameAr
	existing.NameEn = req.NameEn
	existing.Description = req.Description
	existing.Price = req.Price

	if err := h.catalogService.Update(c.Request().Context(), existing); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, existing)
}

// Delete removes a catalog entry and its stored image. Admin only.
func (h *CatalogHandlers) Delete(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return httpError(err)
	}

	if err := h.catalogService.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImage stores a new image for a catalog entry from a multipart
// form field named "image". Admin only.
func (h *CatalogHandlers) UploadImage(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return httpError(err)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read image file")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := h.catalogService.UploadImage(c.Request().Context(), id, file, fileHeader.Size, contentType); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "image uploaded"})
}

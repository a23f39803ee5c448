package handlers

import (
	response "cpq_engine/internal/adapter/http/dto/response"
	"cpq_engine/internal/domain/entities"
	"cpq_engine/internal/usecase"
	"cpq_engine/pkg"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the published product catalog.

type CatalogHandler struct {
	usecase usecase.ICatalogUseCase
}

func NewCatalogHandler(uc usecase.ICatalogUseCase) *CatalogHandler {
	return &CatalogHandler{usecase: uc}
}

// ListProducts godoc
// @Summary  List catalog products
// @Tags     catalog
// @Produce  json
// @Param    category query string false "enterprise_license | ai_addon | all"
// @Success  200 {array} response.ProductResponse
// @Failure  400 {object} pkg.HTTPError
// @Router   /products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.usecase.ListProducts(c.Request.Context(), c.Query("category"))
	if err != nil {
		appErr := mapCatalogError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromProducts(products))
}

// GetProduct godoc
// @Summary  Get a catalog product
// @Tags     catalog
// @Produce  json
// @Param    id path string true "product id"
// @Success  200 {object} response.ProductResponse
// @Failure  404 {object} pkg.HTTPError
// @Router   /products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.usecase.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapCatalogError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromProduct(product))
}

// ReloadCatalog godoc
// @Summary  Reload the catalog from its configured source
// @Tags     catalog
// @Produce  json
// @Success  200 {object} response.CatalogReloadResponse
// @Failure  400 {object} pkg.HTTPError
// @Failure  503 {object} pkg.HTTPError
// @Router   /catalog/reload [post]
func (h *CatalogHandler) ReloadCatalog(c *gin.Context) {
	n, err := h.usecase.Reload(c.Request.Context())
	if err != nil {
		appErr := mapCatalogError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.CatalogReloadResponse{Products: n})
}

func mapCatalogError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, entities.ErrInvalidInput):
		return pkg.NewDomainError("INVALID_INPUT", "Invalid catalog request", err, http.StatusBadRequest)
	case errors.Is(err, entities.ErrNotFound):
		return pkg.NewDomainErrorSimple("PRODUCT_NOT_FOUND", "Product not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrCatalogProviderNotConfigured):
		return pkg.NewDomainErrorSimple("CATALOG_SOURCE_UNAVAILABLE", "Catalog source is not configured", http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

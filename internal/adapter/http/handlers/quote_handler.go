package handlers

import (
	request "cpq_engine/internal/adapter/http/dto/request"
	response "cpq_engine/internal/adapter/http/dto/response"
	"cpq_engine/internal/domain/entities"
	"cpq_engine/internal/usecase"
	"cpq_engine/pkg"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidQuotePayload = pkg.NewDomainErrorSimple("INVALID_INPUT", "Invalid quote payload", http.StatusBadRequest)
	errInvalidQuantity     = pkg.NewDomainErrorSimple("INVALID_INPUT", "Quantity must be a positive integer", http.StatusBadRequest)
)

// QuoteHandler exposes the quote manager over HTTP. Every successful call
// answers with the full quote.

type QuoteHandler struct {
	usecase usecase.IQuoteUseCase
}

func NewQuoteHandler(uc usecase.IQuoteUseCase) *QuoteHandler {
	return &QuoteHandler{usecase: uc}
}

// CreateQuote godoc
// @Summary  Create an empty draft quote
// @Tags     quotes
// @Accept   json
// @Produce  json
// @Param    payload body request.CreateQuoteRequest true "customer"
// @Success  201 {object} response.QuoteResponse
// @Failure  400 {object} pkg.HTTPError
// @Router   /quotes [post]
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var payload request.CreateQuoteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidQuotePayload.HTTPStatus, errInvalidQuotePayload.ToHTTPError())
		return
	}

	q, err := h.usecase.CreateQuote(c.Request.Context(), payload.ResolveCustomerID())
	if err != nil {
		appErr := mapQuoteError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusCreated, response.FromQuote(q))
}

// GetQuote godoc
// @Summary  Get a quote
// @Tags     quotes
// @Produce  json
// @Param    id path string true "quote id"
// @Success  200 {object} response.QuoteResponse
// @Failure  404 {object} pkg.HTTPError
// @Router   /quotes/{id} [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	q, err := h.usecase.GetQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapQuoteError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(q))
}

// ListQuotes godoc
// @Summary  List the quotes of a customer
// @Tags     quotes
// @Produce  json
// @Param    customer_id query string true "customer id"
// @Success  200 {array} response.QuoteResponse
// @Failure  400 {object} pkg.HTTPError
// @Router   /quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	qs, err := h.usecase.ListByCustomerID(c.Request.Context(), c.Query("customer_id"))
	if err != nil {
		appErr := mapQuoteError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromQuotes(qs))
}

// AddLine godoc
// @Summary  Add a line item
// @Tags     quotes
// @Accept   json
// @Produce  json
// @Param    id      path string                 true "quote id"
// @Param    payload body request.AddLineRequest true "line"
// @Success  200 {object} response.QuoteResponse
// @Failure  400 {object} pkg.HTTPError
// @Failure  404 {object} pkg.HTTPError
// @Failure  409 {object} pkg.HTTPError
// @Failure  422 {object} pkg.HTTPError
// @Router   /quotes/{id}/lines [post]
func (h *QuoteHandler) AddLine(c *gin.Context) {
	var payload request.AddLineRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidQuotePayload.HTTPStatus, errInvalidQuotePayload.ToHTTPError())
		return
	}
	qty, err := payload.ResolveQuantity()
	if err != nil {
		c.JSON(errInvalidQuantity.HTTPStatus, errInvalidQuantity.ToHTTPError())
		return
	}

	q, err := h.usecase.AddLine(c.Request.Context(), c.Param("id"), payload.ResolveProductID(), qty)
	if err != nil {
		appErr := mapQuoteError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(q))
}

// SetQuantity godoc
// @Summary  Change the quantity of a line item
// @Tags     quotes
// @Accept   json
// @Produce  json
// @Param    id      path string                     true "quote id"
// @Param    line_id path string                     true "line id"
// @Param    payload body request.SetQuantityRequest true "quantity"
// @Success  200 {object} response.QuoteResponse
// @Failure  400 {object} pkg.HTTPError
// @Failure  404 {object} pkg.HTTPError
// @Failure  409 {object} pkg.HTTPError
// @Failure  422 {object} pkg.HTTPError
// @Router   /quotes/{id}/lines/{line_id} [patch]
func (h *QuoteHandler) SetQuantity(c *gin.Context) {
	var payload request.SetQuantityRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidQuotePayload.HTTPStatus, errInvalidQuotePayload.ToHTTPError())
		return
	}
	qty, err := payload.ResolveQuantity()
	if err != nil {
		c.JSON(errInvalidQuantity.HTTPStatus, errInvalidQuantity.ToHTTPError())
		return
	}

	q, err := h.usecase.SetQuantity(c.Request.Context(), c.Param("id"), c.Param("line_id"), qty)
	if err != nil {
		appErr := mapQuoteError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(q))
}

// RemoveLine godoc
// @Summary  Remove a line item
// @Tags     quotes
// @Produce  json
// @Param    id      path string true "quote id"
// @Param    line_id path string true "line id"
// @Success  200 {object} response.QuoteResponse
// @Failure  404 {object} pkg.HTTPError
// @Failure  409 {object} pkg.HTTPError
// @Router   /quotes/{id}/lines/{line_id} [delete]
func (h *QuoteHandler) RemoveLine(c *gin.Context) {
	q, err := h.usecase.RemoveLine(c.Request.Context(), c.Param("id"), c.Param("line_id"))
	if err != nil {
		appErr := mapQuoteError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(q))
}

// FinalizeQuote godoc
// @Summary  Finalize a quote; it becomes immutable
// @Tags     quotes
// @Produce  json
// @Param    id path string true "quote id"
// @Success  200 {object} response.QuoteResponse
// @Failure  404 {object} pkg.HTTPError
// @Failure  409 {object} pkg.HTTPError
// @Router   /quotes/{id}/finalize [post]
func (h *QuoteHandler) FinalizeQuote(c *gin.Context) {
	q, err := h.usecase.Finalize(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapQuoteError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(q))
}

func mapQuoteError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, entities.ErrInvalidInput):
		return pkg.NewDomainError("INVALID_INPUT", "Invalid request", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrQuoteNotFound):
		return pkg.NewDomainErrorSimple("QUOTE_NOT_FOUND", "Quote not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrNotFound):
		return pkg.NewDomainError("NOT_FOUND", "Product or line item not found", err, http.StatusNotFound)
	case errors.Is(err, entities.ErrTierResolution):
		return pkg.NewDomainError("TIER_RESOLUTION_ERROR", "No pricing tier matches the requested quantity", err, http.StatusUnprocessableEntity)
	case errors.Is(err, entities.ErrInvalidState):
		return pkg.NewDomainError("INVALID_STATE", "Quote is finalized and can no longer be changed", err, http.StatusConflict)
	case errors.Is(err, entities.ErrConflict):
		return pkg.NewDomainError("CONCURRENT_MODIFICATION", "Quote was changed by another request; reload and retry", err, http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

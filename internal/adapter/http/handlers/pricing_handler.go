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

var errInvalidPricingPayload = pkg.NewDomainErrorSimple("INVALID_INPUT", "Invalid pricing payload", http.StatusBadRequest)

// PricingHandler serves the price calculator.

type PricingHandler struct {
	usecase usecase.IPricingUseCase
}

func NewPricingHandler(uc usecase.IPricingUseCase) *PricingHandler {
	return &PricingHandler{usecase: uc}
}

// Calculate godoc
// @Summary  Price product quantities without creating a quote
// @Tags     pricing
// @Accept   json
// @Produce  json
// @Param    payload body request.PriceCalculationRequest true "lines"
// @Success  200 {object} response.PriceCalculationResponse
// @Failure  400 {object} pkg.HTTPError
// @Failure  404 {object} pkg.HTTPError
// @Failure  422 {object} pkg.HTTPError
// @Router   /pricing/calculate [post]
func (h *PricingHandler) Calculate(c *gin.Context) {
	var payload request.PriceCalculationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPricingPayload.HTTPStatus, errInvalidPricingPayload.ToHTTPError())
		return
	}
	lines, err := payload.ResolveLines()
	if err != nil {
		c.JSON(errInvalidQuantity.HTTPStatus, errInvalidQuantity.ToHTTPError())
		return
	}

	calc, err := h.usecase.Calculate(c.Request.Context(), lines)
	if err != nil {
		appErr := mapPricingError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromCalculation(calc))
}

func mapPricingError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, entities.ErrInvalidInput):
		return pkg.NewDomainError("INVALID_INPUT", "Invalid request", err, http.StatusBadRequest)
	case errors.Is(err, entities.ErrNotFound):
		return pkg.NewDomainError("NOT_FOUND", "Product not found", err, http.StatusNotFound)
	case errors.Is(err, entities.ErrTierResolution):
		return pkg.NewDomainError("TIER_RESOLUTION_ERROR", "No pricing tier matches the requested quantity", err, http.StatusUnprocessableEntity)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

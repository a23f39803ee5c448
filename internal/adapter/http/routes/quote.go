package routes

import (
	"cpq_engine/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathQuotes   = "/quotes"
	PathProducts = "/products"
	PathCatalog  = "/catalog"
	PathPricing  = "/pricing"
)

func addQuoteRoutes(rg *gin.RouterGroup, quoteHandler *handlers.QuoteHandler) {
	quotes := rg.Group(PathQuotes)
	{
		quotes.POST("", quoteHandler.CreateQuote)
		quotes.GET("", quoteHandler.ListQuotes)
		quotes.GET("/:id", quoteHandler.GetQuote)
		quotes.POST("/:id/lines", quoteHandler.AddLine)
		quotes.PATCH("/:id/lines/:line_id", quoteHandler.SetQuantity)
		quotes.DELETE("/:id/lines/:line_id", quoteHandler.RemoveLine)
		quotes.POST("/:id/finalize", quoteHandler.FinalizeQuote)
	}
}

func addCatalogRoutes(rg *gin.RouterGroup, catalogHandler *handlers.CatalogHandler) {
	products := rg.Group(PathProducts)
	{
		products.GET("", catalogHandler.ListProducts)
		products.GET("/:id", catalogHandler.GetProduct)
	}

	rg.POST(PathCatalog+"/reload", catalogHandler.ReloadCatalog)
}

func addPricingRoutes(rg *gin.RouterGroup, pricingHandler *handlers.PricingHandler) {
	rg.POST(PathPricing+"/calculate", pricingHandler.Calculate)
}

package routes

import (
	"context"
	_ "cpq_engine/docs" // This will be auto-generated
	"cpq_engine/internal/adapter/http/handlers"
	repository2 "cpq_engine/internal/adapter/persistence/repository"
	"cpq_engine/internal/domain/pricing"
	"cpq_engine/internal/infrastructure/catalog"
	"cpq_engine/internal/infrastructure/config"
	"cpq_engine/internal/infrastructure/database"
	"cpq_engine/internal/infrastructure/logger"
	"cpq_engine/internal/usecase"
	"cpq_engine/internal/usecase/interfaces"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.New()

// Run will start the server
func Run() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync()

	setMiddlewares(appLog)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if err := getRoutes(cfg, appLog); err != nil {
		appLog.Fatal("[app] failed to wire dependencies", "err", err)
	}

	appLog.Info("[app] listening", "port", cfg.Port, "quote_storage", cfg.QuoteStorage, "catalog_source", cfg.CatalogSource)
	if err := router.Run(":" + strconv.Itoa(cfg.Port)); err != nil {
		appLog.Fatal("[app] failed to startup the application", "err", err)
	}
}

func getRoutes(cfg config.Config, appLog *logger.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var ddb *dynamodb.Client
	if cfg.QuoteStorage == config.StorageDynamoDB || cfg.CatalogSource == config.CatalogSourceDynamoDB {
		client, err := database.ConnectDynamoDB(ctx)
		if err != nil {
			return err
		}
		ddb = client
	}

	var provider interfaces.ICatalogProvider
	switch cfg.CatalogSource {
	case config.CatalogSourceDynamoDB:
		provider = repository2.NewProductDynamoProvider(ddb)
	default:
		provider = catalog.NewFileCatalogProvider(cfg.CatalogFile)
	}

	products, err := provider.LoadProducts(ctx)
	if err != nil {
		return err
	}
	initial, err := pricing.NewCatalog(products)
	if err != nil {
		return err
	}
	store := pricing.NewCatalogStore(initial)
	appLog.Info("[catalog] initial catalog published", "products", initial.Len(), "source", cfg.CatalogSource)

	rules, err := cfg.DiscountRules()
	if err != nil {
		return err
	}

	var quoteRepo interfaces.IQuoteRepository
	switch cfg.QuoteStorage {
	case config.StorageDynamoDB:
		quoteRepo = repository2.NewQuoteDynamoRepository(ddb)
	default:
		quoteRepo = repository2.NewQuoteMemoryRepository()
	}

	quoteUseCase := usecase.NewQuoteUseCase(quoteRepo, store, rules, appLog)
	catalogUseCase := usecase.NewCatalogUseCase(store, provider, appLog)
	pricingUseCase := usecase.NewPricingUseCase(store, rules, appLog)

	quoteHandler := handlers.NewQuoteHandler(quoteUseCase)
	catalogHandler := handlers.NewCatalogHandler(catalogUseCase)
	pricingHandler := handlers.NewPricingHandler(pricingUseCase)

	// public routes
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addCatalogRoutes(v1, catalogHandler)
	addQuoteRoutes(v1, quoteHandler)
	addPricingRoutes(v1, pricingHandler)
	return nil
}

func setMiddlewares(appLog *logger.Logger) {
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		appLog.Error("[app] recovered from panic", "panic", recovered, "path", c.Request.URL.Path)
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}

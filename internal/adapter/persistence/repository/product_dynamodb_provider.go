package repository

import (
	"context"
	"fmt"
	"sort"

	"cpq_engine/internal/domain/entities"
	"cpq_engine/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

const defaultProductsTableName = "products"

type tierAttr struct {
	Name   string `dynamodbav:"name"`
	MinQty int    `dynamodbav:"min_qty"`
	MaxQty *int   `dynamodbav:"max_qty,omitempty"`
	Price  string `dynamodbav:"price"`
}

type productItem struct {
	ID          string     `dynamodbav:"id"`
	Position    int        `dynamodbav:"position"`
	SKU         string     `dynamodbav:"sku"`
	Name        string     `dynamodbav:"name"`
	Description string     `dynamodbav:"description"`
	Category    string     `dynamodbav:"category"`
	PricingType string     `dynamodbav:"pricing_type"`
	BasePrice   string     `dynamodbav:"base_price"`
	Tiers       []tierAttr `dynamodbav:"tiers"`
}

// ProductDynamoProvider loads the catalog from a DynamoDB table.
//
// Table requirements:
//   - PK: id (string)
//   - position (number) defines catalog load order; a Scan has no order of its own.

type ProductDynamoProvider struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.ICatalogProvider = (*ProductDynamoProvider)(nil)

func NewProductDynamoProvider(ddb *dynamodb.Client) *ProductDynamoProvider {
	return &ProductDynamoProvider{
		ddb:       ddb,
		tableName: getenvDefault("PRODUCTS_TABLE", defaultProductsTableName),
	}
}

func (r *ProductDynamoProvider) LoadProducts(ctx context.Context) ([]entities.Product, error) {
	p := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{
		TableName:      aws.String(r.tableName),
		ConsistentRead: aws.Bool(true),
	})

	items := make([]productItem, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			var it productItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			items = append(items, it)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Position == items[j].Position {
			return items[i].ID < items[j].ID
		}
		return items[i].Position < items[j].Position
	})

	products := make([]entities.Product, 0, len(items))
	for _, it := range items {
		p, err := fromProductItem(it)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func fromProductItem(it productItem) (entities.Product, error) {
	category, err := entities.ParseCategory(it.Category)
	if err != nil {
		return entities.Product{}, fmt.Errorf("product %q: %w", it.ID, err)
	}
	pricingType, err := entities.ParsePricingType(it.PricingType)
	if err != nil {
		return entities.Product{}, fmt.Errorf("product %q: %w", it.ID, err)
	}
	base, err := parseMoney(it.BasePrice)
	if err != nil {
		return entities.Product{}, fmt.Errorf("product %q: %w", it.ID, err)
	}
	tiers := make([]entities.Tier, 0, len(it.Tiers))
	for _, t := range it.Tiers {
		price, err := parseMoney(t.Price)
		if err != nil {
			return entities.Product{}, fmt.Errorf("product %q tier %q: %w", it.ID, t.Name, err)
		}
		tiers = append(tiers, entities.Tier{Name: t.Name, MinQty: t.MinQty, MaxQty: t.MaxQty, Price: price})
	}
	return entities.Product{
		ID:          it.ID,
		SKU:         it.SKU,
		Name:        it.Name,
		Description: it.Description,
		Category:    category,
		PricingType: pricingType,
		BasePrice:   base,
		Tiers:       tiers,
	}, nil
}

package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"cpq_engine/internal/domain/entities"
	"cpq_engine/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultQuotesTableName = "quotes"
	quotesCustomerIDIndex  = "customer_id-index"
)

type lineItemAttr struct {
	ID              string `dynamodbav:"id"`
	ProductID       string `dynamodbav:"product_id"`
	Quantity        int    `dynamodbav:"quantity"`
	UnitPrice       string `dynamodbav:"unit_price"`
	DiscountApplied string `dynamodbav:"discount_applied"`
	LineTotal       string `dynamodbav:"line_total"`
}

type quoteItem struct {
	ID            string         `dynamodbav:"id"`
	CustomerID    string         `dynamodbav:"customer_id"`
	LineItems     []lineItemAttr `dynamodbav:"line_items"`
	Subtotal      string         `dynamodbav:"subtotal"`
	TotalDiscount string         `dynamodbav:"total_discount"`
	GrandTotal    string         `dynamodbav:"grand_total"`
	Status        string         `dynamodbav:"status"`
	Version       int            `dynamodbav:"version"`
	CreatedAt     string         `dynamodbav:"created_at"`
	UpdatedAt     string         `dynamodbav:"updated_at"`
}

// QuoteDynamoRepository persists quote snapshots in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: customer_id-index (PK: customer_id)
//
// Money is stored as decimal strings so values round-trip exactly. Writes are
// conditional on the stored version, so replicas never overwrite each other.

type QuoteDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IQuoteRepository = (*QuoteDynamoRepository)(nil)

func NewQuoteDynamoRepository(ddb *dynamodb.Client) *QuoteDynamoRepository {
	return &QuoteDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("QUOTES_TABLE", defaultQuotesTableName),
	}
}

func (r *QuoteDynamoRepository) Save(ctx context.Context, q entities.Quote) error {
	av, err := attributevalue.MarshalMap(toQuoteItem(q))
	if err != nil {
		return err
	}
	cond, names, values := saveCondition(q)
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(r.tableName),
		Item:                      av,
		ConditionExpression:       aws.String(cond),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return quoteConflict(q.ID, q.Version)
		}
		return err
	}
	return nil
}

// saveCondition creates version 1 only when the id is free; later versions
// replace a draft whose stored version is exactly one behind.
func saveCondition(q entities.Quote) (string, map[string]string, map[string]types.AttributeValue) {
	if q.Version <= 1 {
		return "attribute_not_exists(#id)", map[string]string{"#id": "id"}, nil
	}
	return "#version = :expected AND #status = :draft",
		map[string]string{
			"#version": "version",
			"#status":  "status",
		},
		map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: strconv.Itoa(q.Version - 1)},
			":draft":    &types.AttributeValueMemberS{Value: string(entities.QuoteStatusDraft)},
		}
}

func (r *QuoteDynamoRepository) GetByID(ctx context.Context, id string) (entities.Quote, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Quote{}, err
	}
	if len(out.Item) == 0 {
		return entities.Quote{}, nil
	}

	var it quoteItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Quote{}, err
	}
	return fromQuoteItem(it)
}

func (r *QuoteDynamoRepository) ListByCustomerID(ctx context.Context, customerID string) ([]entities.Quote, error) {
	p := dynamodb.NewQueryPaginator(r.ddb, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(quotesCustomerIDIndex),
		KeyConditionExpression: aws.String("customer_id = :cid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cid": &types.AttributeValueMemberS{Value: customerID},
		},
	})

	quotes := make([]entities.Quote, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			var it quoteItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			q, err := fromQuoteItem(it)
			if err != nil {
				return nil, err
			}
			quotes = append(quotes, q)
		}
	}
	sortQuotes(quotes)
	return quotes, nil
}

func toQuoteItem(q entities.Quote) quoteItem {
	lines := make([]lineItemAttr, 0, len(q.LineItems))
	for _, li := range q.LineItems {
		lines = append(lines, lineItemAttr{
			ID:              li.ID,
			ProductID:       li.ProductID,
			Quantity:        li.Quantity,
			UnitPrice:       li.UnitPrice.String(),
			DiscountApplied: li.DiscountApplied.String(),
			LineTotal:       li.LineTotal.String(),
		})
	}
	return quoteItem{
		ID:            q.ID,
		CustomerID:    q.CustomerID,
		LineItems:     lines,
		Subtotal:      q.Subtotal.String(),
		TotalDiscount: q.TotalDiscount.String(),
		GrandTotal:    q.GrandTotal.String(),
		Status:        string(q.Status),
		Version:       q.Version,
		CreatedAt:     q.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:     q.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func fromQuoteItem(it quoteItem) (entities.Quote, error) {
	createdAt, err := parseTimestamp(it.CreatedAt)
	if err != nil {
		return entities.Quote{}, err
	}
	updatedAt, err := parseTimestamp(it.UpdatedAt)
	if err != nil {
		return entities.Quote{}, err
	}

	q := entities.Quote{
		ID:         it.ID,
		CustomerID: it.CustomerID,
		LineItems:  make([]entities.LineItem, 0, len(it.LineItems)),
		Status:     entities.QuoteStatus(it.Status),
		Version:    it.Version,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}
	if q.Subtotal, err = parseMoney(it.Subtotal); err != nil {
		return entities.Quote{}, err
	}
	if q.TotalDiscount, err = parseMoney(it.TotalDiscount); err != nil {
		return entities.Quote{}, err
	}
	if q.GrandTotal, err = parseMoney(it.GrandTotal); err != nil {
		return entities.Quote{}, err
	}
	for _, l := range it.LineItems {
		li := entities.LineItem{ID: l.ID, ProductID: l.ProductID, Quantity: l.Quantity}
		if li.UnitPrice, err = parseMoney(l.UnitPrice); err != nil {
			return entities.Quote{}, err
		}
		if li.DiscountApplied, err = parseMoney(l.DiscountApplied); err != nil {
			return entities.Quote{}, err
		}
		if li.LineTotal, err = parseMoney(l.LineTotal); err != nil {
			return entities.Quote{}, err
		}
		q.LineItems = append(q.LineItems, li)
	}
	return q, nil
}

package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	orderDomain "github.com/perfectlystyled/service-checkout/internal/domain/order"
	"github.com/perfectlystyled/service-checkout/internal/platform/domain"
)

// orderItem is the DynamoDB document for a settlement record. Amounts are
// stored as fixed-point strings.
type orderItem struct {
	ID             string    `dynamodbav:"id"`
	OrderID        string    `dynamodbav:"orderId"`
	PayerID        string    `dynamodbav:"payerId"`
	Amount         string    `dynamodbav:"amount"`
	BaseAmount     string    `dynamodbav:"baseAmount"`
	Currency       string    `dynamodbav:"currency"`
	DiscountCode   *string   `dynamodbav:"discountCode,omitempty"`
	DiscountAmount *string   `dynamodbav:"discountAmount,omitempty"`
	InfluencerID   *string   `dynamodbav:"influencerId,omitempty"`
	Status         string    `dynamodbav:"status"`
	PayerEmail     *string   `dynamodbav:"payerEmail,omitempty"`
	CreatedAt      time.Time `dynamodbav:"createdAt"`
	CapturedAt     time.Time `dynamodbav:"capturedAt"`
}

// DynamoOrderRepository implements OrderRepository on a DynamoDB table keyed
// by the provider order id.
type DynamoOrderRepository struct {
	client DynamoDBAPI
	table  string
}

// NewDynamoOrderRepository creates a new DynamoDB order repository.
func NewDynamoOrderRepository(client DynamoDBAPI, table string) *DynamoOrderRepository {
	return &DynamoOrderRepository{client: client, table: table}
}

// Upsert writes the whole document, replacing any previous version.
func (r *DynamoOrderRepository) Upsert(ctx context.Context, o *orderDomain.Order) error {
	av, err := attributevalue.MarshalMap(toOrderItem(o))
	if err != nil {
		return domain.NewPersistenceError("encode order", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      av,
	}); err != nil {
		return domain.NewPersistenceError("put order", err)
	}
	return nil
}

// FindByID retrieves an order by provider id.
func (r *DynamoOrderRepository) FindByID(ctx context.Context, id string) (*orderDomain.Order, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       idKey(id),
	})
	if err != nil {
		return nil, domain.NewPersistenceError("get order", err)
	}
	if out.Item == nil {
		return nil, domain.NewNotFoundError("Order", id)
	}
	return decodeOrder(out.Item)
}

// ListAll scans the table and returns one page ordered newest first.
func (r *DynamoOrderRepository) ListAll(ctx context.Context, page, limit int) ([]*orderDomain.Order, int64, error) {
	orders, err := r.scanOrders(ctx)
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt().After(orders[j].CreatedAt()) })

	total := int64(len(orders))
	start := (page - 1) * limit
	if start < 0 || start >= len(orders) {
		return []*orderDomain.Order{}, total, nil
	}
	end := start + limit
	if end > len(orders) {
		end = len(orders)
	}
	return orders[start:end], total, nil
}

// GetRevenueStats aggregates a full scan of the table.
func (r *DynamoOrderRepository) GetRevenueStats(ctx context.Context) (*orderDomain.RevenueStats, error) {
	orders, err := r.scanOrders(ctx)
	if err != nil {
		return nil, err
	}

	stats := &orderDomain.RevenueStats{
		TotalRevenue:            decimal.Zero,
		CountByStatus:           make(map[string]int64),
		RedemptionsByInfluencer: make(map[string]int64),
	}
	for _, o := range orders {
		stats.CountByStatus[string(o.Status())]++
		if o.Status() == orderDomain.StatusCompleted {
			stats.TotalRevenue = stats.TotalRevenue.Add(o.Amount())
		}
		if d := o.Discount(); d != nil && d.InfluencerID != nil {
			stats.RedemptionsByInfluencer[*d.InfluencerID]++
		}
	}
	return stats, nil
}

func (r *DynamoOrderRepository) scanOrders(ctx context.Context) ([]*orderDomain.Order, error) {
	items, err := scanAll(ctx, r.client, r.table)
	if err != nil {
		return nil, domain.NewPersistenceError("scan orders", err)
	}

	orders := make([]*orderDomain.Order, 0, len(items))
	for _, av := range items {
		o, err := decodeOrder(av)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func decodeOrder(av map[string]dynamodbtypes.AttributeValue) (*orderDomain.Order, error) {
	var item orderItem
	if err := attributevalue.UnmarshalMap(av, &item); err != nil {
		return nil, domain.NewPersistenceError("decode order", err)
	}

	amount, err := decimal.NewFromString(item.Amount)
	if err != nil {
		return nil, domain.NewPersistenceError("decode order", fmt.Errorf("amount %q: %w", item.Amount, err))
	}
	base, err := decimal.NewFromString(item.BaseAmount)
	if err != nil {
		return nil, domain.NewPersistenceError("decode order", fmt.Errorf("baseAmount %q: %w", item.BaseAmount, err))
	}

	var applied *orderDomain.AppliedDiscount
	if item.DiscountCode != nil {
		applied = &orderDomain.AppliedDiscount{Code: *item.DiscountCode, InfluencerID: item.InfluencerID}
		if item.DiscountAmount != nil {
			if applied.Amount, err = decimal.NewFromString(*item.DiscountAmount); err != nil {
				return nil, domain.NewPersistenceError("decode order", fmt.Errorf("discountAmount %q: %w", *item.DiscountAmount, err))
			}
		}
	}

	return orderDomain.Reconstruct(
		item.ID,
		item.PayerID,
		amount,
		base,
		item.Currency,
		applied,
		orderDomain.Status(item.Status),
		item.PayerEmail,
		item.CreatedAt,
		item.CapturedAt,
	), nil
}

func toOrderItem(o *orderDomain.Order) orderItem {
	item := orderItem{
		ID:         o.ID(),
		OrderID:    o.ID(),
		PayerID:    o.PayerID(),
		Amount:     o.Amount().StringFixed(2),
		BaseAmount: o.BaseAmount().StringFixed(2),
		Currency:   o.Currency(),
		Status:     string(o.Status()),
		PayerEmail: o.PayerEmail(),
		CreatedAt:  o.CreatedAt(),
		CapturedAt: o.CapturedAt(),
	}
	if d := o.Discount(); d != nil {
		code := d.Code
		amount := d.Amount.StringFixed(2)
		item.DiscountCode = &code
		item.DiscountAmount = &amount
		item.InfluencerID = d.InfluencerID
	}
	return item
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	discountDomain "github.com/perfectlystyled/service-checkout/internal/domain/discount"
	"github.com/perfectlystyled/service-checkout/internal/platform/domain"
)

// discountItem is the DynamoDB document for a discount code.
type discountItem struct {
	ID         string     `dynamodbav:"id"`
	PercentOff string     `dynamodbav:"percentOff"`
	Owner      string     `dynamodbav:"owner"`
	Uses       int        `dynamodbav:"uses"`
	IsActive   bool       `dynamodbav:"isActive"`
	MaxUses    *int       `dynamodbav:"maxUses,omitempty"`
	ExpiresAt  *time.Time `dynamodbav:"expiresAt,omitempty"`
	CreatedAt  time.Time  `dynamodbav:"createdAt"`
}

// DynamoDiscountRepository implements DiscountRepository on a DynamoDB table
// keyed by "id".
type DynamoDiscountRepository struct {
	client DynamoDBAPI
	table  string
}

// NewDynamoDiscountRepository creates a new DynamoDB discount repository.
func NewDynamoDiscountRepository(client DynamoDBAPI, table string) *DynamoDiscountRepository {
	return &DynamoDiscountRepository{client: client, table: table}
}

// FindByCode retrieves a discount code by its normalised id.
func (r *DynamoDiscountRepository) FindByCode(ctx context.Context, code string) (*discountDomain.DiscountCode, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            idKey(code),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, domain.NewPersistenceError("get discount code", err)
	}
	if out.Item == nil {
		return nil, discountDomain.ErrDiscountNotFound
	}

	var item discountItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, domain.NewPersistenceError("decode discount code", err)
	}
	return item.toDomain()
}

// Create stores a new code unless the id is already taken.
func (r *DynamoDiscountRepository) Create(ctx context.Context, d *discountDomain.DiscountCode) error {
	av, err := attributevalue.MarshalMap(discountItem{
		ID:         d.ID(),
		PercentOff: d.PercentOff().String(),
		Owner:      d.Owner(),
		Uses:       d.Uses(),
		IsActive:   d.IsActive(),
		MaxUses:    d.MaxUses(),
		ExpiresAt:  d.ExpiresAt(),
		CreatedAt:  d.CreatedAt(),
	})
	if err != nil {
		return domain.NewPersistenceError("encode discount code", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var ccf *dynamodbtypes.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return discountDomain.ErrDiscountExists
		}
		return domain.NewPersistenceError("put discount code", err)
	}
	return nil
}

// IncrementUses applies delta with an atomic ADD. A decrement that would take
// the counter below zero clamps it to zero instead.
func (r *DynamoDiscountRepository) IncrementUses(ctx context.Context, code string, delta int) error {
	values := map[string]dynamodbtypes.AttributeValue{
		":d": &dynamodbtypes.AttributeValueMemberN{Value: strconv.Itoa(delta)},
	}
	condition := "attribute_exists(id)"
	if delta < 0 {
		values[":floor"] = &dynamodbtypes.AttributeValueMemberN{Value: strconv.Itoa(-delta)}
		condition = "attribute_exists(id) AND uses >= :floor"
	}

	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       idKey(code),
		UpdateExpression:          aws.String("ADD uses :d"),
		ConditionExpression:       aws.String(condition),
		ExpressionAttributeValues: values,
	})
	if err == nil {
		return nil
	}

	var ccf *dynamodbtypes.ConditionalCheckFailedException
	if !errors.As(err, &ccf) {
		return domain.NewPersistenceError("increment discount uses", err)
	}
	if delta >= 0 {
		return discountDomain.ErrDiscountNotFound
	}
	return r.clampUses(ctx, code)
}

func (r *DynamoDiscountRepository) clampUses(ctx context.Context, code string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.table),
		Key:                 idKey(code),
		UpdateExpression:    aws.String("SET uses = :zero"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: map[string]dynamodbtypes.AttributeValue{
			":zero": &dynamodbtypes.AttributeValueMemberN{Value: "0"},
		},
	})
	if err != nil {
		var ccf *dynamodbtypes.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return discountDomain.ErrDiscountNotFound
		}
		return domain.NewPersistenceError("clamp discount uses", err)
	}
	return nil
}

// SetActive sets the isActive attribute on an existing code.
func (r *DynamoDiscountRepository) SetActive(ctx context.Context, code string, active bool) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.table),
		Key:                 idKey(code),
		UpdateExpression:    aws.String("SET isActive = :a"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: map[string]dynamodbtypes.AttributeValue{
			":a": &dynamodbtypes.AttributeValueMemberBOOL{Value: active},
		},
	})
	if err != nil {
		var ccf *dynamodbtypes.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return discountDomain.ErrDiscountNotFound
		}
		return domain.NewPersistenceError("update discount active flag", err)
	}
	return nil
}

// List returns every code, newest first.
func (r *DynamoDiscountRepository) List(ctx context.Context) ([]*discountDomain.DiscountCode, error) {
	items, err := scanAll(ctx, r.client, r.table)
	if err != nil {
		return nil, domain.NewPersistenceError("scan discount codes", err)
	}

	codes := make([]*discountDomain.DiscountCode, 0, len(items))
	for _, av := range items {
		var item discountItem
		if err := attributevalue.UnmarshalMap(av, &item); err != nil {
			return nil, domain.NewPersistenceError("decode discount code", err)
		}
		d, err := item.toDomain()
		if err != nil {
			return nil, err
		}
		codes = append(codes, d)
	}

	sort.Slice(codes, func(i, j int) bool { return codes[i].CreatedAt().After(codes[j].CreatedAt()) })
	return codes, nil
}

func (i discountItem) toDomain() (*discountDomain.DiscountCode, error) {
	pct, err := decimal.NewFromString(i.PercentOff)
	if err != nil {
		return nil, domain.NewPersistenceError("decode discount code", fmt.Errorf("percentOff %q: %w", i.PercentOff, err))
	}
	return discountDomain.Reconstruct(i.ID, pct, i.Owner, i.Uses, i.IsActive, i.MaxUses, i.ExpiresAt, i.CreatedAt), nil
}

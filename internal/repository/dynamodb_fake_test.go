package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is an in-memory DynamoDBAPI that understands only the
// expressions issued by this package.
type fakeDynamo struct {
	mu       sync.Mutex
	items    map[string]map[string]dynamodbtypes.AttributeValue
	pageSize int
	scans    int
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]dynamodbtypes.AttributeValue)}
}

func keyOf(key map[string]dynamodbtypes.AttributeValue) string {
	return key["id"].(*dynamodbtypes.AttributeValueMemberS).Value
}

func numberOf(av dynamodbtypes.AttributeValue) int {
	n, ok := av.(*dynamodbtypes.AttributeValueMemberN)
	if !ok {
		return 0
	}
	v, _ := strconv.Atoi(n.Value)
	return v
}

func conditionFailed() error {
	return &dynamodbtypes.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &dynamodb.GetItemOutput{Item: f.items[keyOf(in.Key)]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := keyOf(in.Item)
	if aws.ToString(in.ConditionExpression) == "attribute_not_exists(id)" {
		if _, ok := f.items[id]; ok {
			return nil, conditionFailed()
		}
	}
	f.items[id] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[keyOf(in.Key)]
	if !ok {
		return nil, conditionFailed()
	}
	uses := numberOf(item["uses"])

	switch cond := aws.ToString(in.ConditionExpression); cond {
	case "attribute_exists(id)":
	case "attribute_exists(id) AND uses >= :floor":
		if uses < numberOf(in.ExpressionAttributeValues[":floor"]) {
			return nil, conditionFailed()
		}
	default:
		return nil, fmt.Errorf("fake: unsupported condition %q", cond)
	}

	switch expr := aws.ToString(in.UpdateExpression); expr {
	case "SET isActive = :a":
		item["isActive"] = in.ExpressionAttributeValues[":a"]
		return &dynamodb.UpdateItemOutput{}, nil
	case "ADD uses :d":
		uses += numberOf(in.ExpressionAttributeValues[":d"])
	case "SET uses = :zero":
		uses = 0
	default:
		return nil, fmt.Errorf("fake: unsupported update %q", expr)
	}
	item["uses"] = &dynamodbtypes.AttributeValueMemberN{Value: strconv.Itoa(uses)}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scans++

	ids := make([]string, 0, len(f.items))
	for id := range f.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	start := 0
	if in.ExclusiveStartKey != nil {
		after := keyOf(in.ExclusiveStartKey)
		start = sort.SearchStrings(ids, after) + 1
	}
	end := len(ids)
	if f.pageSize > 0 && start+f.pageSize < end {
		end = start + f.pageSize
	}

	out := &dynamodb.ScanOutput{}
	for _, id := range ids[start:end] {
		out.Items = append(out.Items, f.items[id])
	}
	if end < len(ids) {
		out.LastEvaluatedKey = idKey(ids[end-1])
	}
	return out, nil
}

func (f *fakeDynamo) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if aws.ToString(in.TableName) == "" {
		return nil, &dynamodbtypes.ResourceNotFoundException{Message: aws.String("table not found")}
	}
	return &dynamodb.DescribeTableOutput{}, nil
}

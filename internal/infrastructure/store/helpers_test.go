package store

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

// fakeDynamo is an in-memory stand-in for the DynamoDB client
type fakeDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue

	GetErr error
	PutErr error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func (f *fakeDynamo) GetItem(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.GetErr != nil {
		return nil, f.GetErr
	}
	key, ok := params.Key["key"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing key attribute")
	}
	return &dynamodb.GetItemOutput{Item: f.items[*params.TableName+"/"+key.Value]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.PutErr != nil {
		return nil, f.PutErr
	}
	key, ok := params.Item["key"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing key attribute")
	}
	f.items[*params.TableName+"/"+key.Value] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDynamoStore_ItemLayout(t *testing.T) {
	client := newFakeDynamo()
	s := NewDynamoStore(client, "cart-storage")

	require.NoError(t, s.Set(context.Background(), "@RocketShoes:cart", []byte(`[]`)))

	item := client.items["cart-storage/@RocketShoes:cart"]
	require.NotNil(t, item)
	assert.Equal(t, "@RocketShoes:cart", item["key"].(*types.AttributeValueMemberS).Value)
	assert.Equal(t, "[]", item["value"].(*types.AttributeValueMemberS).Value)
	assert.NotEmpty(t, item["updated_at"].(*types.AttributeValueMemberS).Value)
}

func TestDynamoStore_ClientErrors(t *testing.T) {
	client := newFakeDynamo()
	client.GetErr = errors.New("throttled")
	client.PutErr = errors.New("throttled")
	s := NewDynamoStore(client, "cart-storage")

	_, ok, err := s.Get(context.Background(), "k")
	assert.ErrorContains(t, err, "failed to get item")
	assert.False(t, ok)

	err = s.Set(context.Background(), "k", []byte("v"))
	assert.ErrorContains(t, err, "failed to put item")
}

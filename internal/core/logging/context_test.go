package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Empty(t, GetClientID(ctx))
}

func TestClientID(t *testing.T) {
	ctx := WithClientID(context.Background(), "client-7")
	assert.Equal(t, "client-7", GetClientID(ctx))
	assert.Empty(t, GetRequestID(ctx))
}

func TestIDs_NotPresent(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
	assert.Empty(t, GetClientID(context.Background()))
}

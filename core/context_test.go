package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuppressHeader(t *testing.T) {
	base := context.Background()
	assert.False(t, shouldSuppressHeader(base))

	quiet := WithSuppressHeader(base)
	assert.True(t, shouldSuppressHeader(quiet))
	assert.False(t, shouldSuppressHeader(base), "parent context is not modified")

	wrongType := context.WithValue(base, suppressHeaderKey, "yes")
	assert.False(t, shouldSuppressHeader(wrongType))
}

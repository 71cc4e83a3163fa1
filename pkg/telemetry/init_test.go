package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
)

func TestInit_Success(t *testing.T) {
	shutdown, err := Init(context.Background(), "tweetgenie-test", "localhost:4318")
	assert.NoError(t, err)
	assert.NotNil(t, shutdown)
	assert.NotNil(t, otel.GetTracerProvider())

	shutdown()
}

func TestInit_EmptyTracingURL(t *testing.T) {
	shutdown, err := Init(context.Background(), "tweetgenie-test", "")
	assert.Error(t, err)
	assert.Nil(t, shutdown)
}

func TestInit_EmptyServiceName(t *testing.T) {
	shutdown, err := Init(context.Background(), "", "localhost:4318")
	assert.Error(t, err)
	assert.Nil(t, shutdown)
}

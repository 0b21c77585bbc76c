package drivetree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// The package tracer is bound at init, so this is the only test in the
// package that installs a provider; the global delegate is set once.
func TestIngestFolder_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))

	ing := NewIngestor(scenarioClient(), Options{}, testLogger())
	_, err := ing.IngestFolder(context.Background(), "R")
	require.NoError(t, err)

	f := newFakeTreeClient()
	_, err = NewIngestor(f, Options{}, testLogger()).IngestFolder(context.Background(), "missing")
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	ok := spans[0]
	assert.Equal(t, "drivetree.IngestFolder", ok.Name())
	assert.Contains(t, ok.Attributes(), attribute.String("drivetree.root_id", "R"))
	assert.Contains(t, ok.Attributes(), attribute.Int("drivetree.item_count", 4))
	assert.Equal(t, codes.Unset, ok.Status().Code)

	failed := spans[1]
	assert.Equal(t, codes.Error, failed.Status().Code)
	assert.NotEmpty(t, failed.Events(), "error is recorded as an event")
}

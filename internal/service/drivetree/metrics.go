package drivetree

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("materihub.drivetree")

var (
	// ingestDuration tracks whole-folder ingestion latency by outcome
	ingestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "materihub_ingest_duration_seconds",
		Help:    "Folder ingestion duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
	}, []string{"outcome"})

	// ingestItems tracks how many items one ingestion collected
	ingestItems = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "materihub_ingest_items",
		Help:    "Number of items collected per successful ingestion",
		Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000},
	})

	// decodeTotal counts metadata decodes by detected shape
	decodeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "materihub_metadata_decode_total",
		Help: "Stored folder metadata decodes by shape",
	}, []string{"shape"})
)

// outcomeLabel maps an error to the outcome label used by the ingestion metrics
func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	return "error"
}

func startIngestSpan(ctx context.Context, rootID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "drivetree.IngestFolder",
		trace.WithAttributes(attribute.String("drivetree.root_id", rootID)),
	)
}

// finishIngest records metrics and span status for one ingestion
func finishIngest(span trace.Span, start time.Time, itemCount int, err error) {
	ingestDuration.WithLabelValues(outcomeLabel(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	ingestItems.Observe(float64(itemCount))
	span.SetAttributes(attribute.Int("drivetree.item_count", itemCount))
}

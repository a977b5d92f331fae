package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestScorecardFailureIsRecordedOnSpan(t *testing.T) {
	s := newTestServer(t, nil)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "report.create")
	w := httptest.NewRecorder()
	s.writeScorecard(ctx, w, span, nil, nil, report.RenderOptions{})
	span.End()

	assert.Equal(t, http.StatusBadRequest, w.Code)

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.NotEmpty(t, ended[0].Events(), "error event on the span")
	assert.Contains(t, ended[0].Attributes(), attribute.String("error.type", "validation"))
}

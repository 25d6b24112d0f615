package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	otel.SetTracerProvider(tp)
	defer tp.Shutdown(context.Background())

	var inHandler trace.SpanContext
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/api/forms/:id", func(c *gin.Context) {
		inHandler = trace.SpanContextFromContext(c.Request.Context())
		c.Status(http.StatusInternalServerError)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/forms/quiz", nil))

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d", len(spans))
	}
	if spans[0].Name() != "GET /api/forms/:id" {
		t.Fatalf("span name = %q", spans[0].Name())
	}
	if !inHandler.IsValid() || inHandler.TraceID() != spans[0].SpanContext().TraceID() {
		t.Fatal("request context does not carry the span")
	}
	if spans[0].Status().Code != codes.Error {
		t.Fatalf("status = %v", spans[0].Status())
	}
}

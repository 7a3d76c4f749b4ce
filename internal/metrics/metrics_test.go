package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestGinMiddlewareLabelsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinMiddleware())
	router.GET("/v1/resume/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(requestTotal.WithLabelValues(http.MethodGet, "/v1/resume/:id", "204"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/resume/12", nil))

	after := testutil.ToFloat64(requestTotal.WithLabelValues(http.MethodGet, "/v1/resume/:id", "204"))
	if after != before+1 {
		t.Fatalf("expected counter to grow by one, got %v -> %v", before, after)
	}
}

func TestAsynqMiddlewareCountsFailures(t *testing.T) {
	handler := AsynqMetricsMiddleware()(asynq.HandlerFunc(func(context.Context, *asynq.Task) error {
		return errors.New("boom")
	}))

	before := testutil.ToFloat64(taskFailedTotal.WithLabelValues("test:fail"))
	if err := handler.ProcessTask(context.Background(), asynq.NewTask("test:fail", nil)); err == nil {
		t.Fatal("expected handler error to pass through")
	}
	if got := testutil.ToFloat64(taskFailedTotal.WithLabelValues("test:fail")); got != before+1 {
		t.Fatalf("expected failure counter to grow, got %v", got)
	}
}

func TestObserveExport(t *testing.T) {
	ObserveExport("raster", true, 2*time.Second)
	ObserveExport("raster", false, time.Second)
	if n := testutil.CollectAndCount(exportDuration); n < 2 {
		t.Fatalf("expected at least two series, got %d", n)
	}
}

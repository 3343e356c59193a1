package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRecordShoppingListRender(t *testing.T) {
	tests := []struct {
		name   string
		format string
		items  int
		err    error
		result string
	}{
		{name: "pdf success", format: "pdf", items: 3, result: "ok"},
		{name: "txt success", format: "txt", items: 0, result: "ok"},
		{name: "pdf failure", format: "pdf", err: errors.New("missing glyph"), result: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(ShoppingListRenders.WithLabelValues(tt.format, tt.result))
			RecordShoppingListRender(tt.format, tt.items, tt.err)
			after := testutil.ToFloat64(ShoppingListRenders.WithLabelValues(tt.format, tt.result))
			if after-before != 1 {
				t.Errorf("counter delta = %v, want 1", after-before)
			}
		})
	}
}

func TestRecordCache(t *testing.T) {
	before := testutil.ToFloat64(CacheRequests.WithLabelValues("tags", "hit"))
	RecordCache("tags", "hit")
	RecordCache("tags", "hit")
	if got := testutil.ToFloat64(CacheRequests.WithLabelValues("tags", "hit")) - before; got != 2 {
		t.Errorf("cache hit delta = %v, want 2", got)
	}
}

func TestGinMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/api/v1/recipes/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(Handler()))

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/recipes/:id", "204"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/recipes/42", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/recipes/:id", "204"))
	if after-before != 1 {
		t.Errorf("request counter delta = %v, want 1", after-before)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(w.Body.String(), "foodgram_http_requests_total") {
		t.Error("metrics endpoint does not expose foodgram_http_requests_total")
	}
}

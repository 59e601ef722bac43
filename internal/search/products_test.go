package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/painelquick/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeES struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
	search   string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/":
		_, _ = io.WriteString(w, `{"version":{"number":"9.0.0"}}`)
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = io.WriteString(w, f.search)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	default:
		_, _ = io.WriteString(w, `{"result":"created"}`)
	}
}

func connect(t *testing.T, f *fakeES) *Products {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	p, err := Connect(context.Background(), Config{URL: srv.URL, Index: "products"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return p
}

func TestIndexAndDelete(t *testing.T) {
	t.Parallel()
	f := &fakeES{}
	p := connect(t, f)
	ctx := context.Background()

	doc := models.ProductWithCategory{Product: models.Product{ID: 9, Name: "X-Burger", EstablishmentID: 2}, CategoryName: "Lanches"}
	require.NoError(t, p.IndexProduct(ctx, doc))
	require.NoError(t, p.DeleteProduct(ctx, 9), "missing documents are not an error")

	assert.Contains(t, f.requests, "PUT /products/_doc/9")
	assert.Contains(t, f.requests, "DELETE /products/_doc/9")
	assert.Contains(t, f.bodies, mustJSON(t, doc)+"\n")
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestSearchDecodesHits(t *testing.T) {
	t.Parallel()
	f := &fakeES{search: `{"hits":{"total":{"value":12},"hits":[
		{"_source":{"id":1,"name":"Pizza","price":40,"category_name":"Pizzas"}},
		{"_source":{"id":2,"name":"Pizza doce","price":35,"category_name":"Pizzas"}}]}}`}
	p := connect(t, f)

	total, out, err := p.SearchProducts(context.Background(), "piza", 3, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 12, total)
	require.Len(t, out, 2)
	assert.Equal(t, "Pizza doce", out[1].Name)
	assert.Equal(t, "Pizzas", out[0].CategoryName)
}

func TestQueryFiltersByEstablishment(t *testing.T) {
	t.Parallel()
	q := Query("burger", 0, 10, 5)
	b := q["query"].(map[string]any)["bool"].(map[string]any)
	_, filtered := b["filter"]
	assert.False(t, filtered)
	assert.Equal(t, 10, q["from"])

	q = Query("burger", 4, 0, 5)
	b = q["query"].(map[string]any)["bool"].(map[string]any)
	assert.Len(t, b["filter"], 1)
}

type stubSearcher struct {
	err   error
	total int64
	calls int
}

func (s *stubSearcher) SearchProducts(context.Context, string, uint, int, int) (int64, []models.ProductWithCategory, error) {
	s.calls++
	return s.total, nil, s.err
}

func TestFallbackUsesSecondaryOnError(t *testing.T) {
	t.Parallel()
	primary := &stubSearcher{err: errors.New("connection refused")}
	secondary := &stubSearcher{total: 3}
	w := &WithFallback{Primary: primary, Secondary: secondary}

	total, _, err := w.SearchProducts(context.Background(), "x", 0, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, 1, secondary.calls)

	primary.err = nil
	primary.total = 7
	total, _, err = w.SearchProducts(context.Background(), "x", 0, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	assert.Equal(t, 1, secondary.calls)
}

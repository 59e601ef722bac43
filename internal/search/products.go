// Package search keeps products in an Elasticsearch index and queries it.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
	"github.com/painelquick/backend/internal/models"
)

type Config struct {
	URL      string
	User     string
	Password string
	Index    string
}

type Products struct {
	ES    *elasticsearch.Client
	Index string
}

// Connect builds a client and checks the cluster answers.
func Connect(ctx context.Context, cfg Config, log *slog.Logger) (*Products, error) {
	log = log.With("component", "search")
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("search: new client: %w", err)
	}

	res, err := es.Info(es.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("search: info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("info", res)
	}

	log.Info("es_connected", "url", cfg.URL, "index", cfg.Index)
	return &Products{ES: es, Index: cfg.Index}, nil
}

func responseError(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	return fmt.Errorf("search: %s: %s: %s", op, res.Status(), bytes.TrimSpace(body))
}

func (p *Products) IndexProduct(ctx context.Context, doc models.ProductWithCategory) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return err
	}
	res, err := p.ES.Index(p.Index, &buf,
		p.ES.Index.WithContext(ctx),
		p.ES.Index.WithDocumentID(strconv.FormatUint(uint64(doc.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("search: index %d: %w", doc.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index", res)
	}
	return nil
}

func (p *Products) DeleteProduct(ctx context.Context, id uint) error {
	res, err := p.ES.Delete(p.Index, strconv.FormatUint(uint64(id), 10), p.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("search: delete %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return responseError("delete", res)
	}
	return nil
}

// Query builds the search body: a fuzzy match on name and description,
// optionally filtered to one establishment.
func Query(q string, establishmentID uint, from, size int) map[string]any {
	match := map[string]any{
		"multi_match": map[string]any{
			"query":     q,
			"fields":    []string{"name^2", "description"},
			"fuzziness": "AUTO",
		},
	}
	boolQ := map[string]any{"must": []any{match}}
	if establishmentID != 0 {
		boolQ["filter"] = []any{
			map[string]any{"term": map[string]any{"establishment_id": establishmentID}},
		}
	}
	return map[string]any{
		"query": map[string]any{"bool": boolQ},
		"from":  from,
		"size":  size,
	}
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source models.ProductWithCategory `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func decodeHits(r io.Reader) (int64, []models.ProductWithCategory, error) {
	var sr searchResponse
	if err := json.NewDecoder(r).Decode(&sr); err != nil {
		return 0, nil, fmt.Errorf("search: decode: %w", err)
	}
	out := make([]models.ProductWithCategory, len(sr.Hits.Hits))
	for i, h := range sr.Hits.Hits {
		out[i] = h.Source
	}
	return sr.Hits.Total.Value, out, nil
}

func (p *Products) SearchProducts(ctx context.Context, q string, establishmentID uint, offset, limit int) (int64, []models.ProductWithCategory, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(Query(q, establishmentID, offset, limit)); err != nil {
		return 0, nil, err
	}
	res, err := p.ES.Search(
		p.ES.Search.WithContext(ctx),
		p.ES.Search.WithIndex(p.Index),
		p.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: query: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseError("query", res)
	}
	return decodeHits(res.Body)
}

type fallbackSearcher interface {
	SearchProducts(ctx context.Context, q string, establishmentID uint, offset, limit int) (int64, []models.ProductWithCategory, error)
}

// WithFallback answers from Primary and falls back to Secondary when the
// index is unreachable.
type WithFallback struct {
	Primary   fallbackSearcher
	Secondary fallbackSearcher
	Log       *slog.Logger
}

func (w *WithFallback) SearchProducts(ctx context.Context, q string, establishmentID uint, offset, limit int) (int64, []models.ProductWithCategory, error) {
	total, out, err := w.Primary.SearchProducts(ctx, q, establishmentID, offset, limit)
	if err == nil {
		return total, out, nil
	}
	if w.Log != nil {
		w.Log.Warn("search_fallback", "component", "search", "error", err)
	}
	return w.Secondary.SearchProducts(ctx, q, establishmentID, offset, limit)
}

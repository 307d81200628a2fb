// Package searchindex mirrors active products into an Elasticsearch index
// for full-text search.
package searchindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/Skotchmaster/product_catalog/internal/models"
)

type Config struct {
	URL      string
	Username string
	Password string
	Index    string
	// Transport overrides the HTTP transport, mostly for tests.
	Transport http.RoundTripper
}

type Index struct {
	es    *elasticsearch.Client
	index string
}

const mapping = `{
  "mappings": {
    "properties": {
      "id":            {"type": "long"},
      "name":          {"type": "text"},
      "description":   {"type": "text"},
      "brand":         {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "category_id":   {"type": "long"},
      "category_name": {"type": "text"},
      "price":         {"type": "double"},
      "stock":         {"type": "integer"}
    }
  }
}`

// New connects to the cluster and creates the index when it is missing.
func New(ctx context.Context, cfg Config) (*Index, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: new client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("info", res)
	}

	ix := &Index{es: client, index: cfg.Index}
	if err := ix.ensureIndex(ctx); err != nil {
		return nil, err
	}
	return ix, nil
}

func (ix *Index) ensureIndex(ctx context.Context) error {
	res, err := ix.es.Indices.Exists([]string{ix.index}, ix.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch: index exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return responseError("index exists", res)
	}

	res, err = ix.es.Indices.Create(ix.index,
		ix.es.Indices.Create.WithContext(ctx),
		ix.es.Indices.Create.WithBody(bytes.NewReader([]byte(mapping))),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("create index", res)
	}
	return nil
}

type document struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Brand        string  `json:"brand"`
	CategoryID   uint    `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Price        float64 `json:"price"`
	Stock        int     `json:"stock"`
}

func (ix *Index) IndexProduct(ctx context.Context, p models.Product, categoryName string) error {
	price, _ := p.Price.Float64()
	body, err := json.Marshal(document{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Brand:        p.Brand,
		CategoryID:   p.CategoryID,
		CategoryName: categoryName,
		Price:        price,
		Stock:        p.Stock,
	})
	if err != nil {
		return err
	}

	res, err := ix.es.Index(ix.index, bytes.NewReader(body),
		ix.es.Index.WithContext(ctx),
		ix.es.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: index product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index product", res)
	}
	return nil
}

// DeleteProduct removes the document; a missing document is not an error.
func (ix *Index) DeleteProduct(ctx context.Context, id uint) error {
	res, err := ix.es.Delete(ix.index, strconv.FormatUint(uint64(id), 10), ix.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch: delete product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete product", res)
	}
	return nil
}

func responseError(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 1<<10))
	return fmt.Errorf("elasticsearch: %s: %s: %s", op, res.Status(), bytes.TrimSpace(body))
}

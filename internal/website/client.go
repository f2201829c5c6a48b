// Package website is the connector for the site's own datastore, reached
// through its PostgREST endpoint. The products table row is the canonical
// record: the raw upstream payload verbatim plus an internal id and handle.
package website

import (
	"encoding/json"
	"fmt"

	"github.com/supabase-community/postgrest-go"

	"merchsync/internal/config"
	"merchsync/internal/errs"
	"merchsync/internal/logger"
)

// BatchSize bounds each upsert request. One batch is one atomic request;
// a failing batch aborts the run without rolling back committed batches.
const BatchSize = 50

// Row is a products table row. ShopifyData holds the stored raw payload;
// FetchAll returns it unprojected and callers do any further mapping.
type Row struct {
	ID          string          `json:"id"`
	Handle      string          `json:"handle"`
	ShopifyData json.RawMessage `json:"shopify_data"`
}

type Client struct {
	rest   *postgrest.Client
	logger *logger.Logger
}

func NewClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		return nil, &errs.ConfigurationError{
			Platform: "website",
			Reason:   "SUPABASE_URL and SUPABASE_ANON_KEY must be set",
		}
	}

	rest := postgrest.NewClient(cfg.SupabaseURL+"/rest/v1", "", map[string]string{
		"apikey":        cfg.SupabaseKey,
		"Authorization": "Bearer " + cfg.SupabaseKey,
	})
	if rest.ClientError != nil {
		return nil, fmt.Errorf("failed to create datastore client: %w", rest.ClientError)
	}

	return &Client{rest: rest, logger: log}, nil
}

// FetchAll returns every stored product row.
func (c *Client) FetchAll() ([]Row, error) {
	data, _, err := c.rest.From("products").Select("*", "", false).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products from datastore: %w", err)
	}

	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode datastore rows: %w", err)
	}

	return rows, nil
}

// UpsertBatch writes rows in chunks of BatchSize, each chunk one atomic
// upsert with conflict target id. On a chunk failure it returns the count
// already committed and a WriteError carrying the failing batch index;
// committed chunks stay committed.
func (c *Client) UpsertBatch(rows []Row) (int, error) {
	committed := 0
	for i := 0; i < len(rows); i += BatchSize {
		end := min(i+BatchSize, len(rows))
		batch := rows[i:end]

		_, _, err := c.rest.From("products").Insert(batch, true, "id", "minimal", "").Execute()
		if err != nil {
			return committed, &errs.WriteError{Batch: i / BatchSize, Err: err}
		}
		committed += len(batch)

		c.logger.Debug("upserted batch %d (%d rows)", i/BatchSize, len(batch))
	}
	return committed, nil
}

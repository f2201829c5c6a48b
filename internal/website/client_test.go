package website

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchsync/internal/config"
	"merchsync/internal/errs"
	"merchsync/internal/logger"
)

// fakeDatastore fakes the PostgREST products endpoint with an in-memory
// table keyed on id, matching the upsert conflict target.
type fakeDatastore struct {
	mu         sync.Mutex
	rows       map[string]Row
	batchSizes []int
	failBatch  int // zero-based index of a batch to reject; -1 for none
}

func newFakeDatastore() *fakeDatastore {
	return &fakeDatastore{rows: make(map[string]Row), failBatch: -1}
}

func (f *fakeDatastore) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			out := make([]Row, 0, len(f.rows))
			for _, row := range f.rows {
				out = append(out, row)
			}
			json.NewEncoder(w).Encode(out)

		case http.MethodPost:
			var batch []Row
			if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			if len(f.batchSizes) == f.failBatch {
				f.batchSizes = append(f.batchSizes, len(batch))
				http.Error(w, `{"message":"deadlock detected"}`, http.StatusInternalServerError)
				return
			}
			f.batchSizes = append(f.batchSizes, len(batch))

			for _, row := range batch {
				f.rows[row.ID] = row
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`[]`))

		default:
			http.Error(w, "unexpected method", http.StatusMethodNotAllowed)
		}
	}
}

func testClient(t *testing.T, ds *fakeDatastore) *Client {
	t.Helper()
	srv := httptest.NewServer(ds.handler())
	t.Cleanup(srv.Close)

	client, err := NewClient(&config.Config{
		SupabaseURL: srv.URL,
		SupabaseKey: "anon-key",
	}, logger.New("error"))
	require.NoError(t, err)
	return client
}

func makeRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{
			ID:          fmt.Sprintf("shopify_%d", i),
			Handle:      fmt.Sprintf("product-%d", i),
			ShopifyData: json.RawMessage(`{"title":"p"}`),
		}
	}
	return rows
}

func TestNewClientRequiresConfig(t *testing.T) {
	_, err := NewClient(&config.Config{}, logger.New("error"))
	require.Error(t, err)

	var ce *errs.ConfigurationError
	assert.True(t, errors.As(err, &ce))
}

func TestUpsertBatchChunking(t *testing.T) {
	ds := newFakeDatastore()
	client := testClient(t, ds)

	count, err := client.UpsertBatch(makeRows(101))
	require.NoError(t, err)

	// 101 records with batch size 50: exactly three calls of 50, 50, 1.
	assert.Equal(t, 101, count)
	assert.Equal(t, []int{50, 50, 1}, ds.batchSizes)
	assert.Len(t, ds.rows, 101)
}

func TestUpsertBatchIsIdempotent(t *testing.T) {
	ds := newFakeDatastore()
	client := testClient(t, ds)
	rows := makeRows(3)

	count, err := client.UpsertBatch(rows)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = client.UpsertBatch(rows)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Upsert keyed on id: same input twice leaves the same table state.
	assert.Len(t, ds.rows, 3)
}

func TestUpsertBatchFailureReportsBatchIndex(t *testing.T) {
	ds := newFakeDatastore()
	ds.failBatch = 1
	client := testClient(t, ds)

	committed, err := client.UpsertBatch(makeRows(120))
	require.Error(t, err)

	var we *errs.WriteError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, 1, we.Batch)

	// The first batch stays committed; there is no rollback.
	assert.Equal(t, 50, committed)
	assert.Len(t, ds.rows, 50)
}

func TestFetchAllReturnsStoredRows(t *testing.T) {
	ds := newFakeDatastore()
	client := testClient(t, ds)

	_, err := client.UpsertBatch(makeRows(2))
	require.NoError(t, err)

	rows, err := client.FetchAll()
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	// The stored payload comes back verbatim, not reprojected.
	assert.JSONEq(t, `{"title":"p"}`, string(rows[0].ShopifyData))
}

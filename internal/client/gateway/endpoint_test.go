package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

func sharedServer(t *testing.T) *httptest.Server {
	t.Helper()
	var (
		mu     sync.Mutex
		stored []byte
	)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /shared-data/products.json", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if stored == nil {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(stored)
	})
	mux.HandleFunc("POST /shared-data/products.json", func(w http.ResponseWriter, r *http.Request) {
		var s models.Snapshot
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		stored, _ = json.Marshal(s)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTPSnapshotEndpoint_RoundTrip(t *testing.T) {
	ts := sharedServer(t)
	e := NewHTTPSnapshotEndpoint(ts.URL, "", time.Second)
	ctx := context.Background()

	got, err := e.Fetch(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	want := models.Snapshot{Products: []models.Product{{ID: "1", Name: "n", Description: "d"}}, Timestamp: 5}
	require.NoError(t, e.Store(ctx, want))

	got, err = e.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, &want, got)
}

func TestHTTPSnapshotEndpoint_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	e := NewHTTPSnapshotEndpoint(ts.URL, "", time.Second)
	_, err := e.Fetch(context.Background())
	require.Error(t, err)
	require.Error(t, e.Store(context.Background(), models.Snapshot{}))
}

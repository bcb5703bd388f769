package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	viper.Set("provider.base_url", srv.URL)
	t.Cleanup(func() { viper.Set("provider.base_url", "") })

	return NewClient()
}

func TestClient_RetrieveOrder(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v2/orders/prov-ord-1", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"order":{
			"id": "prov-ord-1",
			"state": "COMPLETED",
			"metadata": {"session_id": "123456789012345678901"},
			"line_items": [
				{"name": "Room tab #305-123456789012345678901", "catalog_object_id": "cat-var-1", "quantity": "1"}
			]
		}}`))
	}))

	ord, err := client.RetrieveOrder(context.Background(), "prov-ord-1")
	require.NoError(t, err)

	assert.Equal(t, "prov-ord-1", ord.ID)
	assert.True(t, ord.Completed())
	assert.Equal(t, "123456789012345678901", ord.Metadata["session_id"])
	require.Len(t, ord.LineItems, 1)
	assert.Equal(t, "cat-var-1", ord.LineItems[0].CatalogObjectID)
}

func TestClient_RetrieveOrder_UnwrappedResponse(t *testing.T) {
	// Some provider endpoints return the order object bare, without the
	// {"order": ...} wrapper.
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": "prov-ord-2", "state": "OPEN"}`))
	}))

	ord, err := client.RetrieveOrder(context.Background(), "prov-ord-2")
	require.NoError(t, err)

	assert.Equal(t, "prov-ord-2", ord.ID)
	assert.False(t, ord.Completed())
}

func TestClient_RetrieveOrder_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"errors":[{"code":"NOT_FOUND"}]}`, http.StatusNotFound)
	}))

	_, err := client.RetrieveOrder(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestClient_DisableCatalogItem(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/v2/catalog/items/cat-item-1/availability", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.DisableCatalogItem(context.Background(), "cat-item-1"))
	assert.Equal(t, map[string]any{"available": false}, gotBody)
}

package client_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khatapp/khata/internal/client"
	"github.com/khatapp/khata/internal/platform/config"
	"github.com/khatapp/khata/internal/query"
	"github.com/khatapp/khata/internal/store"
)

func newEngine() *query.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	records := store.NewRecordStore(store.NewMemoryStore(), logger)
	return query.NewEngine(records, logger)
}

// engineServer exposes an engine the way khatad's resource handler does, so
// a Remote client can be pointed at it.
func engineServer(t *testing.T, engine *query.Engine) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		resp := engine.Do(r.Context(), query.Request{
			Path:   r.URL.Path,
			Method: r.Method,
			Params: r.URL.Query(),
			Body:   body,
		})

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(resp.Status)
		if resp.OK() {
			w.Write(resp.Data)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"error": resp.Err})
	}))
}

// TestLocalAndRemoteSeeTheSameData drives one engine through both transports
// and checks they observe identical state and identical errors.
func TestLocalAndRemoteSeeTheSameData(t *testing.T) {
	ctx := context.Background()
	engine := newEngine()
	server := engineServer(t, engine)
	defer server.Close()

	local := client.NewLocal(engine)
	remote := client.NewRemote(server.URL, 5*time.Second)

	// Create through the remote transport.
	created := remote.Do(ctx, query.Request{
		Path:   "/categories",
		Method: http.MethodPost,
		Body:   json.RawMessage(`{"name":"Rent","type":"expense"}`),
	})
	require.Equal(t, http.StatusCreated, created.Status, created.Err)
	var item map[string]any
	require.NoError(t, created.Decode(&item))
	id := item["id"].(string)

	// Both transports must read it back identically.
	get := query.Request{Path: "/categories/" + id, Method: http.MethodGet}
	fromLocal := local.Do(ctx, get)
	fromRemote := remote.Do(ctx, get)
	require.Equal(t, http.StatusOK, fromLocal.Status)
	require.Equal(t, http.StatusOK, fromRemote.Status)

	var localItem, remoteItem map[string]any
	require.NoError(t, fromLocal.Decode(&localItem))
	require.NoError(t, fromRemote.Decode(&remoteItem))
	assert.Equal(t, localItem, remoteItem)

	// Errors carry the same status and message over both transports.
	missing := query.Request{Path: "/categories/no-such-id", Method: http.MethodGet}
	localErr := local.Do(ctx, missing)
	remoteErr := remote.Do(ctx, missing)
	assert.Equal(t, localErr.Status, remoteErr.Status)
	assert.Equal(t, localErr.Err, remoteErr.Err)

	badMethod := query.Request{Path: "/categories", Method: http.MethodDelete}
	assert.Equal(t, local.Do(ctx, badMethod).Status, remote.Do(ctx, badMethod).Status)
}

func TestRemotePassesQueryParams(t *testing.T) {
	ctx := context.Background()
	engine := newEngine()
	server := engineServer(t, engine)
	defer server.Close()

	remote := client.NewRemote(server.URL, 5*time.Second)
	for _, name := range []string{"a", "b", "c"} {
		resp := remote.Do(ctx, query.Request{
			Path:   "/categories",
			Method: http.MethodPost,
			Body:   json.RawMessage(`{"name":"` + name + `","type":"expense"}`),
		})
		require.Equal(t, http.StatusCreated, resp.Status, resp.Err)
	}

	resp := remote.Do(ctx, query.Request{
		Path:   "/categories",
		Method: http.MethodGet,
		Params: url.Values{"_limit": {"2"}, "_page": {"2"}},
	})
	require.Equal(t, http.StatusOK, resp.Status)
	var items []map[string]any
	require.NoError(t, resp.Decode(&items))
	assert.Len(t, items, 1, "page 2 of 3 items with limit 2")
}

func TestRemoteUnreachableServerFails(t *testing.T) {
	// A port nothing listens on; retries exhaust quickly with the tight timeout.
	remote := client.NewRemote("http://127.0.0.1:1", 100*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp := remote.Do(ctx, query.Request{Path: "/categories", Method: http.MethodGet})
	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.NotEmpty(t, resp.Err)
}

func TestNewSelectsTransportFromConfig(t *testing.T) {
	engine := newEngine()

	localClient := client.New(&config.Config{}, engine)
	assert.IsType(t, &client.Local{}, localClient)

	remoteClient := client.New(&config.Config{RemoteBaseURL: "http://localhost:8080"}, engine)
	assert.IsType(t, &client.Remote{}, remoteClient)
}

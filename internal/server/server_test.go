package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmans/library/internal/config"
	"github.com/hmans/library/internal/graph"
	"github.com/hmans/library/internal/librarycore"
	"github.com/hmans/library/internal/logging"
)

func setupTestSchema(t *testing.T) graphql.Schema {
	t.Helper()
	core, err := librarycore.New(logging.Discard())
	require.NoError(t, err)
	require.NoError(t, core.LoadSeed())
	t.Cleanup(func() { core.Close() })

	schema, err := graph.NewSchema(&graph.Resolver{Core: core, SearchLimit: 10})
	require.NoError(t, err)
	return schema
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func post(t *testing.T, h http.Handler, body any) (*httptest.ResponseRecorder, gqlResponse) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, Endpoint, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp gqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestPostQuery(t *testing.T) {
	h := Router(setupTestSchema(t), config.Default().Server, logging.Discard())

	rec, resp := post(t, h, map[string]any{
		"query": `{ book(id: 1) { name author { name } } }`,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp.Errors)
	assert.JSONEq(t,
		`{"book": {"name": "Harry Potter and the Chamber of Secrets", "author": {"name": "J. K. Rowling"}}}`,
		string(resp.Data),
	)
}

func TestPostMutationWithVariables(t *testing.T) {
	h := Router(setupTestSchema(t), config.Default().Server, logging.Discard())

	_, resp := post(t, h, map[string]any{
		"query":         `mutation AddAuthor($name: String!) { addAuthor(name: $name) { id name } }`,
		"variables":     map[string]any{"name": "Robin Hobb"},
		"operationName": "AddAuthor",
	})
	assert.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"addAuthor": {"id": 4, "name": "Robin Hobb"}}`, string(resp.Data))

	// State persists across requests for the process lifetime
	_, resp = post(t, h, map[string]any{"query": `{ authors { id } }`})
	assert.JSONEq(t, `{"authors": [{"id": 1}, {"id": 2}, {"id": 3}, {"id": 4}]}`, string(resp.Data))
}

func TestPostMalformed(t *testing.T) {
	h := Router(setupTestSchema(t), config.Default().Server, logging.Discard())

	_, resp := post(t, h, map[string]any{"query": `{ book(id: 1) { isbn } }`})
	require.NotEmpty(t, resp.Errors)
	assert.Contains(t, resp.Errors[0].Message, "isbn")
}

func TestGetServesPlayground(t *testing.T) {
	cfg := config.Default().Server
	cfg.Title = "Test Library"
	h := Router(setupTestSchema(t), cfg, logging.Discard())

	req := httptest.NewRequest(http.MethodGet, Endpoint, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Test Library")
}

func TestGetWithoutPlayground(t *testing.T) {
	cfg := config.Default().Server
	cfg.Playground = false
	h := Router(setupTestSchema(t), cfg, logging.Discard())

	q := url.Values{"query": {`{ author(id: 3) { name } }`}}
	req := httptest.NewRequest(http.MethodGet, Endpoint+"?"+q.Encode(), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp gqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.JSONEq(t, `{"author": {"name": "Brent Weeks"}}`, string(resp.Data))
}

func TestUnknownPath(t *testing.T) {
	h := Router(setupTestSchema(t), config.Default().Server, logging.Discard())

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	cfg := config.Default()
	srv := New(setupTestSchema(t), cfg, logging.Discard())
	srv.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, srv, logging.Discard()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewUsesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Port = 4321
	srv := New(setupTestSchema(t), cfg, logging.Discard())
	assert.Equal(t, ":4321", srv.Addr)
	assert.NotNil(t, srv.Handler)
}

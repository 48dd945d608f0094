package mockapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/hradmin/pkg/httpapi"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New(Options{Seed: true})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func do(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func TestList_TribesUseEnvelope(t *testing.T) {
	_, ts := newTestServer(t)

	resp, body := do(t, http.MethodGet, ts.URL+"/api/tribes", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env map[string][]map[string]any
	require.NoError(t, json.Unmarshal(body, &env))
	require.Len(t, env["tribes"], 3)
	assert.Equal(t, "ENG", env["tribes"][0]["short_code"])
}

func TestList_OthersAreBareArrays(t *testing.T) {
	_, ts := newTestServer(t)

	for _, path := range []string{"/api/relations", "/api/employment-statuses"} {
		resp, body := do(t, http.MethodGet, ts.URL+path, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		var rows []map[string]any
		require.NoError(t, json.Unmarshal(body, &rows), path)
		assert.Len(t, rows, 3, path)
	}
}

func TestCreate_ValidationAndConflict(t *testing.T) {
	s, ts := newTestServer(t)

	resp, body := do(t, http.MethodPost, ts.URL+"/api/tribes", map[string]string{"short_code": " ", "name": "X"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var env httpapi.ErrorEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	assert.Equal(t, "VALIDATION_FAILED", env.Code)
	assert.Contains(t, env.Meta, "short_code")

	resp, body = do(t, http.MethodPost, ts.URL+"/api/tribes", map[string]string{"short_code": "eng", "name": "Dup"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &env))
	assert.Equal(t, "CONFLICT", env.Code)
	assert.Equal(t, "short_code already exists", env.Message)

	resp, _ = do(t, http.MethodPost, ts.URL+"/api/tribes", map[string]string{"bogus": "1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	assert.Len(t, s.Tribes.List(), 3)
}

func TestCreateUpdateDelete(t *testing.T) {
	s, ts := newTestServer(t)

	resp, body := do(t, http.MethodPost, ts.URL+"/api/employment-statuses", map[string]string{"name": "  Intern "})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]any
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "4", created["id"])
	assert.Equal(t, "Intern", created["name"])

	resp, body = do(t, http.MethodPut, ts.URL+"/api/employment-statuses/4", map[string]string{"name": "Trainee"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":"4","name":"Trainee"}`, string(body))

	resp, _ = do(t, http.MethodPut, ts.URL+"/api/employment-statuses/4", map[string]string{"name": "contractor"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = do(t, http.MethodDelete, ts.URL+"/api/employment-statuses/4", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Len(t, s.EmploymentStatuses.List(), 3)

	resp, body = do(t, http.MethodDelete, ts.URL+"/api/employment-statuses/4", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var env httpapi.ErrorEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	assert.Equal(t, "NOT_FOUND", env.Code)
	assert.NotEmpty(t, env.Meta["request_id"])
}

func TestUnknownRouteAnswersJSON(t *testing.T) {
	_, ts := newTestServer(t)

	resp, body := do(t, http.MethodGet, ts.URL+"/api/unknown", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var env httpapi.ErrorEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	assert.Equal(t, "NOT_FOUND", env.Code)

	resp, _ = do(t, http.MethodPatch, ts.URL+"/api/tribes", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	resp, _ := do(t, http.MethodGet, ts.URL+"/debug/prometheus", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPreflightFromAllowedOrigin(t *testing.T) {
	s := New(Options{Seed: true, AllowedOrigins: []string{"http://localhost:3000"}})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/tribes/1", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}

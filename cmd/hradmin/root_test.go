package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/hradmin/internal/mockapi"
	"github.com/iota-uz/hradmin/modules/hrm/domain/entities/tribe"
	"github.com/iota-uz/hradmin/pkg/configuration"
	"github.com/iota-uz/hradmin/pkg/listview"
	"github.com/iota-uz/hradmin/pkg/spotlight"
)

type cliRun struct {
	stdout string
	stderr string
	err    error
}

func (r cliRun) code() int { return exitCode(r.err) }

func startAPI(t *testing.T) (*mockapi.Server, string) {
	t.Helper()
	api := mockapi.New(mockapi.Options{Seed: true})
	ts := httptest.NewServer(api.Handler())
	t.Cleanup(ts.Close)
	return api, ts.URL + "/api"
}

func runCLI(t *testing.T, baseURL string, args ...string) cliRun {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("API_BASE_URL", baseURL)
	t.Setenv("PAGE_SIZE", "2")

	conf, err := configuration.Load(nil)
	require.NoError(t, err)
	t.Cleanup(conf.Unload)

	var stdout, stderr bytes.Buffer
	opts := &rootOptions{stdout: &stdout, stderr: &stderr, conf: conf}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return cliRun{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestList_TableWithFilter(t *testing.T) {
	_, url := startAPI(t)

	res := runCLI(t, url, "tribes", "list", "--name", "eng")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "SHORT CODE")
	assert.Contains(t, res.stdout, "Engineering")
	assert.NotContains(t, res.stdout, "Sales")
	assert.Contains(t, res.stdout, "page 1/1 · 1 of 3")
}

func TestList_JSONUsesDefaultPageSize(t *testing.T) {
	_, url := startAPI(t)

	res := runCLI(t, url, "relations", "list", "-o", "json", "--page", "2")
	require.NoError(t, res.err)

	var w listview.Window[map[string]string]
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &w))
	assert.Equal(t, 2, w.Page)
	assert.Equal(t, 2, w.PageSize)
	assert.Equal(t, 2, w.PageCount)
	require.Len(t, w.Items, 1)
	assert.Equal(t, "Parent", w.Items[0]["name"])
}

func TestList_UsageErrors(t *testing.T) {
	_, url := startAPI(t)

	assert.Equal(t, exitUsage, runCLI(t, url, "tribes", "list", "--page", "0").code())
	assert.Equal(t, exitUsage, runCLI(t, url, "tribes", "list", "--page-size", "501").code())
	assert.Equal(t, exitUsage, runCLI(t, url, "tribes", "list", "-o", "xml").code())
	assert.Equal(t, exitUsage, runCLI(t, url, "tribes", "list", "--bogus").code())
	assert.Equal(t, exitUsage, runCLI(t, url, "tribes", "get").code())
}

func TestCreate_SuccessPrintsNotification(t *testing.T) {
	api, url := startAPI(t)

	res := runCLI(t, url, "tribes", "create", "--short-code", "HR", "--name", " People ", "-o", "json")
	require.NoError(t, res.err)

	var created tribe.Tribe
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &created))
	assert.Equal(t, "People", created.Name)
	assert.Contains(t, res.stderr, "✓ Tribe created: The tribe was created successfully.")
	assert.Len(t, api.Tribes.List(), 4)
}

func TestCreate_LocalValidationExitsTwo(t *testing.T) {
	api, url := startAPI(t)

	res := runCLI(t, url, "tribes", "create", "--name", "Nameless")
	assert.Equal(t, exitValidation, res.code())
	assert.Contains(t, res.err.Error(), "short_code")
	assert.Contains(t, res.stderr, "✗ Failed to create tribe: Please correct the highlighted fields.")
	assert.Len(t, api.Tribes.List(), 3)
}

func TestCreate_ServerConflictExitsTwo(t *testing.T) {
	_, url := startAPI(t)

	res := runCLI(t, url, "employment-statuses", "create", "--name", "full-time")
	assert.Equal(t, exitValidation, res.code())
	assert.Contains(t, res.stderr, "Failed to create employment status")
}

func TestUpdate_KeepsUnsetFields(t *testing.T) {
	api, url := startAPI(t)

	res := runCLI(t, url, "relations", "update", "1", "--name", "Partner")
	require.NoError(t, res.err)

	row, ok := api.Relations.Get("1")
	require.True(t, ok)
	assert.Equal(t, "SPO", row.ShortCode)
	assert.Equal(t, "Partner", row.Name)
}

func TestGetAndDelete(t *testing.T) {
	api, url := startAPI(t)

	res := runCLI(t, url, "tribes", "get", "404")
	assert.Equal(t, exitRemote, res.code())

	res = runCLI(t, url, "tribes", "delete", "2", "-o", "yaml")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "status: deleted")
	assert.Contains(t, res.stdout, "id: \"2\"")
	assert.Len(t, api.Tribes.List(), 2)
	assert.Contains(t, res.stderr, "Tribe deleted")
}

func TestExport_WritesFilteredRows(t *testing.T) {
	_, url := startAPI(t)
	file := filepath.Join(t.TempDir(), "tribes.xlsx")

	res := runCLI(t, url, "tribes", "export", "--file", file, "--short-code", "s", "-o", "json")
	require.NoError(t, res.err)
	assert.JSONEq(t, `{"status":"exported","file":"`+file+`","rows":2}`, res.stdout)

	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestFind(t *testing.T) {
	_, url := startAPI(t)

	res := runCLI(t, url, "find", "contract", "-o", "json")
	require.NoError(t, res.err)
	var items []spotlight.Item
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "employment-status", items[0].Kind)

	assert.Equal(t, exitUsage, runCLI(t, url, "find").code())
}

func TestRemoteUnavailableExitsFour(t *testing.T) {
	ts := httptest.NewServer(nil)
	url := ts.URL + "/api"
	ts.Close()

	res := runCLI(t, url, "tribes", "list")
	assert.Equal(t, exitRemote, res.code())
}

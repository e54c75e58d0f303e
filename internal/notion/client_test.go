package notion_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/sleeprelay/internal"
	"github.com/yourname/sleeprelay/internal/notion"
)

type captured struct {
	method  string
	path    string
	headers http.Header
	body    []byte
}

func newTestClient(t *testing.T, status int, reply string) (*notion.Client, *captured) {
	t.Helper()
	got := &captured{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.headers = r.Header.Clone()
		got.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(ts.Close)

	c := notion.NewClient(context.Background(), notion.Options{
		BaseURL: ts.URL + "/v1/",
		Token:   "secret-token",
		Timeout: 2 * time.Second,
	})
	return c, got
}

func TestCreatePage_SendsHeadersAndBody(t *testing.T) {
	c, got := newTestClient(t, http.StatusOK, `{"id":"page-1"}`)

	resp, err := c.CreatePage(context.Background(), notion.CreatePageRequest{
		Parent: notion.Parent{DatabaseID: "db-1"},
		Properties: map[string]notion.Property{
			"Default Title Column": {Title: notion.PlainText("Sleep Entry")},
			"Sleep Time":           {Date: &notion.DateValue{Start: "2024-01-01T23:00:00Z"}},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.JSONEq(t, `{"id":"page-1"}`, string(resp.Body))

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/v1/pages", got.path)
	assert.Equal(t, "Bearer secret-token", got.headers.Get("Authorization"))
	assert.Equal(t, notion.DefaultVersion, got.headers.Get("Notion-Version"))
	assert.Equal(t, "application/json", got.headers.Get("Content-Type"))
	assert.JSONEq(t, `{
		"parent": {"database_id": "db-1"},
		"properties": {
			"Default Title Column": {"title": [{"text": {"content": "Sleep Entry"}}]},
			"Sleep Time": {"date": {"start": "2024-01-01T23:00:00Z"}}
		}
	}`, string(got.body))
}

func TestUpdatePage_UsesPatch(t *testing.T) {
	c, got := newTestClient(t, http.StatusOK, `{"id":"page-1"}`)
	hours := 7.5

	_, err := c.UpdatePage(context.Background(), "page-1", notion.UpdatePageRequest{
		Properties: map[string]notion.Property{
			"Wake Time":   {Date: &notion.DateValue{Start: "2024-01-02T06:30:00Z"}},
			"Hours Slept": {Number: &hours},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, got.method)
	assert.Equal(t, "/v1/pages/page-1", got.path)
	assert.JSONEq(t, `{"properties":{"Wake Time":{"date":{"start":"2024-01-02T06:30:00Z"}},"Hours Slept":{"number":7.5}}}`, string(got.body))
}

func TestQueryDatabase_DecodesResults(t *testing.T) {
	reply := `{
		"object": "list",
		"results": [
			{"id": "p1", "created_time": "2024-01-01T23:00:00.000Z", "properties": {
				"Sleep Time": {"id": "a", "type": "date", "date": {"start": "2024-01-01T23:00:00.000+00:00", "end": null, "time_zone": null}},
				"Wake Time": {"id": "b", "type": "date", "date": null},
				"Hours Slept": {"id": "c", "type": "number", "number": null}
			}}
		],
		"has_more": false,
		"next_cursor": null
	}`
	c, got := newTestClient(t, http.StatusOK, reply)

	resp, out, err := c.QueryDatabase(context.Background(), "db-1", notion.QueryRequest{
		Sorts: []notion.Sort{{Timestamp: "created_time", Direction: "descending"}},
	})
	require.NoError(t, err)
	require.True(t, resp.OK())
	require.NotNil(t, out)
	assert.Equal(t, "/v1/databases/db-1/query", got.path)
	assert.JSONEq(t, `{"sorts":[{"timestamp":"created_time","direction":"descending"}]}`, string(got.body))

	assert.False(t, out.HasMore)
	require.Len(t, out.Results, 1)
	props := out.Results[0].Properties
	require.NotNil(t, props["Sleep Time"].Date)
	assert.Equal(t, "2024-01-01T23:00:00.000+00:00", props["Sleep Time"].Date.Start)
	assert.Nil(t, props["Wake Time"].Date)
	assert.Nil(t, props["Hours Slept"].Number)
}

func TestQueryDatabase_NonOKReturnsRawBody(t *testing.T) {
	c, _ := newTestClient(t, http.StatusNotFound, `{"object":"error","code":"object_not_found"}`)

	resp, out, err := c.QueryDatabase(context.Background(), "missing", notion.QueryRequest{})
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Equal(t, http.StatusNotFound, resp.Status)

	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Body, &body))
	assert.Equal(t, "object_not_found", body["code"])
}

func TestQueryDatabase_MalformedBody(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, `not json`)

	_, _, err := c.QueryDatabase(context.Background(), "db-1", notion.QueryRequest{})
	require.Error(t, err)
	assert.Equal(t, internal.KindTransport, internal.AsAppError(err).Kind)
}

func TestDo_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	c := notion.NewClient(context.Background(), notion.Options{BaseURL: url, Token: "t"})
	_, err := c.CreatePage(context.Background(), notion.CreatePageRequest{})
	require.Error(t, err)
	appErr := internal.AsAppError(err)
	assert.Equal(t, internal.KindTransport, appErr.Kind)
	assert.Equal(t, http.StatusBadGateway, appErr.Status)
}

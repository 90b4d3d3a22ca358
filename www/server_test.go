package www

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/angas/chartdef-go/catalog"
	"github.com/angas/chartdef-go/charts"
	"github.com/angas/chartdef-go/config"
	"github.com/angas/chartdef-go/database"
	"github.com/angas/chartdef-go/render"
	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var salesYAML = heredoc.Doc(`
	id: sales
	library: highcharts
	chart:
	  type: line
	  title: Sales
	series:
	  - title: S1
	    data: [1, 2, 3]
	axes:
	  - kind: x
	    labels: [Jan, Feb, Mar]
`)

var rotatedYAML = heredoc.Doc(`
	id: rotated
	chart:
	  type: line
	series:
	  - title: S1
	    data: [1, 2]
	axes:
	  - kind: x
	    rotation: 15
`)

type fakeLogStore struct {
	rows []database.LogEntryRow
}

func (f fakeLogStore) GetLogEntries(_ context.Context, q database.LogQuery) (database.LogPage, error) {
	var page database.LogPage
	for _, r := range f.rows {
		if r.Level >= q.MinLevel && strings.Contains(r.Message, q.Contains) {
			page.Entries = append(page.Entries, r)
		}
	}
	page.Total = len(page.Entries)
	return page, nil
}

func newTestServer(t *testing.T) (*Server, *httptest.Server, *http.Client) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sales.yaml"), []byte(salesYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rotated.yaml"), []byte(rotatedYAML), 0o644))

	logger := slog.New(slog.DiscardHandler)
	cat, err := catalog.Open(dir, logger)
	require.NoError(t, err)

	service := charts.New(logger, cat, render.Default(), nil, charts.Defaults{Library: "billboard"})
	key := "0123456789abcdef0123456789abcdef"
	logs := fakeLogStore{rows: []database.LogEntryRow{
		{Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), Level: slog.LevelInfo, Message: "started"},
		{Timestamp: time.Date(2026, 1, 2, 3, 4, 6, 0, time.UTC), Level: slog.LevelError, Message: "failed", Attrs: `[{"chart":"x"}]`},
	}}
	s := NewServer(service, logs, config.AppConfigApi{SessionKey: &key})

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return s, srv, &http.Client{Jar: jar}
}

func get(t *testing.T, client *http.Client, u string) (*http.Response, []byte) {
	t.Helper()
	resp, err := client.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestChartsHandler(t *testing.T) {
	_, srv, client := newTestServer(t)

	resp, body := get(t, client, srv.URL+"/charts")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []chartSummary
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, []chartSummary{
		{ID: "rotated", Type: "line"},
		{ID: "sales", Title: "Sales", Type: "line", Library: "highcharts"},
	}, list)
}

func TestChartHandler(t *testing.T) {
	_, srv, client := newTestServer(t)

	tests := []struct {
		name    string
		path    string
		status  int
		library string
	}{
		{"document library", "/charts/sales", http.StatusOK, "highcharts"},
		{"requested library", "/charts/sales?library=chartjs", http.StatusOK, "chartjs"},
		{"invalid rotation", "/charts/rotated?library=", http.StatusUnprocessableEntity, ""},
		{"unknown chart", "/charts/missing", http.StatusNotFound, ""},
		{"unknown library", "/charts/sales?library=plotly", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, client, srv.URL+tt.path)
			assert.Equal(t, tt.status, resp.StatusCode, string(body))
			assert.Equal(t, tt.library, resp.Header.Get("X-Chart-Library"))
			assert.True(t, json.Valid(body), "expected a JSON body, got %s", body)
		})
	}

	t.Run("method not allowed", func(t *testing.T) {
		resp, err := client.Post(srv.URL+"/charts/sales", "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("not modified", func(t *testing.T) {
		resp, _ := get(t, client, srv.URL+"/charts/sales")
		etag := resp.Header.Get("ETag")
		require.NotEmpty(t, etag)

		req, err := http.NewRequest(http.MethodGet, srv.URL+"/charts/sales", nil)
		require.NoError(t, err)
		req.Header.Set("If-None-Match", etag)
		resp, err = client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotModified, resp.StatusCode)
	})
}

func TestPreviewHandler(t *testing.T) {
	_, srv, client := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"valid", `{"chart": {"type": "pie"}, "series": [{"data": [["A", 1], ["B", 2]]}]}`, http.StatusOK},
		{"schema violation", `{"chart": {"type": "pie", "colour": "red"}}`, http.StatusUnprocessableEntity},
		{"chart error", `{"chart": {"type": "line"}, "series": [{"data": [1]}], "axes": [{"kind": "x"}, {"kind": "x"}]}`, http.StatusUnprocessableEntity},
		{"not a document", `{"chart": [`, http.StatusBadRequest},
		{"absolute workbook", `{"chart": {"type": "line"}, "source": {"xlsx": {"path": "/etc/data.xlsx"}}}`, http.StatusUnprocessableEntity},
		{"workbook outside catalog", `{"chart": {"type": "line"}, "source": {"xlsx": {"path": "../../data.xlsx"}}}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.Post(srv.URL+"/preview?library=highcharts", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode, string(body))
		})
	}

	resp, _ := get(t, client, srv.URL+"/preview")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestLibraryPreference(t *testing.T) {
	_, srv, client := newTestServer(t)

	resp, err := client.PostForm(srv.URL+"/library", url.Values{"library": {"plotly"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = client.PostForm(srv.URL+"/library", url.Values{"library": {"ChartJS"}})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body := get(t, client, srv.URL+"/libraries")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"libraries": ["billboard", "chartjs", "highcharts"], "selected": "chartjs"}`, string(body))

	resp, _ = get(t, client, srv.URL+"/charts/sales")
	assert.Equal(t, "chartjs", resp.Header.Get("X-Chart-Library"))

	resp, _ = get(t, client, srv.URL+"/charts/sales?library=billboard")
	assert.Equal(t, "billboard", resp.Header.Get("X-Chart-Library"))

	resp, err = client.PostForm(srv.URL+"/library", url.Values{"library": {""}})
	require.NoError(t, err)
	resp.Body.Close()
	resp, _ = get(t, client, srv.URL+"/charts/sales")
	assert.Equal(t, "highcharts", resp.Header.Get("X-Chart-Library"))
}

func TestLogHandler(t *testing.T) {
	_, srv, client := newTestServer(t)

	resp, body := get(t, client, srv.URL+"/log?level=error&pageSize=10")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{
		"page": 1,
		"pageSize": 10,
		"total": 1,
		"entries": [{"timestamp": "2026-01-02T03:04:06Z", "level": "ERROR", "message": "failed", "attrs": "[{\"chart\":\"x\"}]"}]
	}`, string(body))

	resp, body = get(t, client, srv.URL+"/log?q=start")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"total":1`)
	assert.Contains(t, string(body), `"message":"started"`)
}

func TestWebSocket(t *testing.T) {
	s, srv, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.hub.Run(ctx)

	conn, _, err := ws.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return s.hub.Clients() == 1 }, 5*time.Second, 10*time.Millisecond)

	s.ChartsChanged(ctx, []string{"sales", "missing"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "sales", msg.Chart)
	assert.Equal(t, "highcharts", msg.Library)
	assert.Contains(t, string(msg.Definition), `"Sales"`)

	cancel()
	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "expected the connection to close with the hub")
}

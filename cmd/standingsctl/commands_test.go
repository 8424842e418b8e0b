package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/getstandings/internal/app"
	"github.com/riskibarqy/getstandings/internal/config"
	"github.com/riskibarqy/getstandings/internal/domain/standings"
	"github.com/riskibarqy/getstandings/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedBlob = `{"query":{"count":3,"results":{"td":[` +
	`{"content":"Alpha"},{"content":"3"},{"content":"1"}]}}}`

func newTestCLI(t *testing.T, sourceURL string) *cli {
	t.Helper()

	cfg := config.Config{
		AppEnv:                   config.EnvDev,
		ServiceName:              "standingsctl-test",
		ServiceVersion:           "test",
		HTTPAddr:                 "127.0.0.1:0",
		StoreBackend:             config.StoreMemory,
		StandingsSourceURL:       sourceURL,
		StandingsOptionKey:       standings.DefaultOptionKey,
		StandingsTaskID:          standings.DefaultRefreshTaskID,
		StandingsFirstFireDelay:  15 * time.Second,
		StandingsRefreshInterval: time.Hour,
		StandingsFetchTimeout:    time.Second,
	}

	c := &cli{load: func(ctx context.Context, _ bool) (*app.App, error) {
		return app.New(ctx, cfg, logging.NewNop())
	}}
	t.Cleanup(c.close)
	return c
}

func execute(t *testing.T, c *cli, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := c.rootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRowsCommand_PrintsDefaultStandings(t *testing.T) {
	c := newTestCLI(t, "http://127.0.0.1:1/feed")

	out, err := execute(t, c, "rows")
	require.NoError(t, err)
	assert.Contains(t, out, "Buda Hays Rebels")
	assert.Contains(t, out, "0.833")
}

func TestRenderCommand_WritesDebugNote(t *testing.T) {
	c := newTestCLI(t, "http://127.0.0.1:1/feed")

	out, err := execute(t, c, "render", "--debug")
	require.NoError(t, err)
	assert.Contains(t, out, "Event re-scheduled")
	assert.Contains(t, out, "Buda Hays Rebels")
}

func TestRefreshCommand_ReplacesCache(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(feedBlob))
	}))
	t.Cleanup(feed.Close)
	c := newTestCLI(t, "http://127.0.0.1:1/feed")

	out, err := execute(t, c, "refresh", "--source-url", feed.URL)
	require.NoError(t, err)
	assert.Contains(t, out, feed.URL)

	rows := c.app.StandingsService().Rows(context.Background())
	require.Len(t, rows, 1)
	assert.Equal(t, "Alpha", rows[0].TeamName)
}

func TestRefreshCommand_ReportsFetchFailure(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(feed.Close)
	c := newTestCLI(t, feed.URL)

	_, err := execute(t, c, "refresh")
	require.Error(t, err)
	assert.True(t, standings.IsFetchError(err))
}

func TestScheduleLifecycleCommands(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(feedBlob))
	}))
	t.Cleanup(feed.Close)
	c := newTestCLI(t, feed.URL)

	out, err := execute(t, c, "activate")
	require.NoError(t, err)
	assert.Contains(t, out, standings.DefaultRefreshTaskID)

	out, err = execute(t, c, "schedule")
	require.NoError(t, err)
	assert.Contains(t, out, "true")

	out, err = execute(t, c, "deactivate")
	require.NoError(t, err)
	assert.Contains(t, out, "deactivated "+standings.DefaultRefreshTaskID)
}

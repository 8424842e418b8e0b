package observability

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/riskibarqy/getstandings/internal/config"
	"github.com/riskibarqy/getstandings/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart_AllDisabled(t *testing.T) {
	cfg := config.Config{
		ServiceName:    "getstandings-api",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	telemetry, err := Start(cfg, logging.NewNop())
	require.NoError(t, err)
	assert.Nil(t, telemetry.pprofServer)
	require.NoError(t, telemetry.Shutdown(context.Background()))
}

func TestStartTracing_EnabledWithoutDSN(t *testing.T) {
	shutdown, err := startTracing(config.Config{UptraceEnabled: true, UptraceDSN: "  "}, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestStart_PprofServesIndex(t *testing.T) {
	cfg := config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}

	telemetry, err := Start(cfg, logging.NewNop())
	require.NoError(t, err)
	require.NotNil(t, telemetry.pprofServer)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = telemetry.Shutdown(ctx)
	})

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + telemetry.pprofServer.Addr + "/debug/pprof/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStart_PprofBadAddress(t *testing.T) {
	_, err := Start(config.Config{PprofEnabled: true, PprofAddr: "not-an-address"}, logging.NewNop())
	require.Error(t, err)
}

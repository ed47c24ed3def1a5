package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/counter-reconciler/internal/board"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reconciler.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestValidateCommand(t *testing.T) {
	path := writeConfig(t, `
monitor:
  name: eplf-zd
  variant: a
  source:
    base_url: http://127.0.0.1:5000
`)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"validate", path})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "config ok\n", out.String())
}

func TestValidateCommand_Invalid(t *testing.T) {
	path := writeConfig(t, `
monitor:
  name: eplf-zd
  variant: z
`)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"validate", path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
	assert.Contains(t, err.Error(), "monitor.variant")
}

func TestRun_EndToEnd(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"eplf_log_all":110,"zd_log_all":100,"zd_invalid_log_all":10,` +
			`"zd_payment_all":50,"eplf_log_validated":50,"zd_log_validated":50,"eplf_payment_all":50}`))
	}))
	defer backend.Close()

	addr := freeAddr(t)
	cfg, err := loadConfig(writeConfig(t, `
monitor:
  name: concept-2
  variant: b
  source:
    base_url: `+backend.URL+`
  poll:
    interval_ms: 3600000
dashboard:
  address: `+addr+`
logging:
  level: error
  format: json
`), "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg) }()

	var recs []board.Record
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/api/records")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		recs = nil
		return json.NewDecoder(resp.Body).Decode(&recs) == nil && len(recs) == 1
	}, 5*time.Second, 20*time.Millisecond)
	assert.True(t, recs[0].Consistent)

	resp, err := http.Get("http://" + addr + "/")
	require.NoError(t, err)
	var page bytes.Buffer
	_, _ = page.ReadFrom(resp.Body)
	resp.Body.Close()
	assert.True(t, strings.Contains(page.String(), `<tr class="green-row">`))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop")
	}
}

func TestRun_FailingBackendAppendsNothing(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer backend.Close()

	addr := freeAddr(t)
	cfg, err := loadConfig(writeConfig(t, `
monitor:
  name: concept-1
  variant: a
  source:
    base_url: `+backend.URL+`
    timeout_ms: 40
  poll:
    interval_ms: 50
dashboard:
  address: `+addr+`
logging:
  level: error
`), "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg) }()

	var status map[string]any
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/api/status")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		status = nil
		return json.NewDecoder(resp.Body).Decode(&status) == nil && status["health"] == "stale"
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, float64(500), status["last_error_code"])
	assert.Equal(t, float64(0), status["records"])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop")
	}
}

func TestRunCommand_InvalidLogLevelFlag(t *testing.T) {
	path := writeConfig(t, `
monitor:
  name: eplf-zd
  variant: a
  source:
    base_url: http://127.0.0.1:5000
`)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"run", "--log-level=verbose", path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
	assert.Contains(t, err.Error(), `logging.level "verbose"`)
}

func TestLoadConfig_LogLevelOverride(t *testing.T) {
	path := writeConfig(t, `
monitor:
  name: eplf-zd
  variant: a
  source:
    base_url: http://127.0.0.1:5000
logging:
  level: info
`)

	cfg, err := loadConfig(path, "debug")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

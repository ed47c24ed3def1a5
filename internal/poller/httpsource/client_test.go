package httpsource

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/counter-reconciler/internal/reconcile"
)

func TestFetch(t *testing.T) {
	fixture := map[string]any{
		"eplf_payment_all":   10,
		"eplf_log_all":       100,
		"eplf_log_faulty":    5,
		"eplf_log_validated": 95,
		"zd_payment_all":     95,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/update_data", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(fixture)
	}))
	defer srv.Close()

	c, err := NewWithHTTPClient(Config{BaseURL: srv.URL}, srv.Client())
	require.NoError(t, err)

	snap, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(100), snap[reconcile.EplfLogAll])
	assert.Equal(t, int64(95), snap[reconcile.ZdPaymentAll])
}

func TestFetch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewWithHTTPClient(Config{BaseURL: srv.URL}, srv.Client())
	require.NoError(t, err)

	_, err = c.Fetch(context.Background())

	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, http.StatusInternalServerError, ferr.StatusCode)
	assert.Equal(t, uint16(500), ferr.Code())
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func TestFetch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New(Config{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.Fetch(context.Background())

	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Zero(t, ferr.StatusCode)
	assert.Equal(t, CodeTransport, ferr.Code())
}

func TestFetch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Flask returns str(e) with a 200 when the query fails.
		_, _ = w.Write([]byte("could not connect to server"))
	}))
	defer srv.Close()

	c, err := NewWithHTTPClient(Config{BaseURL: srv.URL}, srv.Client())
	require.NoError(t, err)

	_, err = c.Fetch(context.Background())

	var verr *reconcile.ValidationError
	require.ErrorAs(t, err, &verr)

	var ferr *FetchError
	assert.False(t, errors.As(err, &ferr))
}

func TestFetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, err := NewWithHTTPClient(Config{BaseURL: srv.URL}, srv.Client())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Fetch(ctx)
	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_PathJoin(t *testing.T) {
	c, err := New(Config{BaseURL: "http://backend:5000/monitor/", Path: "/update_data"})
	require.NoError(t, err)
	assert.Equal(t, "http://backend:5000/monitor/update_data", c.URL())

	_, err = New(Config{})
	assert.Error(t, err)
}

func TestFetch_OnlyStatusOKAccepted(t *testing.T) {
	for _, code := range []int{http.StatusNoContent, http.StatusAccepted, http.StatusNotModified, http.StatusNotFound} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(code)
				if code == http.StatusAccepted {
					_, _ = w.Write([]byte(`{"zd_payment_all": 1}`))
				}
			}))
			defer srv.Close()

			c, err := NewWithHTTPClient(Config{BaseURL: srv.URL}, srv.Client())
			require.NoError(t, err)

			_, err = c.Fetch(context.Background())

			var ferr *FetchError
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, code, ferr.StatusCode)
		})
	}
}

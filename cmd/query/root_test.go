package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthURL(t *testing.T) {
	tests := map[string]string{
		":8000":          "http://127.0.0.1:8000/health",
		"0.0.0.0:9000":   "http://127.0.0.1:9000/health",
		"10.0.0.5:8000":  "http://10.0.0.5:8000/health",
		"[::]:8000":      "http://127.0.0.1:8000/health",
		"localhost:8080": "http://localhost:8080/health",
	}
	for in, want := range tests {
		assert.Equal(t, want, healthURL(in), in)
	}
}

func TestProbe(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if healthy.Load() {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	require.NoError(t, probe(context.Background(), srv.URL+"/health", time.Second))

	healthy.Store(false)
	err := probe(context.Background(), srv.URL+"/health", time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestHealthcheckCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"healthcheck", "--url", srv.URL + "/health"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "ok\n", out.String())
}

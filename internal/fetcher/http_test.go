package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetch(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "advisor-test/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("country,name\nUS,United States\n"))
	}))
	defer ts.Close()

	f := NewHTTP(HTTPOptions{UserAgent: "advisor-test/1.0", RPS: 100})
	body, err := f.Fetch(context.Background(), ts.URL+"/markets.csv")
	require.NoError(t, err)
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "United States")
}

func TestHTTPFetchRetriesServerError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer ts.Close()

	f := NewHTTP(HTTPOptions{MaxRetries: 3, RPS: 100})
	body, err := f.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	defer body.Close() //nolint:errcheck

	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPFetchExhaustsRetries(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	f := NewHTTP(HTTPOptions{MaxRetries: 2, RPS: 100})
	_, err := f.Fetch(ctx, ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all retries exhausted")
}

func TestHTTPFetchNotFoundIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	f := NewHTTP(HTTPOptions{RPS: 100})
	_, err := f.Fetch(context.Background(), ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPFetchToFile(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("snapshot-bytes"))
	}))
	defer ts.Close()

	path := filepath.Join(t.TempDir(), "markets.csv")
	f := NewHTTP(HTTPOptions{RPS: 100})

	n, err := f.FetchToFile(context.Background(), ts.URL, path)
	require.NoError(t, err)
	assert.Equal(t, int64(len("snapshot-bytes")), n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "snapshot-bytes", string(data))
}

func TestHTTPDefaults(t *testing.T) {
	t.Parallel()

	f := NewHTTP(HTTPOptions{})
	assert.Equal(t, 30*time.Second, f.opts.Timeout)
	assert.Equal(t, 3, f.opts.MaxRetries)
	assert.Equal(t, "advisor-cli/1.0", f.opts.UserAgent)
	assert.Equal(t, float64(5), f.opts.RPS)
}

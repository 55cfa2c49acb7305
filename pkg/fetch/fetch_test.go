package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/shellstrap/pkg/errors"
	"github.com/arthur-debert/shellstrap/pkg/testutil"
)

func TestGetFirstEndpointWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("203.0.113.7"))
	}))
	defer srv.Close()

	c := New(time.Second)
	body, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", string(body))
}

func TestGetFallsBackToSecondEndpoint(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer bad.Close()

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("fallback"))
	}))
	defer good.Close()

	c := New(time.Second)
	body, err := c.Get(context.Background(), bad.URL, good.URL)
	require.NoError(t, err)
	assert.Equal(t, "fallback", string(body))
}

func TestGetAllEndpointsFail(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer bad.Close()

	c := New(time.Second)
	_, err := c.Get(context.Background(), bad.URL, bad.URL)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNetwork))
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"theme":"ok"}`))
	}))
	defer srv.Close()

	fs := testutil.NewMemoryFS()
	c := New(time.Second)

	err := c.Download(context.Background(), fs, "/data/themes/x.omp.json", srv.URL)
	require.NoError(t, err)

	content, err := fs.ReadFile("/data/themes/x.omp.json")
	require.NoError(t, err)
	assert.Equal(t, `{"theme":"ok"}`, string(content))
}

func TestGetRejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 64))
	}))
	defer srv.Close()

	c := New(time.Second)
	c.maxBody = 16

	_, err := c.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "byte limit")
}

func TestGetAcceptsBodyExactlyAtLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 16))
	}))
	defer srv.Close()

	c := New(time.Second)
	c.maxBody = 16

	body, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, body, 16)
}

func TestDownloadOversizedBodyWritesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 64))
	}))
	defer srv.Close()

	fs := testutil.NewMemoryFS()
	c := New(time.Second)
	c.maxBody = 16

	err := c.Download(context.Background(), fs, "/data/bootstrap/installer.msixbundle", srv.URL)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDownload))

	_, err = fs.ReadFile("/data/bootstrap/installer.msixbundle")
	assert.Error(t, err, "a truncated installer must never reach disk")
}

func TestPublicIPTrimsWhitespace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("198.51.100.1\n"))
	}))
	defer srv.Close()

	c := New(time.Second)
	ip, err := c.PublicIP(context.Background(), []string{srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.1", ip)
}

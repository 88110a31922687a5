package statserv

import (
	"crypto/tls"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lynx-mem/lynxalloc"
	"github.com/stretchr/testify/require"
)

func testSource(t *testing.T) *lynxalloc.Heap {
	t.Helper()
	h, err := lynxalloc.New(lynxalloc.DefaultConfig())
	require.NoError(t, err)
	return h
}

func TestCountersEndpoint(t *testing.T) {
	h := testSource(t)
	p := h.Alloc(64)
	defer h.Free(p)

	rec := httptest.NewRecorder()
	Handler(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/counters", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var c lynxalloc.Counters
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	require.EqualValues(t, 1, c.TotalAllocs)
	require.EqualValues(t, 1, c.RegionAllocs)
}

func TestConfigEndpoint(t *testing.T) {
	h := testSource(t)

	rec := httptest.NewRecorder()
	Handler(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/config", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg lynxalloc.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	require.Equal(t, h.Config(), cfg)
}

func TestHeapEndpoint(t *testing.T) {
	h := testSource(t)
	p := h.Alloc(64)
	defer h.Free(p)

	rec := httptest.NewRecorder()
	Handler(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/heap", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	require.True(t, strings.Contains(rec.Body.String(), "lynxalloc debug info"))
}

func TestDevTLSConfig(t *testing.T) {
	cfg, err := DevTLS("localhost", "127.0.0.1")
	require.NoError(t, err)
	require.Len(t, cfg.Certificates, 1)
	require.EqualValues(t, tls.VersionTLS13, cfg.MinVersion, "QUIC needs TLS 1.3")
	require.Contains(t, cfg.NextProtos, "h3")
}

func TestListenerTLSUpgradesWeakConfigs(t *testing.T) {
	got := listenerTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	require.EqualValues(t, tls.VersionTLS13, got.MinVersion)
	require.Equal(t, []string{"h3"}, got.NextProtos)

	require.NotNil(t, listenerTLS(nil))
}

func TestServerStartStop(t *testing.T) {
	h := testSource(t)
	tlsCfg, err := DevTLS("localhost")
	require.NoError(t, err)

	srv := NewServer("127.0.0.1:0", tlsCfg, h)
	addr, err := srv.Start()
	if err != nil {
		t.Skip("udp listen unavailable:", err)
	}
	require.NotEmpty(t, addr)
	require.NoError(t, srv.Stop())
	require.NoError(t, srv.Stop(), "second stop is a no-op")
}

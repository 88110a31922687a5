// Package statserv exposes an allocator's counters, configuration, and debug
// dump over HTTP/3 for out-of-process inspection. The endpoint is read-only;
// it never calls into the allocation paths.
package statserv

import (
	"crypto/tls"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/lynx-mem/lynxalloc"
	http3 "github.com/quic-go/quic-go/http3"
)

// Source is the slice of a heap the server reads. *lynxalloc.Heap satisfies
// it directly.
type Source interface {
	Counters() lynxalloc.Counters
	Config() lynxalloc.Config
	DumpDebugInfo(w io.Writer)
}

// Server serves allocator state over HTTP/3. Create one with NewServer,
// bring it up with Start, and tear it down with Stop; the zero value is not
// usable.
type Server struct {
	h3       *http3.Server
	conn     net.PacketConn
	done     chan struct{}
	serveErr error
}

// NewServer creates a server for addr backed by src.
func NewServer(addr string, tlsCfg *tls.Config, src Source) *Server {
	return &Server{
		h3: &http3.Server{Addr: addr, TLSConfig: listenerTLS(tlsCfg), Handler: Handler(src)},
	}
}

// listenerTLS normalizes a TLS config for the QUIC listener: HTTP/3 runs
// over TLS 1.3 only and negotiates via the h3 ALPN token.
func listenerTLS(cfg *tls.Config) *tls.Config {
	if cfg == nil {
		cfg = &tls.Config{}
	} else {
		cfg = cfg.Clone()
	}
	if cfg.MinVersion < tls.VersionTLS13 {
		cfg.MinVersion = tls.VersionTLS13
	}
	if len(cfg.NextProtos) == 0 {
		cfg.NextProtos = []string{"h3"}
	}
	return cfg
}

// Handler returns the route table used by the server. Exposed so tests can
// exercise the endpoints without a QUIC listener.
func Handler(src Source) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/counters", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, src.Counters())
	})
	mux.HandleFunc("/config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, src.Config())
	})
	mux.HandleFunc("/heap", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		src.DumpDebugInfo(w)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Start binds a UDP socket and serves in the background. The returned
// address is the one actually bound, which matters for ":0" listeners.
func (s *Server) Start() (string, error) {
	conn, err := net.ListenPacket("udp", s.h3.Addr)
	if err != nil {
		return "", err
	}
	s.conn = conn
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		s.serveErr = s.h3.Serve(conn)
	}()
	return conn.LocalAddr().String(), nil
}

// Stop shuts the server down and waits for the serve loop to exit. It
// returns the loop's failure, if it died for any reason other than being
// closed. Stopping a server that never started is a no-op.
func (s *Server) Stop() error {
	if s.conn == nil {
		return nil
	}
	closeErr := s.h3.Close()
	_ = s.conn.Close()
	<-s.done
	if closeErr != nil {
		return closeErr
	}
	if s.serveErr != nil &&
		!errors.Is(s.serveErr, http.ErrServerClosed) && !errors.Is(s.serveErr, net.ErrClosed) {
		return s.serveErr
	}
	return nil
}

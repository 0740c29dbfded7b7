// Package ipcsock implements the optional inverse-search IPC channel
// (spec §6): a PDF viewer that supports "jump to source" on a double-click
// writes one JSON object per line to a Unix domain socket named texlab.sock
// in the OS runtime directory; this package turns that into a callback the
// LSP layer can relay to the editor as a window/showDocument notification.
//
// There's no unix-socket precedent elsewhere in this codebase to follow, so
// this is built directly on net/bufio/encoding/json rather than a
// third-party socket library — no such library is in scope here, and the
// standard library's net package is the idiomatic way to listen on a Unix
// socket in Go.
package ipcsock

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"sync"
)

// Request is one inverse-search request: a PDF viewer reporting the source
// location a click landed on.
type Request struct {
	Path   string `json:"path"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// DefaultPath returns where the socket is created: $XDG_RUNTIME_DIR if set,
// the OS temp directory otherwise, per spec §6 ("placed in the OS runtime
// directory").
func DefaultPath() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "texlab.sock")
}

// Server accepts inverse-search connections and invokes a handler for
// every well-formed Request line received.
type Server struct {
	ln   net.Listener
	path string

	closeOnce sync.Once
	doneCh    chan struct{}
}

// Listen creates the socket at path, removing a stale one left behind by a
// previous crashed process first.
func Listen(path string) (*Server, error) {
	_ = os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	return &Server{ln: ln, path: path, doneCh: make(chan struct{})}, nil
}

// Serve accepts connections until ctx is canceled or Close is called,
// calling handle once per inverse-search request line received. Each
// connection is read on its own goroutine so one slow or silent viewer
// can't block requests from another.
func (s *Server) Serve(ctx context.Context, handle func(Request)) {
	go func() {
		<-ctx.Done()
		_ = s.ln.Close()
	}()
	go func() {
		defer close(s.doneCh)
		for {
			conn, err := s.ln.Accept()
			if err != nil {
				return
			}
			go serveConn(conn, handle)
		}
	}()
}

func serveConn(conn net.Conn, handle func(Request)) {
	defer conn.Close()
	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		var req Request
		if err := json.Unmarshal(sc.Bytes(), &req); err != nil {
			continue
		}
		handle(req)
	}
}

// Close stops accepting connections and removes the socket file. Safe to
// call more than once.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.ln.Close()
		<-s.doneCh
		_ = os.Remove(s.path)
	})
	return err
}

package server

import (
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Server wraps the router with an HTTP/2-capable listener.
type Server struct {
	handler http.Handler
}

// New builds a Server around a freshly constructed router.
func New(cfg Config) *Server {
	return &Server{handler: NewRouter(cfg)}
}

// Run serves on addr. The handler is wrapped with h2c so HTTP/2 works
// without TLS behind a local or terminating proxy.
func (s *Server) Run(addr string) error {
	h := h2c.NewHandler(s.handler, &http2.Server{})
	return http.ListenAndServe(addr, h)
}

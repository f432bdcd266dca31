// Package httpserver constructs the API server with the timeouts every
// complio deployment should run with.
package httpserver

import (
	"net/http"
	"time"
)

// New wraps the router in an http.Server. Per-request deadlines come from
// the timeout middleware, so only header-read and idle limits are set here.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

//go:build !test

/* server.go
 * Contains the HTTP server Start function that listens for incoming
 * connections. Excluded from test coverage as it blocks and requires real
 * network binding.
 */

package web

import (
	"log"
	"net/http"
	"time"
)

// Start builds the server and blocks serving HTTP on cfg.Addr.
func Start(cfg Config) error {
	s := NewServer(cfg)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Println("HTTP server listening on", cfg.Addr)
	return srv.ListenAndServe()
}

package main

import (
	"net/http"
	"time"
)

// newServer builds the API server. WriteTimeout is deliberately unset:
// bulk dial and bulk refresh respond only after their paced loops
// finish, and large batches outlive any fixed write deadline.
func newServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

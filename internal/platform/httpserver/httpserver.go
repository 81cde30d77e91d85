package httpserver

import (
	"net/http"
	"time"
)

// New builds the HTTP server for the event API. Read and write timeouts stay
// generous because import uploads can carry whole spreadsheets in one body.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
}
